package jobs

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/invisible-growth/leadfinder/internal/model"
)

const (
	// DefaultPollInterval and DefaultMaxPolls hold the poll window at 93s,
	// under the 100s gateway ceiling on the fallback webhook.
	DefaultPollInterval = 3 * time.Second
	DefaultMaxPolls     = 31
)

// ErrPollTimeout is returned when the job is still processing after the last
// poll. The job itself keeps running; only the wait gives up.
var ErrPollTimeout = eris.New("jobs: poll window exhausted")

// StatusFunc fetches the current state of a job.
type StatusFunc func(ctx context.Context) (model.EnrichmentJob, error)

// Poll calls get at a fixed interval until the job reaches a terminal state,
// maxPolls is spent, or ctx is done. The interval stays fixed; the fallback
// workflow's latency does not shrink under backoff, it just finishes when it
// finishes.
func Poll(ctx context.Context, interval time.Duration, maxPolls int, get StatusFunc) (model.EnrichmentJob, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxPolls <= 0 {
		maxPolls = DefaultMaxPolls
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for polls := 0; polls < maxPolls; polls++ {
		select {
		case <-ctx.Done():
			return model.EnrichmentJob{}, eris.Wrap(ctx.Err(), "jobs: poll cancelled")
		case <-ticker.C:
		}

		job, err := get(ctx)
		if err != nil {
			return model.EnrichmentJob{}, eris.Wrap(err, "jobs: poll status")
		}
		if job.Terminal() {
			return job, nil
		}
	}

	return model.EnrichmentJob{}, ErrPollTimeout
}
