// Package jobs tracks asynchronous enrichment jobs. The registry is the
// single source of truth a polling client reads; jobs never leave a terminal
// state once they reach one.
package jobs

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/invisible-growth/leadfinder/internal/model"
)

// ErrNotFound is returned when a job id is unknown. Polling an unknown id is
// a normal client mistake, never a panic.
var ErrNotFound = eris.New("jobs: job not found")

// Registry is an in-memory job table safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]model.EnrichmentJob
	now  func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]model.EnrichmentJob),
		now:  time.Now,
	}
}

// Create registers a new processing job and returns its id.
func (r *Registry) Create(personName, companyName string, source model.Source) model.EnrichmentJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	job := model.EnrichmentJob{
		ID:             uuid.NewString(),
		Status:         model.JobStatusProcessing,
		PersonName:     personName,
		CompanyName:    companyName,
		OriginalSource: source,
		StartTime:      r.now().UTC(),
	}
	r.jobs[job.ID] = job

	zap.L().Info("jobs: created",
		zap.String("job_id", job.ID),
		zap.String("person", personName),
		zap.String("company", companyName))
	return job
}

// Complete marks a job completed with the email the fallback produced.
// Terminal jobs are left untouched.
func (r *Registry) Complete(id, email string) error {
	return r.transition(id, func(job *model.EnrichmentJob) {
		now := r.now().UTC()
		job.Status = model.JobStatusCompleted
		job.Email = email
		job.CompletedTime = &now
	})
}

// Fail marks a job failed with the reason.
func (r *Registry) Fail(id, reason string) error {
	return r.transition(id, func(job *model.EnrichmentJob) {
		now := r.now().UTC()
		job.Status = model.JobStatusFailed
		job.Error = reason
		job.FailedTime = &now
	})
}

func (r *Registry) transition(id string, apply func(*model.EnrichmentJob)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.Terminal() {
		zap.L().Warn("jobs: ignoring transition on terminal job",
			zap.String("job_id", id),
			zap.String("status", string(job.Status)))
		return nil
	}
	apply(&job)
	r.jobs[id] = job

	zap.L().Info("jobs: transitioned",
		zap.String("job_id", id),
		zap.String("status", string(job.Status)))
	return nil
}

// Get returns a copy of the job, or ErrNotFound.
func (r *Registry) Get(id string) (model.EnrichmentJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return model.EnrichmentJob{}, ErrNotFound
	}
	return job, nil
}

// List returns all jobs, newest first.
func (r *Registry) List() []model.EnrichmentJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.EnrichmentJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}
