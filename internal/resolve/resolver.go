// Package resolve orchestrates a search: primary enrichment through
// ZoomInfo, history recording, and the asynchronous Clay fallback when the
// primary pass produces no email.
package resolve

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/invisible-growth/leadfinder/internal/history"
	"github.com/invisible-growth/leadfinder/internal/jobs"
	"github.com/invisible-growth/leadfinder/internal/model"
	"github.com/invisible-growth/leadfinder/pkg/clay"
	"github.com/invisible-growth/leadfinder/pkg/zoominfo"
)

// Status is the outcome of the primary resolution pass.
type Status string

const (
	// StatusSucceeded means the primary API returned a contact with an email.
	StatusSucceeded Status = "succeeded"
	// StatusNeedsFallback means no email was found; the caller may trigger
	// the asynchronous fallback workflow.
	StatusNeedsFallback Status = "needs_fallback"
)

// Outcome carries the result of Resolve. Entry is the history record written
// for the search, in both the succeeded and needs-fallback cases.
type Outcome struct {
	Status  Status
	Contact model.ContactRecord
	Entry   model.HistoryEntry
}

// TokenSource supplies a valid API token and can discard one that the API
// has rejected.
type TokenSource interface {
	GetValidToken(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

const defaultFallbackTimeout = 90 * time.Second

// Resolver is the resolution orchestrator.
type Resolver struct {
	tokens          TokenSource
	zoominfo        zoominfo.Client
	clay            clay.Client
	history         *history.Service
	registry        *jobs.Registry
	fallbackTimeout time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFallbackTimeout bounds the fallback webhook call. It must stay below
// the gateway's 100s ceiling.
func WithFallbackTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.fallbackTimeout = d
		}
	}
}

// New wires a Resolver. The clay client may be nil when the fallback
// workflow is not configured; TriggerFallback then returns an error.
func New(tokens TokenSource, zi zoominfo.Client, cl clay.Client, hist *history.Service, reg *jobs.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		tokens:          tokens,
		zoominfo:        zi,
		clay:            cl,
		history:         hist,
		registry:        reg,
		fallbackTimeout: defaultFallbackTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the primary enrichment for a (person, company) pair and
// records the search in history. A no-match or an empty email field yields
// StatusNeedsFallback with an open history entry that the fallback workflow
// can later complete. Auth and network failures propagate without a history
// record.
func (r *Resolver) Resolve(ctx context.Context, personName, companyName string, source model.Source) (Outcome, error) {
	contact, err := r.enrich(ctx, personName, companyName)
	switch {
	case err == nil && contact.Email != "":
		record := model.ContactRecord{
			FirstName:   contact.FirstName,
			LastName:    contact.LastName,
			Email:       contact.Email,
			JobTitle:    contact.JobTitle,
			CompanyName: contact.CompanyName,
		}
		if record.CompanyName == "" {
			record.CompanyName = companyName
		}
		entry, err := r.history.Record(ctx, model.HistoryEntry{
			FullName:    personName,
			CompanyName: companyName,
			ContactData: record,
			Source:      source,
			Success:     true,
		})
		if err != nil {
			return Outcome{}, err
		}
		zap.L().Info("resolve: primary enrichment succeeded",
			zap.String("person", personName),
			zap.String("company", companyName))
		return Outcome{Status: StatusSucceeded, Contact: record, Entry: entry}, nil

	case err == nil || eris.Is(err, zoominfo.ErrNoMatch):
		// A hit without an email and a clean no-match both leave an open
		// entry so ApplyFallbackEmail can find it later.
		record := model.ContactRecord{CompanyName: companyName}
		if err == nil {
			record = model.ContactRecord{
				FirstName:   contact.FirstName,
				LastName:    contact.LastName,
				JobTitle:    contact.JobTitle,
				CompanyName: contact.CompanyName,
			}
			if record.CompanyName == "" {
				record.CompanyName = companyName
			}
		}
		entry, err := r.history.Record(ctx, model.HistoryEntry{
			FullName:    personName,
			CompanyName: companyName,
			ContactData: record,
			Source:      source,
			Success:     false,
		})
		if err != nil {
			return Outcome{}, err
		}
		zap.L().Info("resolve: no email from primary enrichment",
			zap.String("person", personName),
			zap.String("company", companyName))
		return Outcome{Status: StatusNeedsFallback, Contact: record, Entry: entry}, nil

	default:
		return Outcome{}, eris.Wrap(err, "resolve: primary enrichment")
	}
}

// enrich calls the primary API, refreshing the token once if the API rejects
// the current one.
func (r *Resolver) enrich(ctx context.Context, personName, companyName string) (*zoominfo.Contact, error) {
	token, err := r.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "resolve: acquire token")
	}

	contact, err := r.zoominfo.EnrichContact(ctx, token, personName, companyName)
	if err == nil || !isUnauthorized(err) {
		return contact, err
	}

	zap.L().Warn("resolve: token rejected, re-authenticating")
	if clearErr := r.tokens.Clear(ctx); clearErr != nil {
		return nil, eris.Wrap(clearErr, "resolve: clear rejected token")
	}
	token, err = r.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "resolve: re-acquire token")
	}
	return r.zoominfo.EnrichContact(ctx, token, personName, companyName)
}

func isUnauthorized(err error) bool {
	var apiErr *zoominfo.APIError
	return eris.As(err, &apiErr) && apiErr.StatusCode == 401
}

// TriggerFallback registers a fallback job and starts the webhook call in a
// detached goroutine, so cancelling the caller's context cannot abandon an
// in-flight workflow. Returns the job immediately; callers observe progress
// through the registry.
func (r *Resolver) TriggerFallback(ctx context.Context, personName, companyName string, source model.Source) (model.EnrichmentJob, error) {
	if r.clay == nil {
		return model.EnrichmentJob{}, eris.New("resolve: fallback workflow not configured")
	}

	job := r.registry.Create(personName, companyName, source)
	zap.L().Info("resolve: fallback triggered",
		zap.String("job_id", job.ID),
		zap.String("person", personName),
		zap.String("company", companyName))

	go r.runFallback(context.WithoutCancel(ctx), job)
	return job, nil
}

func (r *Resolver) runFallback(ctx context.Context, job model.EnrichmentJob) {
	ctx, cancel := context.WithTimeout(ctx, r.fallbackTimeout)
	defer cancel()

	email, err := r.clay.Enrich(ctx, job.PersonName, job.CompanyName)
	if err != nil {
		zap.L().Warn("resolve: fallback enrichment failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
		if failErr := r.registry.Fail(job.ID, err.Error()); failErr != nil {
			zap.L().Error("resolve: record fallback failure", zap.Error(failErr))
		}
		return
	}

	// History first, so a poller that sees the terminal job also sees the
	// updated entry.
	if _, _, err := r.history.ApplyFallbackEmail(ctx, job.PersonName, job.CompanyName, email, job.OriginalSource); err != nil {
		zap.L().Error("resolve: apply fallback email to history", zap.Error(err))
	}
	if err := r.registry.Complete(job.ID, email); err != nil {
		zap.L().Error("resolve: record fallback completion", zap.Error(err))
	}
	zap.L().Info("resolve: fallback enrichment completed",
		zap.String("job_id", job.ID))
}

// AwaitFallback polls the registry until the job reaches a terminal state or
// the fixed polling window closes.
func (r *Resolver) AwaitFallback(ctx context.Context, jobID string, interval time.Duration, maxPolls int) (model.EnrichmentJob, error) {
	return jobs.Poll(ctx, interval, maxPolls, func(context.Context) (model.EnrichmentJob, error) {
		return r.registry.Get(jobID)
	})
}
