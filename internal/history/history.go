// Package history records completed searches and applies fallback-delivered
// emails to them idempotently.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/invisible-growth/leadfinder/internal/model"
	"github.com/invisible-growth/leadfinder/internal/store"
)

// listAll is large enough to cover any realistic history when searching for
// the entry a fallback email belongs to.
const listAll = 10000

// Service wraps the store with the history semantics: append on search,
// mutate in place when the fallback fills an email in later.
type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Record appends a new history entry, assigning ID and timestamp when unset.
func (s *Service) Record(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}
	if err := s.store.AppendHistory(ctx, entry); err != nil {
		return model.HistoryEntry{}, eris.Wrap(err, "history: record")
	}
	return entry, nil
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	return s.store.ListHistory(ctx, limit)
}

// Clear removes all entries.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.ClearHistory(ctx)
}

// ApplyFallbackEmail attaches an email produced by the fallback workflow to
// the search that triggered it. The newest entry matching (personName,
// companyName) with an empty email is mutated in place and its source gains
// the "-clay" suffix; a second delivery for the same pair therefore finds no
// match. When no entry qualifies, a synthesized one is prepended instead.
// The returned bool is true when an existing entry was mutated.
func (s *Service) ApplyFallbackEmail(ctx context.Context, personName, companyName, email string, originalSource model.Source) (model.HistoryEntry, bool, error) {
	entries, err := s.store.ListHistory(ctx, listAll)
	if err != nil {
		return model.HistoryEntry{}, false, eris.Wrap(err, "history: list for fallback update")
	}

	now := s.now().UTC()
	for _, entry := range entries {
		if entry.FullName != personName || entry.CompanyName != companyName {
			continue
		}
		if entry.ContactData.Email != "" {
			continue
		}

		entry.ContactData.Email = email
		entry.Source = originalSource.WithClay()
		entry.Success = true
		entry.ClayEnriched = true
		entry.ClayEnrichedAt = &now
		if err := s.store.UpdateHistory(ctx, entry); err != nil {
			return model.HistoryEntry{}, false, eris.Wrap(err, "history: apply fallback email")
		}

		zap.L().Info("history: fallback email applied to existing entry",
			zap.String("entry_id", entry.ID),
			zap.String("person", personName),
			zap.String("company", companyName))
		return entry, true, nil
	}

	// No open entry for this pair. Normally the search that triggered the
	// fallback recorded one, so this is the exception path.
	entry := model.HistoryEntry{
		ID:             uuid.NewString(),
		Timestamp:      now,
		FullName:       personName,
		CompanyName:    companyName,
		ContactData:    model.SynthesizeContact(personName, companyName, email),
		Source:         originalSource.WithClay(),
		Success:        true,
		ClayEnriched:   true,
		ClayEnrichedAt: &now,
	}
	if err := s.store.AppendHistory(ctx, entry); err != nil {
		return model.HistoryEntry{}, false, eris.Wrap(err, "history: append fallback entry")
	}

	zap.L().Info("history: fallback email recorded as new entry",
		zap.String("person", personName),
		zap.String("company", companyName))
	return entry, false, nil
}
