package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invisible-growth/leadfinder/internal/model"
	"github.com/invisible-growth/leadfinder/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st)
}

func record(t *testing.T, s *Service, name, company, email string, ts time.Time) model.HistoryEntry {
	t.Helper()
	entry, err := s.Record(context.Background(), model.HistoryEntry{
		Timestamp:   ts,
		FullName:    name,
		CompanyName: company,
		ContactData: model.ContactRecord{
			FirstName:   "x",
			LastName:    "y",
			Email:       email,
			CompanyName: company,
		},
		Source:  model.SourceLinkedIn,
		Success: email != "",
	})
	require.NoError(t, err)
	return entry
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	s := newTestService(t)

	entry, err := s.Record(context.Background(), model.HistoryEntry{
		FullName:    "Jane Doe",
		CompanyName: "Acme",
		Source:      model.SourceLinkedIn,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestApplyFallbackEmailMutatesInPlace(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	record(t, s, "Jane Doe", "Acme", "", base)

	updated, mutated, err := s.ApplyFallbackEmail(ctx, "Jane Doe", "Acme", "jane@acme.com", model.SourceLinkedIn)
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.Equal(t, "jane@acme.com", updated.ContactData.Email)
	assert.Equal(t, model.SourceLinkedInClay, updated.Source)
	assert.True(t, updated.Success)
	assert.True(t, updated.ClayEnriched)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "list length must not change on mutation")
	assert.Equal(t, "jane@acme.com", entries[0].ContactData.Email)
}

func TestApplyFallbackEmailPicksNewestOpenEntry(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	older := record(t, s, "Jane Doe", "Acme", "", base)
	newer := record(t, s, "Jane Doe", "Acme", "", base.Add(time.Minute))

	updated, mutated, err := s.ApplyFallbackEmail(ctx, "Jane Doe", "Acme", "jane@acme.com", model.SourceLinkedIn)
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.Equal(t, newer.ID, updated.ID)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		if e.ID == older.ID {
			assert.Empty(t, e.ContactData.Email, "older entry must stay untouched")
		}
	}
}

func TestApplyFallbackEmailIsIdempotent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	record(t, s, "Jane Doe", "Acme", "", base)

	_, mutated, err := s.ApplyFallbackEmail(ctx, "Jane Doe", "Acme", "jane@acme.com", model.SourceLinkedIn)
	require.NoError(t, err)
	assert.True(t, mutated)

	// The second delivery finds no open entry and appends instead of
	// overwriting the first result.
	_, mutated, err = s.ApplyFallbackEmail(ctx, "Jane Doe", "Acme", "jane2@acme.com", model.SourceLinkedIn)
	require.NoError(t, err)
	assert.False(t, mutated)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestApplyFallbackEmailSynthesizesWhenNoMatch(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	entry, mutated, err := s.ApplyFallbackEmail(ctx, "John Roe", "Initech", "john@initech.com", model.SourceSalesNav)
	require.NoError(t, err)
	assert.False(t, mutated)
	assert.Equal(t, "John", entry.ContactData.FirstName)
	assert.Equal(t, "Roe", entry.ContactData.LastName)
	assert.Equal(t, model.SourceSalesNavClay, entry.Source)
	assert.True(t, entry.Success)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestApplyFallbackEmailSkipsEntriesWithEmail(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	resolved := record(t, s, "Jane Doe", "Acme", "existing@acme.com", base)

	entry, mutated, err := s.ApplyFallbackEmail(ctx, "Jane Doe", "Acme", "jane@acme.com", model.SourceLinkedIn)
	require.NoError(t, err)
	assert.False(t, mutated)
	assert.NotEqual(t, resolved.ID, entry.ID)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestClear(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	record(t, s, "Jane Doe", "Acme", "jane@acme.com", time.Now().UTC())
	require.NoError(t, s.Clear(ctx))

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
