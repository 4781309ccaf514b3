package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invisible-growth/leadfinder/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testEntry(name, company, email string) model.HistoryEntry {
	return model.HistoryEntry{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC().Truncate(time.Second),
		FullName:    name,
		CompanyName: company,
		ContactData: model.ContactRecord{
			FirstName:   "Jane",
			LastName:    "Doe",
			Email:       email,
			CompanyName: company,
		},
		Source:  model.SourceLinkedIn,
		Success: email != "",
	}
}

func TestSQLiteKeyValue(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	// Absent key reads as empty, not an error.
	v, err := s.GetValue(ctx, "zoominfo_auth_token")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetValue(ctx, "zoominfo_auth_token", "jwt-1"))
	v, err = s.GetValue(ctx, "zoominfo_auth_token")
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", v)

	// Upsert overwrites.
	require.NoError(t, s.SetValue(ctx, "zoominfo_auth_token", "jwt-2"))
	v, err = s.GetValue(ctx, "zoominfo_auth_token")
	require.NoError(t, err)
	assert.Equal(t, "jwt-2", v)

	require.NoError(t, s.DeleteValue(ctx, "zoominfo_auth_token"))
	v, err = s.GetValue(ctx, "zoominfo_auth_token")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSQLiteHistoryRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := testEntry("Jane Doe", "Acme", "jane@acme.com")
	second := testEntry("John Roe", "Initech", "")
	second.Timestamp = first.Timestamp.Add(time.Second)

	require.NoError(t, s.AppendHistory(ctx, first))
	require.NoError(t, s.AppendHistory(ctx, second))

	entries, err := s.ListHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)

	got := entries[1]
	assert.Equal(t, "Jane Doe", got.FullName)
	assert.Equal(t, "jane@acme.com", got.ContactData.Email)
	assert.Equal(t, model.SourceLinkedIn, got.Source)
	assert.True(t, got.Success)
	assert.False(t, got.ClayEnriched)
	assert.Nil(t, got.ClayEnrichedAt)
}

func TestSQLiteUpdateHistory(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	entry := testEntry("Jane Doe", "Acme", "")
	require.NoError(t, s.AppendHistory(ctx, entry))

	now := time.Now().UTC().Truncate(time.Second)
	entry.ContactData.Email = "jane@acme.com"
	entry.Source = entry.Source.WithClay()
	entry.Success = true
	entry.ClayEnriched = true
	entry.ClayEnrichedAt = &now
	require.NoError(t, s.UpdateHistory(ctx, entry))

	entries, err := s.ListHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "update must mutate in place, not append")

	got := entries[0]
	assert.Equal(t, "jane@acme.com", got.ContactData.Email)
	assert.Equal(t, model.SourceLinkedInClay, got.Source)
	assert.True(t, got.ClayEnriched)
	require.NotNil(t, got.ClayEnrichedAt)
}

func TestSQLiteUpdateHistoryUnknownID(t *testing.T) {
	s := newTestSQLite(t)

	err := s.UpdateHistory(context.Background(), testEntry("Jane Doe", "Acme", ""))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteClearHistory(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.AppendHistory(ctx, testEntry("Jane Doe", "Acme", "jane@acme.com")))
	require.NoError(t, s.ClearHistory(ctx))

	entries, err := s.ListHistory(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLiteListHistoryLimit(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		e := testEntry("Jane Doe", "Acme", "jane@acme.com")
		e.Timestamp = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, s.AppendHistory(ctx, e))
	}

	entries, err := s.ListHistory(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
