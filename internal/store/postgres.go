package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/invisible-growth/leadfinder/internal/model"
)

// pgxPool is the subset of pgxpool.Pool the store uses. pgxmock stands in
// for it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool. Used when several operators
// share one history database.
type PostgresStore struct {
	pool pgxPool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS kv_state (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS search_history (
	id               TEXT PRIMARY KEY,
	ts               TIMESTAMPTZ NOT NULL,
	full_name        TEXT NOT NULL,
	company_name     TEXT NOT NULL,
	contact_data     JSONB NOT NULL,
	source           TEXT NOT NULL,
	success          BOOLEAN NOT NULL,
	clay_enriched    BOOLEAN NOT NULL DEFAULT FALSE,
	clay_enriched_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_history_ts ON search_history(ts);
CREATE INDEX IF NOT EXISTS idx_history_person ON search_history(full_name, company_name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM kv_state WHERE key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "postgres: get %s", key)
	}
	return value, nil
}

func (s *PostgresStore) SetValue(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_state (key, value, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: set %s", key)
}

func (s *PostgresStore) DeleteValue(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv_state WHERE key = $1`, key)
	return eris.Wrapf(err, "postgres: delete %s", key)
}

func (s *PostgresStore) AppendHistory(ctx context.Context, entry model.HistoryEntry) error {
	contactJSON, err := json.Marshal(entry.ContactData)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal contact")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO search_history
		 (id, ts, full_name, company_name, contact_data, source, success, clay_enriched, clay_enriched_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.Timestamp.UTC(), entry.FullName, entry.CompanyName,
		contactJSON, string(entry.Source), entry.Success,
		entry.ClayEnriched, entry.ClayEnrichedAt,
	)
	return eris.Wrapf(err, "postgres: append history %s", entry.ID)
}

func (s *PostgresStore) UpdateHistory(ctx context.Context, entry model.HistoryEntry) error {
	contactJSON, err := json.Marshal(entry.ContactData)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal contact")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE search_history
		 SET contact_data = $1, source = $2, success = $3, clay_enriched = $4, clay_enriched_at = $5
		 WHERE id = $6`,
		contactJSON, string(entry.Source), entry.Success,
		entry.ClayEnriched, entry.ClayEnrichedAt, entry.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update history %s", entry.ID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListHistory(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, ts, full_name, company_name, contact_data, source, success, clay_enriched, clay_enriched_at
		 FROM search_history ORDER BY ts DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list history")
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var (
			entry       model.HistoryEntry
			contactJSON []byte
			source      string
			enrichedAt  *time.Time
		)
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.FullName, &entry.CompanyName,
			&contactJSON, &source, &entry.Success, &entry.ClayEnriched, &enrichedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan history")
		}
		if err := json.Unmarshal(contactJSON, &entry.ContactData); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal contact")
		}
		entry.Source = model.Source(source)
		entry.ClayEnrichedAt = enrichedAt
		entries = append(entries, entry)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list history iterate")
}

func (s *PostgresStore) ClearHistory(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM search_history`)
	return eris.Wrap(err, "postgres: clear history")
}
