package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/invisible-growth/leadfinder/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. The default backend;
// a single local file, no server.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS kv_state (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS search_history (
	id               TEXT PRIMARY KEY,
	ts               DATETIME NOT NULL,
	full_name        TEXT NOT NULL,
	company_name     TEXT NOT NULL,
	contact_data     TEXT NOT NULL,
	source           TEXT NOT NULL,
	success          INTEGER NOT NULL,
	clay_enriched    INTEGER NOT NULL DEFAULT 0,
	clay_enriched_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_history_ts ON search_history(ts);
CREATE INDEX IF NOT EXISTS idx_history_person ON search_history(full_name, company_name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_state WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: get %s", key)
	}
	return value, nil
}

func (s *SQLiteStore) SetValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: set %s", key)
}

func (s *SQLiteStore) DeleteValue(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_state WHERE key = ?`, key)
	return eris.Wrapf(err, "sqlite: delete %s", key)
}

func (s *SQLiteStore) AppendHistory(ctx context.Context, entry model.HistoryEntry) error {
	contactJSON, err := json.Marshal(entry.ContactData)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal contact")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_history
		 (id, ts, full_name, company_name, contact_data, source, success, clay_enriched, clay_enriched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp.UTC(), entry.FullName, entry.CompanyName,
		string(contactJSON), string(entry.Source), entry.Success,
		entry.ClayEnriched, entry.ClayEnrichedAt,
	)
	return eris.Wrapf(err, "sqlite: append history %s", entry.ID)
}

func (s *SQLiteStore) UpdateHistory(ctx context.Context, entry model.HistoryEntry) error {
	contactJSON, err := json.Marshal(entry.ContactData)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal contact")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE search_history
		 SET contact_data = ?, source = ?, success = ?, clay_enriched = ?, clay_enriched_at = ?
		 WHERE id = ?`,
		string(contactJSON), string(entry.Source), entry.Success,
		entry.ClayEnriched, entry.ClayEnrichedAt, entry.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update history %s", entry.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListHistory(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, full_name, company_name, contact_data, source, success, clay_enriched, clay_enriched_at
		 FROM search_history ORDER BY ts DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list history")
	}
	defer func() { _ = rows.Close() }()

	var entries []model.HistoryEntry
	for rows.Next() {
		var (
			entry       model.HistoryEntry
			contactJSON string
			source      string
			enrichedAt  sql.NullTime
		)
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.FullName, &entry.CompanyName,
			&contactJSON, &source, &entry.Success, &entry.ClayEnriched, &enrichedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan history")
		}
		if err := json.Unmarshal([]byte(contactJSON), &entry.ContactData); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal contact")
		}
		entry.Source = model.Source(source)
		if enrichedAt.Valid {
			t := enrichedAt.Time
			entry.ClayEnrichedAt = &t
		}
		entries = append(entries, entry)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list history iterate")
}

func (s *SQLiteStore) ClearHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM search_history`)
	return eris.Wrap(err, "sqlite: clear history")
}
