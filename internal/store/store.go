// Package store persists search history and small key-value state (the auth
// token) behind a driver-agnostic interface.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/invisible-growth/leadfinder/internal/config"
	"github.com/invisible-growth/leadfinder/internal/model"
)

// ErrNotFound is returned when an update targets a history entry that does
// not exist.
var ErrNotFound = eris.New("store: not found")

// Store is the persistence interface. GetValue returns an empty string for
// an absent key; the token manager treats empty as absent.
type Store interface {
	// Key-value state
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error

	// Search history
	AppendHistory(ctx context.Context, entry model.HistoryEntry) error
	UpdateHistory(ctx context.Context, entry model.HistoryEntry) error
	ListHistory(ctx context.Context, limit int) ([]model.HistoryEntry, error)
	ClearHistory(ctx context.Context) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
