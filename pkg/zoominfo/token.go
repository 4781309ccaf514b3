package zoominfo

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Storage keys for the persisted credential.
const (
	KeyAuthToken    = "zoominfo_auth_token"
	KeyTokenExpires = "zoominfo_token_expires"
)

// ExpiryBuffer is subtracted from the token's expiry when checking validity,
// so a token about to lapse mid-request is treated as expired.
const ExpiryBuffer = 5 * time.Minute

// TokenStore persists the credential across process restarts. An empty value
// from GetValue means the key is absent.
type TokenStore interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}

// TokenManager owns the single live credential for the enrichment API. All
// mutation goes through Authenticate and Clear; at most one credential exists
// process-wide.
type TokenManager struct {
	mu        sync.Mutex
	client    Client
	store     TokenStore
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewTokenManager creates a TokenManager backed by the given client and store.
func NewTokenManager(client Client, store TokenStore) *TokenManager {
	return &TokenManager{
		client: client,
		store:  store,
		now:    time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (m *TokenManager) WithNow(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// IsValid reports whether a credential is present and outside the expiry buffer.
func (m *TokenManager) IsValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validLocked()
}

func (m *TokenManager) validLocked() bool {
	return m.token != "" && !m.expiresAt.IsZero() &&
		m.now().Before(m.expiresAt.Add(-ExpiryBuffer))
}

// GetValidToken returns the current token, authenticating first if the
// credential is absent or expired. Authentication failures propagate; there
// is no retry at this layer.
func (m *TokenManager) GetValidToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.validLocked() {
		return m.token, nil
	}

	zap.L().Debug("zoominfo: token expired or missing, authenticating")

	jwt, lifetime, err := m.client.Authenticate(ctx)
	if err != nil {
		return "", err
	}

	m.token = jwt
	m.expiresAt = m.now().Add(lifetime)

	if err := m.persistLocked(ctx); err != nil {
		// A failed persist does not invalidate the in-memory credential.
		zap.L().Warn("zoominfo: persist token", zap.Error(err))
	}

	return m.token, nil
}

// LoadStored reads the persisted credential on startup. A stored token that
// is already expired is proactively cleared.
func (m *TokenManager) LoadStored(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.GetValue(ctx, KeyAuthToken)
	if err != nil {
		return eris.Wrap(err, "zoominfo: load stored token")
	}
	expiresStr, err := m.store.GetValue(ctx, KeyTokenExpires)
	if err != nil {
		return eris.Wrap(err, "zoominfo: load stored expiry")
	}
	if token == "" || expiresStr == "" {
		return nil
	}

	millis, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return eris.Wrap(err, "zoominfo: parse stored expiry")
	}

	m.token = token
	m.expiresAt = time.UnixMilli(millis)

	if !m.validLocked() {
		zap.L().Info("zoominfo: stored token is expired, clearing")
		return m.clearLocked(ctx)
	}

	zap.L().Debug("zoominfo: loaded stored token",
		zap.Time("expires_at", m.expiresAt),
	)
	return nil
}

// Clear removes the credential from memory and durable storage.
func (m *TokenManager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearLocked(ctx)
}

func (m *TokenManager) clearLocked(ctx context.Context) error {
	m.token = ""
	m.expiresAt = time.Time{}

	if err := m.store.DeleteValue(ctx, KeyAuthToken); err != nil {
		return eris.Wrap(err, "zoominfo: clear stored token")
	}
	if err := m.store.DeleteValue(ctx, KeyTokenExpires); err != nil {
		return eris.Wrap(err, "zoominfo: clear stored expiry")
	}
	return nil
}

func (m *TokenManager) persistLocked(ctx context.Context) error {
	if err := m.store.SetValue(ctx, KeyAuthToken, m.token); err != nil {
		return err
	}
	return m.store.SetValue(ctx, KeyTokenExpires,
		strconv.FormatInt(m.expiresAt.UnixMilli(), 10))
}

// ExpiresAt returns the current credential expiry (zero when absent).
func (m *TokenManager) ExpiresAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiresAt
}
