package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	redisclient "github.com/mijnfegon/mijnfegon-backend/pkg/redis"
)

// ErrSessionNotFound signals a missing or revoked session record.
var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// Manager tracks live access sessions in Redis so tokens can be revoked server-side.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return nil, fmt.Errorf("jwt expiration minutes must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   time.Duration(cfg.ExpirationMinutes) * time.Minute,
	}, nil
}

// NewAccessID returns a fresh session identifier for a minted token.
func NewAccessID() string {
	return uuid.NewString()
}

// Create registers the session for the given access ID.
func (m *Manager) Create(ctx context.Context, accessID string, userID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Set(ctx, m.keyer.AccessSessionKey(accessID), userID, m.ttl)
}

// HasSession reports whether the access ID still maps to a live session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke deletes the session tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return ErrSessionNotFound
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(accessID))
}
