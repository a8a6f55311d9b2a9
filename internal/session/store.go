package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	redisclient "github.com/kermes/kermes-panel/pkg/redis"
)

// Store keeps the API bearer token of each panel session.
// Token returns "" with a nil error when the session holds no token.
type Store interface {
	Token(ctx context.Context, sessionID string) (string, error)
	SetToken(ctx context.Context, sessionID, token string, ttl time.Duration) error
	ClearToken(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	token   string
	expires time.Time
}

// MemoryStore is the single-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Token(_ context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[sessionID]
	m.mu.RUnlock()
	if !ok {
		return "", nil
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		m.mu.Lock()
		delete(m.entries, sessionID)
		m.mu.Unlock()
		return "", nil
	}
	return entry.token, nil
}

func (m *MemoryStore) SetToken(_ context.Context, sessionID, token string, ttl time.Duration) error {
	entry := memoryEntry{token: token}
	if ttl > 0 {
		entry.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[sessionID] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ClearToken(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
	return nil
}

type redisTokenClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionTokenKey(sessionID string) string
}

// RedisStore mirrors session tokens to Redis so several panel instances share them.
type RedisStore struct {
	client redisTokenClient
}

func NewRedisStore(client redisTokenClient) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Token(ctx context.Context, sessionID string) (string, error) {
	token, err := r.client.Get(ctx, r.client.SessionTokenKey(sessionID))
	if err != nil {
		if redisclient.IsNil(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading session token: %w", err)
	}
	return strings.TrimSpace(token), nil
}

func (r *RedisStore) SetToken(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.client.SessionTokenKey(sessionID), token, ttl); err != nil {
		return fmt.Errorf("storing session token: %w", err)
	}
	return nil
}

func (r *RedisStore) ClearToken(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.client.SessionTokenKey(sessionID)); err != nil && !errors.Is(err, redisclient.ErrNotInitialized) {
		return fmt.Errorf("clearing session token: %w", err)
	}
	return nil
}
