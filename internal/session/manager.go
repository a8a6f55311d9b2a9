package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoSession is returned when the request context carries no session id.
var ErrNoSession = errors.New("no panel session in context")

type ctxKey struct{}

// WithID stores the panel session id on ctx.
func WithID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sessionID)
}

// IDFromContext returns the panel session id carried by ctx.
func IDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// NewID produces an opaque session identifier for the session cookie.
func NewID() string {
	return uuid.NewString()
}

type binderKey struct{}

// WithBinder installs bind, which hands a session id to the client, e.g. as a cookie.
func WithBinder(ctx context.Context, bind func(sessionID string)) context.Context {
	return context.WithValue(ctx, binderKey{}, bind)
}

// Rotate returns ctx carrying a fresh session id. Nothing reaches the client until Bind.
func Rotate(ctx context.Context) context.Context {
	return WithID(ctx, NewID())
}

// Bind hands the session id of ctx to the client. It reports false when ctx has no
// binder or no session id.
func Bind(ctx context.Context) bool {
	bind, ok := ctx.Value(binderKey{}).(func(string))
	if !ok || bind == nil {
		return false
	}
	id, ok := IDFromContext(ctx)
	if !ok {
		return false
	}
	bind(id)
	return true
}

// Manager binds a Store to the session id carried in request contexts. It is the
// token source handed to the API client, so nothing reads a global token.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// Token returns the bearer token of the session in ctx, "" when logged out.
func (m *Manager) Token(ctx context.Context) (string, error) {
	id, ok := IDFromContext(ctx)
	if !ok {
		return "", nil
	}
	return m.store.Token(ctx, id)
}

// SetToken stores token for the session in ctx.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	id, ok := IDFromContext(ctx)
	if !ok {
		return ErrNoSession
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required")
	}
	return m.store.SetToken(ctx, id, token, m.ttl)
}

// ClearToken forgets the token of the session in ctx. Missing sessions are a no-op.
func (m *Manager) ClearToken(ctx context.Context) error {
	id, ok := IDFromContext(ctx)
	if !ok {
		return nil
	}
	return m.store.ClearToken(ctx, id)
}

// LoggedIn reports whether the session in ctx holds a token.
func (m *Manager) LoggedIn(ctx context.Context) (bool, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}
