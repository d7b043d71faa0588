// Package session carries the authenticated HR user explicitly. There is no
// process-wide session: callers load one at a boundary (login, process
// start) and pass it down through context.
package session

import (
	"context"
	"time"

	"github.com/okian/hireview/internal/domain/types"
)

// Session is a bearer token plus the user it was issued to.
type Session struct {
	Token     string     `json:"token"`
	User      types.User `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// Valid reports whether the session can authenticate a request.
func (s Session) Valid() bool { return s.Token != "" }

// Store persists sessions between process runs.
type Store interface {
	// Save replaces the session stored under name.
	Save(ctx context.Context, name string, s Session) error
	// Load returns the stored session or ErrNoSession.
	Load(ctx context.Context, name string) (Session, error)
	// Delete removes the session; deleting a missing session is not an error.
	Delete(ctx context.Context, name string) error
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok && s.Valid()
}
