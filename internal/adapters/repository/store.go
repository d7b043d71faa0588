// Package repository holds the process's state: open view sessions in
// memory and the login session in a SQL database.
package repository

import (
	"context"
	"time"
)

// ViewStore keeps live values keyed by id and expires the idle ones.
type ViewStore[T any] interface {
	// Put stores v under id and marks it as just used.
	Put(ctx context.Context, id string, v T)
	// Get returns the value and marks it as used. Returns ErrNotFound for
	// unknown or expired ids.
	Get(ctx context.Context, id string) (T, error)
	// Delete removes id. Returns ErrNotFound if it was not present.
	Delete(ctx context.Context, id string) error
	// Sweep removes values idle for longer than ttl as of now and returns
	// how many were removed.
	Sweep(now time.Time, ttl time.Duration) int
	// Count returns the number of live values.
	Count(ctx context.Context) int
}
