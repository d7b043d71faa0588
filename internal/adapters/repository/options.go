package repository

import "time"

// Option applies a configuration option to the MemoryViewStore.
type Option func(*memoryOptions)

type memoryOptions struct {
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	onExpire      func(id string)
}

// WithTTL sets how long a value may stay unused before it is swept.
// Zero or negative disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(o *memoryOptions) {
		o.ttl = ttl
	}
}

// WithSweepInterval sets how often the background sweeper runs.
func WithSweepInterval(interval time.Duration) Option {
	return func(o *memoryOptions) {
		if interval > 0 {
			o.sweepInterval = interval
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *memoryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithExpireHook is called, outside the store lock, for each swept id.
func WithExpireHook(fn func(id string)) Option {
	return func(o *memoryOptions) {
		o.onExpire = fn
	}
}
