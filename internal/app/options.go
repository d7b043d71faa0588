package service

import (
	"time"

	"github.com/okian/hireview/internal/domain/session"
	"github.com/okian/hireview/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBackend sets the REST collaborator.
func WithBackend(b Backend) Option {
	return func(s *Service) {
		s.backend = b
	}
}

// WithSessionStore sets where the login session is persisted. Without one
// the session lives only in memory.
func WithSessionStore(store session.Store) Option {
	return func(s *Service) {
		s.sessions = store
	}
}

// WithPageSizes sets the allowed page sizes and the initial one.
func WithPageSizes(sizes []int, initial int) Option {
	return func(s *Service) {
		if len(sizes) > 0 {
			s.viewCfg.PageSizes = append([]int(nil), sizes...)
			s.viewCfg.DefaultPageSize = initial
		}
	}
}

// WithViewTTL sets how long an untouched view session is kept.
func WithViewTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.viewTTL = ttl
		}
	}
}

// WithSweepInterval sets how often expired view sessions are removed.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithDedupeSize sets how many schedule idempotency keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for view expiry and export filenames.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
