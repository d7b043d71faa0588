package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/hireview/pkg/metrics"
)

type slot[T any] struct {
	value    T
	lastUsed time.Time
}

// MemoryViewStore is an in-memory ViewStore with a background sweeper.
type MemoryViewStore[T any] struct {
	mu    sync.RWMutex
	items map[string]*slot[T]
	opts  memoryOptions

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryViewStore constructs the store and starts the sweeper when a TTL
// is configured. The sweeper stops on ctx cancellation or Close.
func NewMemoryViewStore[T any](ctx context.Context, opts ...Option) *MemoryViewStore[T] {
	s := &MemoryViewStore[T]{
		items: make(map[string]*slot[T]),
		opts: memoryOptions{
			sweepInterval: time.Minute,
			now:           time.Now,
		},
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	if s.opts.ttl > 0 {
		s.startSweeper(ctx)
	}
	return s
}

func (s *MemoryViewStore[T]) startSweeper(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.opts.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Sweep(s.opts.now(), s.opts.ttl)
			}
		}
	}()
}

// Close stops the sweeper and waits for it.
func (s *MemoryViewStore[T]) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Put implements ViewStore.Put.
func (s *MemoryViewStore[T]) Put(_ context.Context, id string, v T) {
	s.mu.Lock()
	s.items[id] = &slot[T]{value: v, lastUsed: s.opts.now()}
	n := len(s.items)
	s.mu.Unlock()
	metrics.UpdateViewsOpen(n)
}

// Get implements ViewStore.Get.
func (s *MemoryViewStore[T]) Get(_ context.Context, id string) (T, error) {
	now := s.opts.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok || s.expired(it, now) {
		var zero T
		return zero, ErrNotFound
	}
	it.lastUsed = now
	return it.value, nil
}

// Delete implements ViewStore.Delete.
func (s *MemoryViewStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.items[id]
	delete(s.items, id)
	n := len(s.items)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	metrics.UpdateViewsOpen(n)
	return nil
}

// Sweep implements ViewStore.Sweep.
func (s *MemoryViewStore[T]) Sweep(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	var gone []string
	s.mu.Lock()
	for id, it := range s.items {
		if now.Sub(it.lastUsed) > ttl {
			delete(s.items, id)
			gone = append(gone, id)
		}
	}
	n := len(s.items)
	s.mu.Unlock()

	for _, id := range gone {
		metrics.RecordViewExpired()
		if s.opts.onExpire != nil {
			s.opts.onExpire(id)
		}
	}
	if len(gone) > 0 {
		metrics.UpdateViewsOpen(n)
	}
	return len(gone)
}

// Count implements ViewStore.Count.
func (s *MemoryViewStore[T]) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryViewStore[T]) expired(it *slot[T], now time.Time) bool {
	return s.opts.ttl > 0 && now.Sub(it.lastUsed) > s.opts.ttl
}
