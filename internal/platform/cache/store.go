// Package cache holds a small in-process TTL cache with load deduplication.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-rankings/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e entry[V]) live(now time.Time) bool {
	return e.expiresAt.IsZero() || e.expiresAt.After(now)
}

// Store is a process-local TTL cache keyed by string. A zero ttl keeps entries
// until they are deleted or reset. Expired entries are dropped lazily on read
// and swept at most once per ttl on write.
type Store[V any] struct {
	mu        sync.Mutex
	entries   map[string]entry[V]
	ttl       time.Duration
	lastSweep time.Time
	flight    resilience.SingleFlight[V]
	now       func() time.Time
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     max(ttl, 0),
		now:     time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return zero, false
	}
	if !e.live(s.now()) {
		delete(s.entries, key)
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl)
		if now.Sub(s.lastSweep) >= s.ttl {
			s.sweep(now)
		}
	}
	s.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
}

// sweep drops expired entries. Callers hold mu.
func (s *Store[V]) sweep(now time.Time) {
	for key, e := range s.entries {
		if !e.live(now) {
			delete(s.entries, key)
		}
	}
	s.lastSweep = now
}

func (s *Store[V]) Delete(_ context.Context, keys ...string) {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// Reset drops every entry.
func (s *Store[V]) Reset(_ context.Context) {
	s.mu.Lock()
	s.entries = make(map[string]entry[V])
	s.mu.Unlock()
}

// Len counts stored entries, expired ones included until they are swept.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key or runs loader once for all
// concurrent callers and caches its result. Loader errors are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, _, err := s.flight.Do(ctx, key, func(ctx context.Context) (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return zero, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	return value, nil
}
