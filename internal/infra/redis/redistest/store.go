// Package redistest provides a deterministic in-memory Store for unit
// tests. Expiry is driven by an injected clock, not wall time. Calls fail
// with the context error once the caller's context is done, matching the
// real client.
package redistest

import (
	"context"
	"sync"
	"time"

	"flashsale/internal/infra/redis"
	"flashsale/internal/pkg/clock"
)

type entry struct {
	value    []byte
	expireAt time.Time // zero means no expiry
}

type Store struct {
	mu   sync.Mutex
	clk  clock.Clock
	data map[string]entry

	// GetCalls counts Get invocations, expired lookups included.
	GetCalls int
}

var _ redis.Store = (*Store)(nil)

func NewStore(clk clock.Clock) *Store {
	return &Store{
		clk:  clk,
		data: make(map[string]entry),
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++

	e, ok := s.live(key)
	if !ok {
		return nil, redis.ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{value: append([]byte(nil), value...), expireAt: s.deadline(ttl)}
	return nil
}

func (s *Store) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.data[key] = entry{value: []byte(value), expireAt: s.deadline(ttl)}
	return true, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *Store) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok || string(e.value) != expected {
		return false, nil
	}
	delete(s.data, key)
	return true, nil
}

// Has reports whether the key currently exists and is unexpired.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.live(key)
	return ok
}

func (s *Store) live(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expireAt.IsZero() && !e.expireAt.After(s.clk.Now()) {
		delete(s.data, key)
		return entry{}, false
	}
	return e, true
}

func (s *Store) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.clk.Now().Add(ttl)
}
