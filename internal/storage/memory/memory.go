// Package memory provides an in-process PlanStore backed by an LRU cache.
// It is the default when no Redis backend is configured.
package memory

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/openfreight/roadlog/internal/storage"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Store is an LRU-bounded, TTL-expiring in-memory plan cache.
type Store struct {
	cache *lru.Cache[string, entry]
	ttl   time.Duration
}

// Open creates an in-memory store holding at most size entries, each
// valid for ttl. A zero ttl means entries never expire.
func Open(size int, ttl time.Duration) (*Store, error) {
	cache, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache, ttl: ttl}, nil
}

// GetPlan implements storage.PlanStore.
func (s *Store) GetPlan(_ context.Context, fingerprint string) ([]byte, error) {
	e, ok := s.cache.Get(fingerprint)
	if !ok {
		return nil, storage.ErrNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.cache.Remove(fingerprint)
		return nil, storage.ErrNotFound
	}
	return e.payload, nil
}

// PutPlan implements storage.PlanStore.
func (s *Store) PutPlan(_ context.Context, fingerprint string, payload []byte) error {
	e := entry{payload: payload}
	if s.ttl > 0 {
		e.expiresAt = time.Now().Add(s.ttl)
	}
	s.cache.Add(fingerprint, e)
	return nil
}

// Close implements storage.PlanStore.
func (s *Store) Close() error {
	s.cache.Purge()
	return nil
}
