// Package cache provides the cache-aside store for SyncSphere services.
package cache

import (
	"context"
	"time"

	"github.com/Bollo444/SyncSphere-sub004/pkg/cachemap"
)

// MemoryStore is a process-local cache backend used in tests and as a
// last-resort fallback. It never fails.
type MemoryStore struct {
	m    *cachemap.Map[[]byte]
	stop chan struct{}
}

// NewMemoryStore creates a memory store with a background janitor that
// purges expired entries once per minute.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		m:    cachemap.New[[]byte](),
		stop: make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.m.Purge()
		}
	}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	return s.m.Get(key)
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	// Copy so callers can reuse their buffer.
	buf := make([]byte, len(value))
	copy(buf, value)
	s.m.SetTTL(key, buf, ttl)
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, keys ...string) {
	for _, key := range keys {
		s.m.Delete(key)
	}
}

// Close stops the janitor.
func (s *MemoryStore) Close() error {
	close(s.stop)
	return nil
}
