// Package cachemap provides a concurrent-safe sharded map with
// per-entry expiration.
//
// It uses sharding to reduce lock contention and lazily evicts expired
// entries on read, making it suitable as an in-process cache backend.
package cachemap

import (
	"sync"
	"time"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Map is a concurrent-safe sharded map keyed by string with optional
// per-entry TTLs.
type Map[V any] struct {
	shards    []*shard[V]
	shardMask uint32
	now       func() time.Time
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
}

// New creates a map with the default shard count.
func New[V any]() *Map[V] {
	return NewWithShards[V](DefaultShardCount)
}

// NewWithShards creates a map with the specified shard count.
// shardCount must be a power of 2; invalid counts fall back to the default.
func NewWithShards[V any](shardCount int) *Map[V] {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	m := &Map[V]{
		shards:    make([]*shard[V], shardCount),
		shardMask: uint32(shardCount - 1),
		now:       time.Now,
	}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]entry[V])}
	}
	return m
}

func (m *Map[V]) getShard(key string) *shard[V] {
	return m.shards[murmur3.Sum32([]byte(key))&m.shardMask]
}

// Get retrieves a value by key. Expired entries are removed and
// reported as absent.
func (m *Map[V]) Get(key string) (V, bool) {
	s := m.getShard(key)

	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	if e.expired(m.now()) {
		s.mu.Lock()
		// Re-check under the write lock; the entry may have been replaced.
		if cur, ok := s.items[key]; ok && cur.expired(m.now()) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value without expiration.
func (m *Map[V]) Set(key string, value V) {
	m.SetTTL(key, value, 0)
}

// SetTTL stores a value that expires after ttl. A ttl of zero or less
// means no expiration.
func (m *Map[V]) SetTTL(key string, value V, ttl time.Duration) {
	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	s := m.getShard(key)
	s.mu.Lock()
	s.items[key] = e
	s.mu.Unlock()
}

// Delete removes a key.
func (m *Map[V]) Delete(key string) {
	s := m.getShard(key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Has checks if a key exists and is not expired.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Count returns the number of stored entries, including entries that
// have expired but not yet been evicted.
func (m *Map[V]) Count() int {
	count := 0
	for _, s := range m.shards {
		s.mu.RLock()
		count += len(s.items)
		s.mu.RUnlock()
	}
	return count
}

// Range calls fn for every live entry until fn returns false.
// The iteration order is unspecified.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	now := m.now()
	for _, s := range m.shards {
		s.mu.RLock()
		for k, e := range s.items {
			if e.expired(now) {
				continue
			}
			if !fn(k, e.value) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Purge removes all expired entries and returns the count removed.
// Intended to be called periodically by the owner.
func (m *Map[V]) Purge() int {
	now := m.now()
	removed := 0
	for _, s := range m.shards {
		s.mu.Lock()
		for k, e := range s.items {
			if e.expired(now) {
				delete(s.items, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Clear removes all entries.
func (m *Map[V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[string]entry[V])
		s.mu.Unlock()
	}
}
