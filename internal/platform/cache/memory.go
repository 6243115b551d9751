package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const memoryCacheSize = 10000 // Limit cache size

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

type memoryCounter struct {
	count   int64
	expires time.Time
}

// memoryStore is the single-process fallback when Redis is not configured.
// Values live in a bounded LRU with per-entry expiry; counters sit in a
// plain map behind the mutex so increment-and-check stays atomic.
type memoryStore struct {
	mu       sync.Mutex
	values   *lru.Cache
	counters map[string]*memoryCounter
}

func NewMemoryStore() Store {
	values, _ := lru.New(memoryCacheSize)
	return &memoryStore{
		values:   values,
		counters: make(map[string]*memoryCounter),
	}
}

func (s *memoryStore) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := s.values.Get(key)
	if !ok {
		return false, nil
	}
	entry := v.(memoryEntry)
	if time.Now().After(entry.expires) {
		s.values.Remove(key)
		return false, nil
	}
	if err := json.Unmarshal(entry.raw, dest); err != nil {
		return false, fmt.Errorf("memoryStore.GetJSON unmarshal: %w", err)
	}
	return true, nil
}

func (s *memoryStore) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memoryStore.SetJSON marshal: %w", err)
	}
	s.values.Add(key, memoryEntry{raw: raw, expires: time.Now().Add(ttl)})
	return nil
}

func (s *memoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c, ok := s.counters[key]
	if !ok || now.After(c.expires) {
		c = &memoryCounter{expires: now.Add(ttl)}
		s.counters[key] = c
	}
	c.count++
	return c.count, nil
}
