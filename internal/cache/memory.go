package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests. Entries honor TTLs the
// same way the Redis store does.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string, dest any) error {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(entry.data, dest)
}

func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}
