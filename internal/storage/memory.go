package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process store. It is the default backup and the
// store used by tests. A positive MaxBytes enables quota enforcement.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]string
	maxBytes int64
}

// NewMemoryStore creates an empty MemoryStore. maxBytes <= 0 disables the quota.
func NewMemoryStore(maxBytes int64) *MemoryStore {
	return &MemoryStore{data: make(map[string]string), maxBytes: maxBytes}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("memory key %s: %w", key, ErrNotFound)
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxBytes > 0 {
		var total int64
		for k, v := range s.data {
			if k != key {
				total += entrySize(k, v)
			}
		}
		if total+entrySize(key, value) > s.maxBytes {
			return fmt.Errorf("memory set %s: %w", key, ErrQuotaExceeded)
		}
	}
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Size(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for k, v := range s.data {
		total += entrySize(k, v)
	}
	return total, nil
}

// Keys returns the stored keys in no particular order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
