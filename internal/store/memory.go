package store

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps collections in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu    sync.Mutex
	items *cache.Cache
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Load(_ context.Context, collection string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items.Get(collection)
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v.([]byte)...), nil
}

func (s *MemoryStore) Save(_ context.Context, records map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, data := range records {
		s.items.Set(name, append([]byte(nil), data...), cache.NoExpiration)
	}
	return nil
}

// Put stores a raw payload, bypassing encoding. Useful for seeding.
func (s *MemoryStore) Put(collection string, data []byte) {
	_ = s.Save(context.Background(), map[string][]byte{collection: data})
}

func (s *MemoryStore) Close() error { return nil }
