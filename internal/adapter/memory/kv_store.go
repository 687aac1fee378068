package memory

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
)

// KVStore keeps values in a process-local map. It does not survive a
// restart and exists for tests and ephemeral sessions.
type KVStore struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", repository.ErrStoreClosed
	}
	val, ok := s.data[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return repository.ErrStoreClosed
	}
	s.data[key] = value
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return repository.ErrStoreClosed
	}
	delete(s.data, key)
	return nil
}

func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
