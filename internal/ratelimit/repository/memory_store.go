package repository

import (
	"context"
	"sync"

	"coldmail-backend/internal/ratelimit/domain"
)

type memoryStore struct {
	mu     sync.Mutex
	tables *domain.Tables
}

// NewMemoryStore creates a Store that keeps the tables in process memory.
// Counters are lost on restart.
func NewMemoryStore() Store {
	return &memoryStore{tables: domain.NewTables()}
}

func (s *memoryStore) Load(_ context.Context) (*domain.Tables, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.Clone(), nil
}

func (s *memoryStore) Save(_ context.Context, tables *domain.Tables) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = tables.Normalize().Clone()
	return nil
}

func (s *memoryStore) Close() error { return nil }
