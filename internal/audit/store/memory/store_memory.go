package memory

import (
	"context"
	"sync"

	"certifier/internal/audit"
)

// InMemoryStore keeps audit records in process memory. Used by unit tests
// and by DB-less runs where history may vanish on restart.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records []audit.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.nextID = 1
}

func (s *InMemoryStore) Append(_ context.Context, record audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = s.nextID
	s.nextID++
	s.records = append(s.records, record)
	return nil
}

// List returns records most recent first, mirroring the SQLite ORDER BY.
func (s *InMemoryStore) List(_ context.Context) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}
