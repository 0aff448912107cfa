package selection

import (
	"sync"

	"studioadmin/internal/sentinel"
)

// MemoryStore is an in-memory selection store for tests and ephemeral
// deployments.
type MemoryStore struct {
	mu  sync.Mutex
	id  string
	set bool
}

// NewMemoryStore creates an empty in-memory selection store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", sentinel.ErrNotFound
	}
	return s.id, nil
}

func (s *MemoryStore) Save(studioID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = studioID
	s.set = true
	return nil
}

func (s *MemoryStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	s.set = false
	return nil
}
