package stepup

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/stepup"
)

// MemoryStore is a process-local Store for tests and single-instance
// deployments without a distributed cache.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]stepup.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]stepup.Session)}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, session *stepup.Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.TransactionID]; exists {
		return false, nil
	}
	s.sessions[session.TransactionID] = *session
	return true, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, transactionID uuid.UUID) (*stepup.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[transactionID]
	if !ok {
		return nil, stepup.ErrSessionNotFound
	}
	out := session
	return &out, nil
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, session *stepup.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.TransactionID] = *session
	return nil
}
