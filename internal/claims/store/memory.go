package store

import (
	"context"
	"sync"

	"zkqrc/internal/claims/models"
)

// InMemory stores holder records in memory for tests and the demo
// environment.
type InMemory struct {
	mu         sync.RWMutex
	identities map[string]*models.IdentityRecord
	merkle     map[string]*models.MerkleRecord
}

// NewInMemory creates an empty in-memory holder store.
func NewInMemory() *InMemory {
	return &InMemory{
		identities: make(map[string]*models.IdentityRecord),
		merkle:     make(map[string]*models.MerkleRecord),
	}
}

// Put registers a holder with its identity and merkle records.
func (s *InMemory) Put(identity *models.IdentityRecord, record *models.MerkleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if identity != nil {
		s.identities[identity.ID] = identity
	}
	if record != nil {
		s.merkle[record.ID] = record
	}
}

// Identity retrieves a holder's identity record.
func (s *InMemory) Identity(_ context.Context, holderID string) (*models.IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.identities[holderID]; ok {
		return rec, nil
	}
	return nil, ErrNotFound
}

// MerkleRecord retrieves a holder's merkle commitment record.
func (s *InMemory) MerkleRecord(_ context.Context, holderID string) (*models.MerkleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.merkle[holderID]; ok {
		return rec, nil
	}
	return nil, ErrNotFound
}

// Health always succeeds for the in-memory store.
func (s *InMemory) Health(_ context.Context) error {
	return nil
}
