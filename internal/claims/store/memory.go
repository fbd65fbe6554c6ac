// Package store persists claim headers. Requirement records live in the
// requirements store.
package store

import (
	"context"
	"fmt"
	"sync"

	"claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/sentinel"
	"claimdocs/pkg/platform/tx"
)

// InMemoryStore keeps claims in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu     sync.RWMutex
	claims map[id.ClaimID]models.Claim
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{claims: make(map[id.ClaimID]models.Claim)}
}

func (s *InMemoryStore) Create(ctx context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.claims[claim.ID]; exists {
		return fmt.Errorf("claim %s: %w", claim.ID, sentinel.ErrConflict)
	}
	if s.activeOrderTakenLocked(claim.ExternalOrderNumber, claim.ID) {
		return fmt.Errorf("external order number %q: %w", claim.ExternalOrderNumber, sentinel.ErrConflict)
	}
	s.claims[claim.ID] = header(claim)
	claimID := claim.ID
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.claims, claimID)
	})
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, claimID id.ClaimID) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[claimID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

// FindByIDForUpdate is FindByID; the in-memory transaction runner already
// serializes writers of the same claim.
func (s *InMemoryStore) FindByIDForUpdate(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	return s.FindByID(ctx, claimID)
}

func (s *InMemoryStore) Update(ctx context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous, ok := s.claims[claim.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if claim.Status.IsActive() && s.activeOrderTakenLocked(claim.ExternalOrderNumber, claim.ID) {
		return fmt.Errorf("external order number %q: %w", claim.ExternalOrderNumber, sentinel.ErrConflict)
	}
	s.claims[claim.ID] = header(claim)
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.claims[previous.ID] = previous
	})
	return nil
}

func (s *InMemoryStore) activeOrderTakenLocked(orderNumber string, except id.ClaimID) bool {
	for cid, c := range s.claims {
		if cid != except && c.Status.IsActive() && c.ExternalOrderNumber == orderNumber {
			return true
		}
	}
	return false
}

// header strips the aggregate's child collections.
func header(claim *models.Claim) models.Claim {
	c := *claim
	c.ProbatoryDocuments = nil
	c.Documents = nil
	return c
}
