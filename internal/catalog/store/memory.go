// Package store provides catalog configuration backends.
package store

import (
	"context"
	"slices"
	"sync"

	"claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
)

type pairKey struct {
	company   id.InsuranceCompanyID
	claimType id.ClaimTypeID
}

type exportKey struct {
	pairKey
	exportType claims.DocumentType
}

// InMemoryStore keeps catalog configuration in maps. It is used by tests and
// by deployments that seed configuration at startup.
type InMemoryStore struct {
	mu           sync.RWMutex
	requirements map[pairKey][]models.DocumentRequirementDefinition
	collages     map[pairKey][]models.Collage
	exports      map[exportKey][]models.ExportSetting
	depositSlip  map[pairKey]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		requirements: make(map[pairKey][]models.DocumentRequirementDefinition),
		collages:     make(map[pairKey][]models.Collage),
		exports:      make(map[exportKey][]models.ExportSetting),
		depositSlip:  make(map[pairKey]bool),
	}
}

func (s *InMemoryStore) PutRequirements(companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, defs ...models.DocumentRequirementDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{companyID, claimTypeID}
	s.requirements[k] = append(s.requirements[k], defs...)
}

func (s *InMemoryStore) PutCollages(companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, collages ...models.Collage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{companyID, claimTypeID}
	s.collages[k] = append(s.collages[k], collages...)
}

func (s *InMemoryStore) PutExportSettings(companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, exportType claims.DocumentType, settings ...models.ExportSetting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := exportKey{pairKey{companyID, claimTypeID}, exportType}
	s.exports[k] = append(s.exports[k], settings...)
}

func (s *InMemoryStore) SetDepositSlipRequired(companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, required bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depositSlip[pairKey{companyID, claimTypeID}] = required
}

func (s *InMemoryStore) ListRequirements(_ context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.DocumentRequirementDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.requirements[pairKey{companyID, claimTypeID}]), nil
}

func (s *InMemoryStore) ListCollages(_ context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.Collage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.collages[pairKey{companyID, claimTypeID}]
	out := make([]models.Collage, len(src))
	for i, c := range src {
		c.DocumentIDs = slices.Clone(c.DocumentIDs)
		c.Media = nil
		out[i] = c
	}
	return out, nil
}

func (s *InMemoryStore) ListExportSettings(_ context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, exportType claims.DocumentType) ([]models.ExportSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.exports[exportKey{pairKey{companyID, claimTypeID}, exportType}]), nil
}

func (s *InMemoryStore) DepositSlipRequired(_ context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.depositSlip[pairKey{companyID, claimTypeID}], nil
}
