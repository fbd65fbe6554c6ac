// Package store persists claim requirement records and claim documents.
package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/sentinel"
	"claimdocs/pkg/platform/tx"
)

// InMemoryStore keeps requirement records per claim.
type InMemoryStore struct {
	mu        sync.RWMutex
	probatory map[id.ClaimID][]claims.ClaimProbatoryDocument
	documents map[id.ClaimID][]claims.ClaimDocument
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		probatory: make(map[id.ClaimID][]claims.ClaimProbatoryDocument),
		documents: make(map[id.ClaimID][]claims.ClaimDocument),
	}
}

func (s *InMemoryStore) InsertProbatoryDocuments(ctx context.Context, docs []claims.ClaimProbatoryDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		for _, existing := range s.probatory[doc.ClaimID] {
			if existing.Key() == doc.Key() {
				return fmt.Errorf("requirement %d/%d on claim %s: %w", doc.DocumentID, doc.ItemIndex(), doc.ClaimID, sentinel.ErrConflict)
			}
		}
	}
	journaled := make(map[id.ClaimID]bool)
	for _, doc := range docs {
		if !journaled[doc.ClaimID] {
			s.journalLocked(ctx, doc.ClaimID)
			journaled[doc.ClaimID] = true
		}
	}
	for _, doc := range docs {
		s.probatory[doc.ClaimID] = append(s.probatory[doc.ClaimID], cloneProbatory(doc))
	}
	return nil
}

func (s *InMemoryStore) InsertClaimDocuments(ctx context.Context, docs []claims.ClaimDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	journaled := make(map[id.ClaimID]bool)
	for _, doc := range docs {
		if !journaled[doc.ClaimID] {
			s.journalLocked(ctx, doc.ClaimID)
			journaled[doc.ClaimID] = true
		}
	}
	for _, doc := range docs {
		s.documents[doc.ClaimID] = append(s.documents[doc.ClaimID], cloneClaimDocument(doc))
	}
	return nil
}

func (s *InMemoryStore) DeleteItemLevelAbove(ctx context.Context, claimID id.ClaimID, quantity int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journalLocked(ctx, claimID)
	kept := s.probatory[claimID][:0]
	removed := 0
	for _, doc := range s.probatory[claimID] {
		if doc.IsItemLevel() && doc.ItemIndex() > quantity {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	s.probatory[claimID] = kept
	return removed, nil
}

func (s *InMemoryStore) DeleteIfExists(ctx context.Context, claimID id.ClaimID, documentID id.DocumentID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journalLocked(ctx, claimID)
	docs := s.probatory[claimID]
	for i, doc := range docs {
		if doc.DocumentID == documentID && !doc.IsItemLevel() {
			s.probatory[claimID] = slices.Delete(docs, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) ListByClaim(_ context.Context, claimID id.ClaimID) ([]claims.ClaimProbatoryDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]claims.ClaimProbatoryDocument, 0, len(s.probatory[claimID]))
	for _, doc := range s.probatory[claimID] {
		out = append(out, cloneProbatory(doc))
	}
	sortProbatory(out)
	return out, nil
}

func (s *InMemoryStore) SetMedia(ctx context.Context, claimID id.ClaimID, requirementID id.RequirementID, media *claims.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journalLocked(ctx, claimID)
	for i, doc := range s.probatory[claimID] {
		if doc.ID == requirementID {
			if media != nil {
				m := *media
				media = &m
			}
			s.probatory[claimID][i].Media = media
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) ListClaimDocuments(_ context.Context, claimID id.ClaimID) ([]claims.ClaimDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]claims.ClaimDocument, 0, len(s.documents[claimID]))
	for _, doc := range s.documents[claimID] {
		out = append(out, cloneClaimDocument(doc))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortPriority < out[j].SortPriority })
	return out, nil
}

func (s *InMemoryStore) CompleteClaimDocument(ctx context.Context, claimID id.ClaimID, docType claims.DocumentType, document claims.Document) (*claims.ClaimDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journalLocked(ctx, claimID)
	for i, doc := range s.documents[claimID] {
		if doc.DocumentType == docType {
			s.documents[claimID][i].Status = claims.ClaimDocumentCompleted
			s.documents[claimID][i].Document = &document
			out := cloneClaimDocument(s.documents[claimID][i])
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) DeleteClaimDocumentIfExists(ctx context.Context, claimID id.ClaimID, docType claims.DocumentType) (*claims.ClaimDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journalLocked(ctx, claimID)
	docs := s.documents[claimID]
	for i, doc := range docs {
		if doc.DocumentType == docType {
			s.documents[claimID] = slices.Delete(docs, i, i+1)
			return &doc, nil
		}
	}
	return nil, nil
}

// journalLocked snapshots the records of claimID and restores them if the
// in-memory transaction in ctx rolls back.
func (s *InMemoryStore) journalLocked(ctx context.Context, claimID id.ClaimID) {
	probatory := make([]claims.ClaimProbatoryDocument, 0, len(s.probatory[claimID]))
	for _, doc := range s.probatory[claimID] {
		probatory = append(probatory, cloneProbatory(doc))
	}
	documents := make([]claims.ClaimDocument, 0, len(s.documents[claimID]))
	for _, doc := range s.documents[claimID] {
		documents = append(documents, cloneClaimDocument(doc))
	}
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(probatory) == 0 {
			delete(s.probatory, claimID)
		} else {
			s.probatory[claimID] = probatory
		}
		if len(documents) == 0 {
			delete(s.documents, claimID)
		} else {
			s.documents[claimID] = documents
		}
	})
}

func cloneProbatory(doc claims.ClaimProbatoryDocument) claims.ClaimProbatoryDocument {
	if doc.ClaimItemID != nil {
		idx := *doc.ClaimItemID
		doc.ClaimItemID = &idx
	}
	if doc.Media != nil {
		m := *doc.Media
		doc.Media = &m
	}
	return doc
}

func cloneClaimDocument(doc claims.ClaimDocument) claims.ClaimDocument {
	if doc.Document != nil {
		d := *doc.Document
		doc.Document = &d
	}
	return doc
}

func sortProbatory(docs []claims.ClaimProbatoryDocument) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if a.SortPriority != b.SortPriority {
			return a.SortPriority < b.SortPriority
		}
		if a.ItemIndex() != b.ItemIndex() {
			return a.ItemIndex() < b.ItemIndex()
		}
		return a.DocumentID < b.DocumentID
	})
}
