// Package requirements keeps a claim's set of required documents in step
// with its catalog configuration, item quantity and deposit-slip flag.
package requirements

import (
	"context"
	"log/slog"

	catalog "claimdocs/internal/catalog/models"
	catalogsvc "claimdocs/internal/catalog/service"
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
)

// Catalog is the subset of the catalog resolver the service needs.
type Catalog interface {
	GetRequirements(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]catalog.DocumentRequirementDefinition, error)
	Slots() catalog.DepositSlipConfig
}

// Store persists requirement records. Every method runs inside whatever
// transaction the caller placed in ctx.
type Store interface {
	InsertProbatoryDocuments(ctx context.Context, docs []claims.ClaimProbatoryDocument) error
	InsertClaimDocuments(ctx context.Context, docs []claims.ClaimDocument) error
	DeleteItemLevelAbove(ctx context.Context, claimID id.ClaimID, quantity int) (int, error)
	DeleteIfExists(ctx context.Context, claimID id.ClaimID, documentID id.DocumentID) (bool, error)
	ListByClaim(ctx context.Context, claimID id.ClaimID) ([]claims.ClaimProbatoryDocument, error)
}

// FixedDocument is a claim-document slot every claim receives.
type FixedDocument struct {
	Type         claims.DocumentType
	GroupID      claims.Group
	SortPriority int
}

// DefaultFixedDocuments are the receipt and signature slots.
var DefaultFixedDocuments = []FixedDocument{
	{Type: claims.DocumentTypeReceipt, GroupID: claims.GroupReceipt, SortPriority: 1},
	{Type: claims.DocumentTypeSignature, GroupID: claims.GroupAdminDocs, SortPriority: 99},
}

type Service struct {
	catalog Catalog
	store   Store
	fixed   []FixedDocument
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFixedDocuments replaces the default fixed claim-document slots.
func WithFixedDocuments(fixed ...FixedDocument) Option {
	return func(s *Service) {
		s.fixed = fixed
	}
}

func New(catalog Catalog, store Store, opts ...Option) (*Service, error) {
	if catalog == nil || store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "requirements service requires a catalog and a store")
	}
	s := &Service{
		catalog: catalog,
		store:   store,
		fixed:   DefaultFixedDocuments,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MaterializeRequest describes a freshly created claim.
type MaterializeRequest struct {
	ClaimID               id.ClaimID
	CompanyID             id.InsuranceCompanyID
	ClaimTypeID           id.ClaimTypeID
	ItemsQuantity         int
	IsDepositSlipRequired bool
	HasDepositSlip        bool
}

// Materialized is everything written for a new claim.
type Materialized struct {
	ProbatoryDocuments []claims.ClaimProbatoryDocument
	ClaimDocuments     []claims.ClaimDocument
}

// Materialize writes the full requirement set of a new claim: header records,
// item records for 1..ItemsQuantity, the fixed claim-document slots and, when
// required, the deposit-slip slot matching HasDepositSlip. Nothing is written
// when resolution fails; a failed write is returned as-is for the caller's
// transaction to roll back.
func (s *Service) Materialize(ctx context.Context, req MaterializeRequest) (*Materialized, error) {
	if req.ClaimID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "claim id is required")
	}
	if req.ItemsQuantity < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "items quantity must be at least 1")
	}

	defs, err := s.catalog.GetRequirements(ctx, req.CompanyID, req.ClaimTypeID)
	if err != nil {
		return nil, err
	}
	header, item := catalogsvc.Partition(defs)
	slots := s.catalog.Slots()

	docs := make([]claims.ClaimProbatoryDocument, 0, len(header)+len(item)*req.ItemsQuantity+1)
	for _, def := range header {
		if slots.IsSlotDocument(def.DocumentID) {
			continue
		}
		docs = append(docs, headerRecord(req.ClaimID, def.DocumentID, def.Name, def.GroupID, def.SortPriority))
	}
	if req.IsDepositSlipRequired {
		slot := slots.SlotFor(req.HasDepositSlip)
		docs = append(docs, headerRecord(req.ClaimID, slot.DocumentID, slot.Name, slot.GroupID, slot.SortPriority))
	}
	docs = append(docs, itemRecords(req.ClaimID, item, 1, req.ItemsQuantity)...)

	claimDocs := make([]claims.ClaimDocument, 0, len(s.fixed))
	for _, f := range s.fixed {
		claimDocs = append(claimDocs, claims.ClaimDocument{
			ID:           id.NewClaimDocumentID(),
			ClaimID:      req.ClaimID,
			DocumentType: f.Type,
			GroupID:      f.GroupID,
			SortPriority: f.SortPriority,
			Status:       claims.ClaimDocumentInProcess,
		})
	}

	if err := s.store.InsertProbatoryDocuments(ctx, docs); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist probatory documents")
	}
	if err := s.store.InsertClaimDocuments(ctx, claimDocs); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist claim documents")
	}

	s.logger.InfoContext(ctx, "requirements materialized",
		"claim_id", req.ClaimID,
		"probatory_documents", len(docs),
		"claim_documents", len(claimDocs),
		"items_quantity", req.ItemsQuantity,
	)
	return &Materialized{ProbatoryDocuments: docs, ClaimDocuments: claimDocs}, nil
}

// AdjustRequest carries a quantity change already read from the claim.
type AdjustRequest struct {
	ClaimID     id.ClaimID
	CompanyID   id.InsuranceCompanyID
	ClaimTypeID id.ClaimTypeID
	OldQuantity int
	NewQuantity int
}

// Variance reports what AdjustQuantity changed.
type Variance struct {
	Added   int
	Removed int
}

// AdjustQuantity adds item records for indices OldQuantity+1..NewQuantity, or
// deletes every item record above NewQuantity whether or not it holds media.
// Records at or below the smaller quantity are never touched.
func (s *Service) AdjustQuantity(ctx context.Context, req AdjustRequest) (Variance, error) {
	if req.NewQuantity < 1 {
		return Variance{}, dErrors.New(dErrors.CodeValidation, "items quantity must be at least 1")
	}
	switch {
	case req.NewQuantity == req.OldQuantity:
		return Variance{}, nil

	case req.NewQuantity > req.OldQuantity:
		defs, err := s.catalog.GetRequirements(ctx, req.CompanyID, req.ClaimTypeID)
		if err != nil {
			return Variance{}, err
		}
		_, item := catalogsvc.Partition(defs)
		docs := itemRecords(req.ClaimID, item, req.OldQuantity+1, req.NewQuantity)
		if len(docs) == 0 {
			return Variance{}, nil
		}
		if err := s.store.InsertProbatoryDocuments(ctx, docs); err != nil {
			return Variance{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add item requirements")
		}
		s.logger.InfoContext(ctx, "item requirements added",
			"claim_id", req.ClaimID,
			"from_item", req.OldQuantity+1,
			"to_item", req.NewQuantity,
			"records", len(docs),
		)
		return Variance{Added: len(docs)}, nil

	default:
		removed, err := s.store.DeleteItemLevelAbove(ctx, req.ClaimID, req.NewQuantity)
		if err != nil {
			return Variance{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove item requirements")
		}
		s.logger.InfoContext(ctx, "item requirements removed",
			"claim_id", req.ClaimID,
			"above_item", req.NewQuantity,
			"records", removed,
		)
		return Variance{Removed: removed}, nil
	}
}

// RouteRequest carries a deposit-slip flag change.
type RouteRequest struct {
	ClaimID id.ClaimID
	Old     bool
	New     bool
}

// RouteDepositSlip swaps the deposit-slip requirement between the
// store-provided and third-party slots. Removing the outgoing slot tolerates
// its absence; inserting the incoming slot must succeed.
func (s *Service) RouteDepositSlip(ctx context.Context, req RouteRequest) error {
	if req.Old == req.New {
		return nil
	}
	slots := s.catalog.Slots()
	outgoing, incoming := slots.SlotFor(req.Old), slots.SlotFor(req.New)

	deleted, err := s.store.DeleteIfExists(ctx, req.ClaimID, outgoing.DocumentID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove deposit slip requirement")
	}
	if !deleted {
		s.logger.DebugContext(ctx, "no prior deposit slip requirement to remove",
			"claim_id", req.ClaimID,
			"document_id", outgoing.DocumentID,
		)
	}

	existing, err := s.store.ListByClaim(ctx, req.ClaimID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load requirements")
	}
	for _, doc := range existing {
		if doc.DocumentID == incoming.DocumentID && !doc.IsItemLevel() {
			return nil
		}
	}

	rec := headerRecord(req.ClaimID, incoming.DocumentID, incoming.Name, incoming.GroupID, incoming.SortPriority)
	if err := s.store.InsertProbatoryDocuments(ctx, []claims.ClaimProbatoryDocument{rec}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add deposit slip requirement")
	}
	s.logger.InfoContext(ctx, "deposit slip requirement routed",
		"claim_id", req.ClaimID,
		"removed_document_id", outgoing.DocumentID,
		"added_document_id", incoming.DocumentID,
	)
	return nil
}

func headerRecord(claimID id.ClaimID, documentID id.DocumentID, name string, group claims.Group, priority int) claims.ClaimProbatoryDocument {
	return claims.ClaimProbatoryDocument{
		ID:           id.NewRequirementID(),
		ClaimID:      claimID,
		DocumentID:   documentID,
		Name:         name,
		GroupID:      group,
		SortPriority: priority,
	}
}

// itemRecords builds one record per item-level definition for each item index
// in from..to, item index outermost.
func itemRecords(claimID id.ClaimID, defs []catalog.DocumentRequirementDefinition, from, to int) []claims.ClaimProbatoryDocument {
	if from > to || len(defs) == 0 {
		return nil
	}
	docs := make([]claims.ClaimProbatoryDocument, 0, (to-from+1)*len(defs))
	for item := from; item <= to; item++ {
		for _, def := range defs {
			idx := item
			docs = append(docs, claims.ClaimProbatoryDocument{
				ID:           id.NewRequirementID(),
				ClaimID:      claimID,
				DocumentID:   def.DocumentID,
				Name:         def.Name,
				GroupID:      def.GroupID,
				SortPriority: def.SortPriority,
				ClaimItemID:  &idx,
			})
		}
	}
	return docs
}
