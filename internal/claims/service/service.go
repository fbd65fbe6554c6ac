// Package service runs the claim lifecycle: creation with requirement
// materialization, updates that keep requirements in step, gated status
// changes, media fulfillment and export requests.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	catalog "claimdocs/internal/catalog/models"
	"claimdocs/internal/claims/models"
	"claimdocs/internal/completeness"
	"claimdocs/internal/export/queue"
	"claimdocs/internal/platform/metrics"
	"claimdocs/internal/requirements"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
	"claimdocs/pkg/platform/sentinel"
	"claimdocs/pkg/platform/tx"
	"claimdocs/pkg/requestcontext"
)

type ClaimStore interface {
	Create(ctx context.Context, claim *models.Claim) error
	FindByID(ctx context.Context, claimID id.ClaimID) (*models.Claim, error)
	FindByIDForUpdate(ctx context.Context, claimID id.ClaimID) (*models.Claim, error)
	Update(ctx context.Context, claim *models.Claim) error
}

// DocumentStore reads and fulfills a claim's requirement records.
type DocumentStore interface {
	ListByClaim(ctx context.Context, claimID id.ClaimID) ([]models.ClaimProbatoryDocument, error)
	ListClaimDocuments(ctx context.Context, claimID id.ClaimID) ([]models.ClaimDocument, error)
	SetMedia(ctx context.Context, claimID id.ClaimID, requirementID id.RequirementID, media *models.Media) error
	CompleteClaimDocument(ctx context.Context, claimID id.ClaimID, docType models.DocumentType, document models.Document) (*models.ClaimDocument, error)
}

// Requirements keeps requirement records in step with the claim.
type Requirements interface {
	Materialize(ctx context.Context, req requirements.MaterializeRequest) (*requirements.Materialized, error)
	AdjustQuantity(ctx context.Context, req requirements.AdjustRequest) (requirements.Variance, error)
	RouteDepositSlip(ctx context.Context, req requirements.RouteRequest) error
}

type Catalog interface {
	DepositSlip(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) (catalog.DepositSlipConfig, bool, error)
}

// TxRunner runs fn inside one transaction carried by ctx.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ExportQueue interface {
	Enqueue(ctx context.Context, msg queue.Message) error
}

// URLResolver turns a storage key into a client-facing URL.
type URLResolver interface {
	URL(key string) string
}

type Service struct {
	claims       ClaimStore
	documents    DocumentStore
	requirements Requirements
	catalog      Catalog
	tx           TxRunner
	exports      ExportQueue
	urls         URLResolver
	metrics      *metrics.Metrics
	logger       *slog.Logger
	zipEmail     ZipEmailDefaults
}

// ZipEmailDefaults place the artifact of a ZIP-and-email export.
type ZipEmailDefaults = queue.ZipEmailDefaults

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithExportQueue(q ExportQueue) Option {
	return func(s *Service) { s.exports = q }
}

func WithURLResolver(r URLResolver) Option {
	return func(s *Service) { s.urls = r }
}

func WithZipEmailDefaults(d ZipEmailDefaults) Option {
	return func(s *Service) { s.zipEmail = d }
}

func New(claims ClaimStore, documents DocumentStore, reqs Requirements, cat Catalog, runner TxRunner, opts ...Option) (*Service, error) {
	if claims == nil || documents == nil || reqs == nil || cat == nil || runner == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "claims service is missing a dependency")
	}
	s := &Service{
		claims:       claims,
		documents:    documents,
		requirements: reqs,
		catalog:      cat,
		tx:           runner,
		logger:       slog.Default(),
		zipEmail:     queue.DefaultZipEmail,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateRequest is the input for Create.
type CreateRequest struct {
	InsuranceCompanyID  id.InsuranceCompanyID `json:"insurance_company_id"`
	ClaimTypeID         id.ClaimTypeID        `json:"claim_type_id"`
	StoreID             id.StoreID            `json:"store_id"`
	ItemsQuantity       int                   `json:"items_quantity"`
	ExternalOrderNumber string                `json:"external_order_number"`
	HasDepositSlip      bool                  `json:"has_deposit_slip"`
}

// Create stores a new claim and its full requirement set in one transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Claim, error) {
	now := requestcontext.Now(ctx)
	claim, err := models.NewClaim(id.NewClaimID(), req.InsuranceCompanyID, req.ClaimTypeID, req.StoreID,
		req.ItemsQuantity, req.ExternalOrderNumber, req.HasDepositSlip, now)
	if err != nil {
		return nil, err
	}

	_, required, err := s.catalog.DepositSlip(ctx, claim.InsuranceCompanyID, claim.ClaimTypeID)
	if err != nil {
		return nil, err
	}
	claim.IsDepositSlipRequired = required

	ctx = tx.WithShardKey(ctx, claim.ID.String())
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.claims.Create(ctx, claim); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "external order number already belongs to an active claim")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create claim")
		}
		res, err := s.requirements.Materialize(ctx, requirements.MaterializeRequest{
			ClaimID:               claim.ID,
			CompanyID:             claim.InsuranceCompanyID,
			ClaimTypeID:           claim.ClaimTypeID,
			ItemsQuantity:         claim.ItemsQuantity,
			IsDepositSlipRequired: claim.IsDepositSlipRequired,
			HasDepositSlip:        claim.HasDepositSlip,
		})
		if err != nil {
			return err
		}
		claim.ProbatoryDocuments = res.ProbatoryDocuments
		claim.Documents = res.ClaimDocuments
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "claim creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"external_order_number", claim.ExternalOrderNumber,
			"error", err,
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementClaimsCreated()
	}
	s.logger.InfoContext(ctx, "claim created",
		"request_id", requestcontext.RequestID(ctx),
		"claim_id", claim.ID,
		"insurance_company_id", claim.InsuranceCompanyID,
		"claim_type_id", claim.ClaimTypeID,
		"items_quantity", claim.ItemsQuantity,
	)
	return s.Get(ctx, claim.ID)
}

// Get loads the claim aggregate.
func (s *Service) Get(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	claim, err := s.claims.FindByID(ctx, claimID)
	if err != nil {
		return nil, translateNotFound(err, "claim not found")
	}
	if err := s.loadChildren(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *Service) loadChildren(ctx context.Context, claim *models.Claim) error {
	docs, err := s.documents.ListByClaim(ctx, claim.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load probatory documents")
	}
	claimDocs, err := s.documents.ListClaimDocuments(ctx, claim.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claim documents")
	}
	claim.ProbatoryDocuments = docs
	claim.Documents = claimDocs
	return nil
}

// UpdateRequest changes editable claim fields. Nil fields are left alone.
type UpdateRequest struct {
	ItemsQuantity       *int        `json:"items_quantity,omitempty"`
	HasDepositSlip      *bool       `json:"has_deposit_slip,omitempty"`
	ExternalOrderNumber *string     `json:"external_order_number,omitempty"`
	StoreID             *id.StoreID `json:"store_id,omitempty"`
}

// Update applies req to an in-progress claim. Quantity variance and the
// deposit-slip flip are derived from the row locked inside the transaction,
// never from the caller.
func (s *Service) Update(ctx context.Context, claimID id.ClaimID, req UpdateRequest) (*models.Claim, error) {
	if req.ItemsQuantity != nil && *req.ItemsQuantity < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "items_quantity must be at least 1")
	}
	if req.ExternalOrderNumber != nil && strings.TrimSpace(*req.ExternalOrderNumber) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "external_order_number must not be empty")
	}

	ctx = tx.WithShardKey(ctx, claimID.String())
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		claim, err := s.claims.FindByIDForUpdate(ctx, claimID)
		if err != nil {
			return translateNotFound(err, "claim not found")
		}
		if claim.Status != models.ClaimStatusInProgress {
			return dErrors.New(dErrors.CodeInvalidTransition, "only in-progress claims can be edited")
		}

		if req.ItemsQuantity != nil {
			if _, err := s.requirements.AdjustQuantity(ctx, requirements.AdjustRequest{
				ClaimID:     claim.ID,
				CompanyID:   claim.InsuranceCompanyID,
				ClaimTypeID: claim.ClaimTypeID,
				OldQuantity: claim.ItemsQuantity,
				NewQuantity: *req.ItemsQuantity,
			}); err != nil {
				return err
			}
			claim.ItemsQuantity = *req.ItemsQuantity
		}

		if req.HasDepositSlip != nil {
			if claim.IsDepositSlipRequired {
				if err := s.requirements.RouteDepositSlip(ctx, requirements.RouteRequest{
					ClaimID: claim.ID,
					Old:     claim.HasDepositSlip,
					New:     *req.HasDepositSlip,
				}); err != nil {
					return err
				}
			}
			claim.HasDepositSlip = *req.HasDepositSlip
		}

		if req.ExternalOrderNumber != nil {
			claim.ExternalOrderNumber = strings.TrimSpace(*req.ExternalOrderNumber)
		}
		if req.StoreID != nil {
			claim.StoreID = *req.StoreID
		}
		claim.UpdatedAt = requestcontext.Now(ctx)

		if err := s.claims.Update(ctx, claim); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "external order number already belongs to an active claim")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update claim")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "claim updated",
		"request_id", requestcontext.RequestID(ctx),
		"claim_id", claimID,
	)
	return s.Get(ctx, claimID)
}

// ChangeStatus moves the claim to status to when the completeness gate allows it.
func (s *Service) ChangeStatus(ctx context.Context, claimID id.ClaimID, to models.ClaimStatus) (*models.Claim, error) {
	ctx = tx.WithShardKey(ctx, claimID.String())
	var from models.ClaimStatus
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		claim, err := s.claims.FindByIDForUpdate(ctx, claimID)
		if err != nil {
			return translateNotFound(err, "claim not found")
		}
		if err := s.loadChildren(ctx, claim); err != nil {
			return err
		}
		from = claim.Status
		if err := completeness.CanTransition(claim, to); err != nil {
			return err
		}
		claim.Status = to
		claim.UpdatedAt = requestcontext.Now(ctx)
		if err := s.claims.Update(ctx, claim); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update claim status")
		}
		return nil
	})
	if s.metrics != nil {
		s.metrics.ObserveTransition(string(to), err == nil)
	}
	if err != nil {
		s.logger.InfoContext(ctx, "claim status change refused",
			"request_id", requestcontext.RequestID(ctx),
			"claim_id", claimID,
			"from", from,
			"to", to,
			"error", err,
		)
		return nil, err
	}
	s.logger.InfoContext(ctx, "claim status changed",
		"request_id", requestcontext.RequestID(ctx),
		"claim_id", claimID,
		"from", from,
		"to", to,
	)
	return s.Get(ctx, claimID)
}

// Completeness evaluates every group predicate for the claim.
func (s *Service) Completeness(ctx context.Context, claimID id.ClaimID) (completeness.Report, error) {
	claim, err := s.Get(ctx, claimID)
	if err != nil {
		return completeness.Report{}, err
	}
	return completeness.Evaluate(claim), nil
}

// MediaInput references an already stored file.
type MediaInput struct {
	FileName    string `json:"file_name"`
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type,omitempty"`
}

func (in MediaInput) validate() error {
	if strings.TrimSpace(in.FileName) == "" {
		return dErrors.New(dErrors.CodeValidation, "file_name is required")
	}
	if strings.TrimSpace(in.StorageKey) == "" {
		return dErrors.New(dErrors.CodeValidation, "storage_key is required")
	}
	return nil
}

// AttachMedia fulfills a requirement record.
func (s *Service) AttachMedia(ctx context.Context, claimID id.ClaimID, requirementID id.RequirementID, in MediaInput) (*models.ClaimProbatoryDocument, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	media := &models.Media{
		ID:          id.NewMediaID(),
		FileName:    strings.TrimSpace(in.FileName),
		StorageKey:  strings.TrimSpace(in.StorageKey),
		ContentType: in.ContentType,
	}
	if s.urls != nil {
		media.URL = s.urls.URL(media.StorageKey)
	}
	if err := s.setMedia(ctx, claimID, requirementID, media); err != nil {
		return nil, err
	}
	return s.findRequirement(ctx, claimID, requirementID)
}

// DetachMedia clears the media of a requirement record.
func (s *Service) DetachMedia(ctx context.Context, claimID id.ClaimID, requirementID id.RequirementID) error {
	return s.setMedia(ctx, claimID, requirementID, nil)
}

func (s *Service) setMedia(ctx context.Context, claimID id.ClaimID, requirementID id.RequirementID, media *models.Media) error {
	ctx = tx.WithShardKey(ctx, claimID.String())
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		claim, err := s.claims.FindByIDForUpdate(ctx, claimID)
		if err != nil {
			return translateNotFound(err, "claim not found")
		}
		if claim.Status == models.ClaimStatusCancelled || claim.Status == models.ClaimStatusInvoiced {
			return dErrors.New(dErrors.CodeInvalidTransition, "claim documents are closed")
		}
		if err := s.documents.SetMedia(ctx, claimID, requirementID, media); err != nil {
			return translateNotFound(err, "probatory document not found")
		}
		return nil
	})
}

func (s *Service) findRequirement(ctx context.Context, claimID id.ClaimID, requirementID id.RequirementID) (*models.ClaimProbatoryDocument, error) {
	docs, err := s.documents.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load probatory documents")
	}
	for i := range docs {
		if docs[i].ID == requirementID {
			return &docs[i], nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "probatory document not found")
}

// CompleteDocument stores the file for a fixed claim-document slot such as
// the receipt or the signature.
func (s *Service) CompleteDocument(ctx context.Context, claimID id.ClaimID, docType models.DocumentType, in MediaInput) (*models.ClaimDocument, error) {
	if docType != models.DocumentTypeReceipt && docType != models.DocumentTypeSignature {
		return nil, dErrors.New(dErrors.CodeValidation, "only receipt and signature documents can be uploaded")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	document := models.Document{
		FileName:    strings.TrimSpace(in.FileName),
		StorageKey:  strings.TrimSpace(in.StorageKey),
		ContentType: in.ContentType,
	}
	if s.urls != nil {
		document.URL = s.urls.URL(document.StorageKey)
	}

	var out *models.ClaimDocument
	ctx = tx.WithShardKey(ctx, claimID.String())
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.claims.FindByIDForUpdate(ctx, claimID); err != nil {
			return translateNotFound(err, "claim not found")
		}
		doc, err := s.documents.CompleteClaimDocument(ctx, claimID, docType, document)
		if err != nil {
			return translateNotFound(err, "claim document slot not found")
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExportRequest asks for an artifact to be built asynchronously.
type ExportRequest struct {
	Kind         queue.Kind   `json:"kind"`
	GroupID      models.Group `json:"group_id,omitempty"`
	SortPriority int          `json:"sort_priority,omitempty"`
	EmailTo      string       `json:"email_to,omitempty"`
}

// RequestExport publishes an export request for an existing claim. Readiness
// is checked by the worker, not here.
func (s *Service) RequestExport(ctx context.Context, claimID id.ClaimID, req ExportRequest) (queue.Message, error) {
	if s.exports == nil {
		return queue.Message{}, dErrors.New(dErrors.CodeUnavailable, "export queue is not configured")
	}
	if _, err := s.claims.FindByID(ctx, claimID); err != nil {
		return queue.Message{}, translateNotFound(err, "claim not found")
	}

	msg := queue.Message{
		Kind:         req.Kind,
		ClaimID:      claimID,
		GroupID:      req.GroupID,
		SortPriority: req.SortPriority,
		EmailTo:      strings.TrimSpace(req.EmailTo),
		RequestID:    requestcontext.RequestID(ctx),
	}
	switch req.Kind {
	case queue.KindZip:
		msg.ArtifactDocumentTypeID = models.DocumentTypeZip
	case queue.KindPdf:
		msg.ArtifactDocumentTypeID = models.DocumentTypePdf
	case queue.KindZipAndEmail:
		msg.ArtifactDocumentTypeID = models.DocumentTypeZip
		msg.GroupID = s.zipEmail.GroupID
		msg.SortPriority = s.zipEmail.SortPriority
	}
	if err := msg.Validate(); err != nil {
		return queue.Message{}, err
	}
	if err := s.exports.Enqueue(ctx, msg); err != nil {
		return queue.Message{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to enqueue export")
	}
	if s.metrics != nil {
		s.metrics.IncrementExportsEnqueued(string(req.Kind))
	}
	s.logger.InfoContext(ctx, "export requested",
		"request_id", msg.RequestID,
		"claim_id", claimID,
		"artifact", req.Kind,
	)
	return msg, nil
}

func translateNotFound(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
}
