package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"claimdocs/internal/claims/models"
	"claimdocs/internal/claims/service"
	"claimdocs/internal/completeness"
	"claimdocs/internal/export/queue"
	"claimdocs/internal/platform/metrics"
	"claimdocs/internal/platform/middleware"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
	"claimdocs/pkg/platform/httputil"
)

// Service defines the claim operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req service.CreateRequest) (*models.Claim, error)
	Get(ctx context.Context, claimID id.ClaimID) (*models.Claim, error)
	Update(ctx context.Context, claimID id.ClaimID, req service.UpdateRequest) (*models.Claim, error)
	ChangeStatus(ctx context.Context, claimID id.ClaimID, to models.ClaimStatus) (*models.Claim, error)
	Completeness(ctx context.Context, claimID id.ClaimID) (completeness.Report, error)
	AttachMedia(ctx context.Context, claimID id.ClaimID, requirementID id.RequirementID, in service.MediaInput) (*models.ClaimProbatoryDocument, error)
	DetachMedia(ctx context.Context, claimID id.ClaimID, requirementID id.RequirementID) error
	CompleteDocument(ctx context.Context, claimID id.ClaimID, docType models.DocumentType, in service.MediaInput) (*models.ClaimDocument, error)
	RequestExport(ctx context.Context, claimID id.ClaimID, req service.ExportRequest) (queue.Message, error)
}

// Handler handles claim endpoints.
type Handler struct {
	logger         *slog.Logger
	claims         Service
	metrics        *metrics.Metrics
	requestTimeout time.Duration
}

// New creates a new claims Handler.
func New(claims Service, logger *slog.Logger, metrics *metrics.Metrics, requestTimeout time.Duration) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &Handler{
		logger:         logger,
		claims:         claims,
		metrics:        metrics,
		requestTimeout: requestTimeout,
	}
}

// Register registers the claim routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	claimsRouter := chi.NewRouter()
	claimsRouter.Use(middleware.Recovery(h.logger))
	claimsRouter.Use(middleware.RequestID)
	claimsRouter.Use(middleware.Logger(h.logger))
	claimsRouter.Use(middleware.Timeout(h.requestTimeout))
	claimsRouter.Use(middleware.ContentTypeJSON)
	if h.metrics != nil {
		claimsRouter.Use(middleware.Latency(h.metrics, routePattern))
	}

	claimsRouter.Post("/claims", h.handleCreate)
	claimsRouter.Get("/claims/{claimID}", h.handleGet)
	claimsRouter.Patch("/claims/{claimID}", h.handleUpdate)
	claimsRouter.Post("/claims/{claimID}/status", h.handleChangeStatus)
	claimsRouter.Get("/claims/{claimID}/completeness", h.handleCompleteness)
	claimsRouter.Put("/claims/{claimID}/probatory-documents/{requirementID}/media", h.handleAttachMedia)
	claimsRouter.Delete("/claims/{claimID}/probatory-documents/{requirementID}/media", h.handleDetachMedia)
	claimsRouter.Put("/claims/{claimID}/documents/{documentType}", h.handleCompleteDocument)
	claimsRouter.Post("/claims/{claimID}/exports", h.handleRequestExport)

	r.Mount("/", claimsRouter)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req service.CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid create claim request")
		return
	}
	claim, err := h.claims.Create(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to create claim")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, claim)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		h.writeError(ctx, w, err, "invalid claim id")
		return
	}
	claim, err := h.claims.Get(ctx, claimID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to load claim")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, claim)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		h.writeError(ctx, w, err, "invalid claim id")
		return
	}
	var req service.UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid update claim request")
		return
	}
	claim, err := h.claims.Update(ctx, claimID, req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to update claim")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, claim)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		h.writeError(ctx, w, err, "invalid claim id")
		return
	}
	var req statusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid status request")
		return
	}
	to, err := models.ParseClaimStatus(req.Status)
	if err != nil {
		h.writeError(ctx, w, err, "invalid status request")
		return
	}
	claim, err := h.claims.ChangeStatus(ctx, claimID, to)
	if err != nil {
		h.writeError(ctx, w, err, "claim status change failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, claim)
}

func (h *Handler) handleCompleteness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		h.writeError(ctx, w, err, "invalid claim id")
		return
	}
	report, err := h.claims.Completeness(ctx, claimID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to evaluate completeness")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleAttachMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, requirementID, err := parseRequirementPath(r)
	if err != nil {
		h.writeError(ctx, w, err, "invalid path")
		return
	}
	var in service.MediaInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(ctx, w, err, "invalid media request")
		return
	}
	doc, err := h.claims.AttachMedia(ctx, claimID, requirementID, in)
	if err != nil {
		h.writeError(ctx, w, err, "failed to attach media")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleDetachMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, requirementID, err := parseRequirementPath(r)
	if err != nil {
		h.writeError(ctx, w, err, "invalid path")
		return
	}
	if err := h.claims.DetachMedia(ctx, claimID, requirementID); err != nil {
		h.writeError(ctx, w, err, "failed to detach media")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCompleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		h.writeError(ctx, w, err, "invalid claim id")
		return
	}
	docType, ok := models.ParseDocumentType(chi.URLParam(r, "documentType"))
	if !ok {
		h.writeError(ctx, w, dErrors.New(dErrors.CodeInvalidInput, "unknown document type"), "invalid document type")
		return
	}
	var in service.MediaInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		h.writeError(ctx, w, err, "invalid document request")
		return
	}
	doc, err := h.claims.CompleteDocument(ctx, claimID, docType, in)
	if err != nil {
		h.writeError(ctx, w, err, "failed to store claim document")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleRequestExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		h.writeError(ctx, w, err, "invalid claim id")
		return
	}
	var req service.ExportRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid export request")
		return
	}
	kind, err := queue.ParseKind(string(req.Kind))
	if err != nil {
		h.writeError(ctx, w, err, "invalid export request")
		return
	}
	req.Kind = kind
	msg, err := h.claims.RequestExport(ctx, claimID, req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to request export")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, msg)
}

func parseRequirementPath(r *http.Request) (id.ClaimID, id.RequirementID, error) {
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		return id.ClaimID{}, id.RequirementID{}, err
	}
	requirementID, err := id.ParseRequirementID(chi.URLParam(r, "requirementID"))
	if err != nil {
		return id.ClaimID{}, id.RequirementID{}, err
	}
	return claimID, requirementID, nil
}

// writeError logs client errors at warn and everything else at error.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	status := dErrors.ToHTTPStatus(dErrors.CodeOf(err))
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
