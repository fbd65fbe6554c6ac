package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"claimdocs/internal/blob"
	claims "claimdocs/internal/claims/models"
	"claimdocs/internal/completeness"
	"claimdocs/internal/export/queue"
	"claimdocs/internal/platform/metrics"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
	strutil "claimdocs/pkg/platform/strings"
	"claimdocs/pkg/platform/tx"
)

const defaultConcurrency = 4

// Dependencies are the ports an Orchestrator needs. Notifier is optional.
type Dependencies struct {
	Claims     ClaimLoader
	Catalog    Catalog
	Collages   CollageBuilder
	Documents  DocumentStore
	Tx         TxRunner
	Blobs      Blobs
	Resizer    Resizer
	Assemblers map[claims.DocumentType]Assembler
	Notifier   Notifier
}

// Orchestrator runs export requests.
type Orchestrator struct {
	deps        Dependencies
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithConcurrency bounds how many files are fetched and resized at once.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

func New(deps Dependencies, opts ...Option) (*Orchestrator, error) {
	if deps.Claims == nil || deps.Catalog == nil || deps.Collages == nil || deps.Documents == nil ||
		deps.Tx == nil || deps.Blobs == nil || deps.Resizer == nil {
		return nil, errors.New("export: claims, catalog, collages, documents, tx, blobs and resizer are required")
	}
	if len(deps.Assemblers) == 0 {
		return nil, errors.New("export: at least one assembler is required")
	}
	o := &Orchestrator{
		deps:        deps,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
		tracer:      otel.Tracer("claimdocs/export"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run takes one request from Validating to Done. A claim that is not export
// ready ends Blocked with a nil error and leaves prior artifacts alone.
// Failures before attachment attach nothing.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Outcome, error) {
	ctx, span := o.tracer.Start(ctx, "export.run", trace.WithAttributes(
		attribute.String("claim_id", req.ClaimID.String()),
		attribute.String("artifact", req.ArtifactType.String()),
		attribute.String("kind", string(req.Kind)),
	))
	defer span.End()
	span.AddEvent(string(StateRequested))

	start := time.Now()
	out, err := o.run(ctx, req)
	if out == nil {
		out = &Outcome{State: StateFailed}
	}

	span.SetAttributes(attribute.String("state", string(out.State)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(out.State))
	}
	if o.metrics != nil {
		var elapsed time.Duration
		if out.State == StateDone {
			elapsed = time.Since(start)
		}
		o.metrics.ObserveExport(req.ArtifactType.String(), string(out.State), elapsed)
	}
	return out, err
}

func (o *Orchestrator) run(ctx context.Context, req Request) (*Outcome, error) {
	log := o.logger.With(
		"claim_id", req.ClaimID,
		"request_id", req.RequestID,
		"artifact", req.ArtifactType.String(),
	)
	if err := req.validate(); err != nil {
		log.ErrorContext(ctx, "export request rejected", "error", err)
		return nil, err
	}

	claim, err := o.validating(ctx, req)
	if err != nil {
		log.ErrorContext(ctx, "export validation failed", "error", err)
		return nil, err
	}
	if !completeness.ExportReady(claim) {
		log.InfoContext(ctx, "export blocked, claim is not export ready",
			"missing_documents", completeness.Evaluate(claim).MissingDocuments,
		)
		return &Outcome{State: StateBlocked}, nil
	}

	artifact, collages, files, err := o.building(ctx, claim, req)
	if err != nil {
		log.ErrorContext(ctx, "export build failed", "error", err)
		return nil, err
	}

	doc, err := o.attaching(ctx, claim, req, artifact)
	if err != nil {
		log.ErrorContext(ctx, "export attach failed", "error", err)
		return nil, err
	}
	out := &Outcome{State: StateDone, Artifact: doc, Collages: collages, Files: files}

	if err := o.notifying(ctx, req, doc); err != nil {
		log.ErrorContext(ctx, "export notification failed", "document_id", doc.ID, "error", err)
		out.State = StateFailed
		return out, err
	}

	log.InfoContext(ctx, "export attached",
		"document_id", doc.ID,
		"files", files,
		"collages", collages,
	)
	return out, nil
}

func (o *Orchestrator) validating(ctx context.Context, req Request) (*claims.Claim, error) {
	ctx, span := o.tracer.Start(ctx, "export."+string(StateValidating))
	defer span.End()
	return o.deps.Claims.Get(ctx, req.ClaimID)
}

func (o *Orchestrator) building(ctx context.Context, claim *claims.Claim, req Request) (Artifact, int, int, error) {
	ctx, span := o.tracer.Start(ctx, "export."+string(StateBuilding))
	defer span.End()

	assembler, ok := o.deps.Assemblers[req.ArtifactType]
	if !ok {
		return Artifact{}, 0, 0, dErrors.New(dErrors.CodeValidation, "no assembler for "+req.ArtifactType.String())
	}

	settings, err := o.deps.Catalog.GetExportSettings(ctx, claim.InsuranceCompanyID, claim.ClaimTypeID, req.ArtifactType)
	if err != nil {
		return Artifact{}, 0, 0, err
	}
	if len(settings) == 0 {
		return Artifact{}, 0, 0, ErrNoExportSettings
	}

	collages, err := o.deps.Catalog.GetCollages(ctx, claim.InsuranceCompanyID, claim.ClaimTypeID)
	if err != nil {
		return Artifact{}, 0, 0, err
	}
	built, err := o.deps.Collages.Build(ctx, claim, collagesInSettings(collages, settings))
	if err != nil {
		return Artifact{}, 0, 0, err
	}
	// Composites are only inputs to the artifact.
	defer o.deps.Collages.Discard(context.WithoutCancel(ctx), built)

	entries := planEntries(claim, settings, built)
	if len(entries) == 0 {
		return Artifact{}, 0, 0, ErrNothingToExport
	}
	span.SetAttributes(attribute.Int("files", len(entries)), attribute.Int("collages", len(built.Collages)))

	files, err := o.fetch(ctx, entries)
	if err != nil {
		return Artifact{}, 0, 0, dErrors.Wrap(err, dErrors.CodeInternal, "transform failed")
	}

	artifact, err := assembler.Assemble(ctx, files)
	if err != nil {
		return Artifact{}, 0, 0, dErrors.Wrap(err, dErrors.CodeInternal, "transform failed")
	}
	return artifact, len(built.Collages), len(files), nil
}

// fetch downloads and resizes entries concurrently and returns them in
// entry order with unique names.
func (o *Orchestrator) fetch(ctx context.Context, entries []entry) ([]File, error) {
	files := make([]File, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, e := range entries {
		g.Go(func() error {
			data, err := o.deps.Blobs.Get(gctx, e.storageKey)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", e.name, err)
			}
			f, err := o.deps.Resizer.Resize(gctx, File{Name: e.name, ContentType: e.contentType, Data: data})
			if err != nil {
				return fmt.Errorf("resize %s: %w", e.name, err)
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	for i, name := range strutil.UniqueNames(names) {
		files[i].Name = name
	}
	return files, nil
}

// attaching uploads the artifact and swaps it in for the previous one of the
// same type in one transaction. The previous blob is removed afterwards on a
// best-effort basis.
func (o *Orchestrator) attaching(ctx context.Context, claim *claims.Claim, req Request, artifact Artifact) (*claims.ClaimDocument, error) {
	ctx, span := o.tracer.Start(ctx, "export."+string(StateAttaching))
	defer span.End()

	docID := id.NewClaimDocumentID()
	fileName := fmt.Sprintf("%s_%s%s", req.ArtifactType, claim.ExternalOrderNumber, artifact.Extension)
	key := blob.ClaimKey(claim.ID, "exports", uuid.UUID(docID).String()+artifact.Extension)
	if err := o.deps.Blobs.Put(ctx, key, artifact.ContentType, artifact.Data); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store artifact")
	}

	doc := claims.ClaimDocument{
		ID:           docID,
		ClaimID:      claim.ID,
		DocumentType: req.ArtifactType,
		GroupID:      req.GroupID,
		SortPriority: req.SortPriority,
		Status:       claims.ClaimDocumentCompleted,
		Document: &claims.Document{
			FileName:    sanitize(fileName),
			StorageKey:  key,
			ContentType: artifact.ContentType,
			URL:         o.deps.Blobs.URL(key),
		},
	}

	var previous *claims.ClaimDocument
	err := o.deps.Tx.RunInTx(tx.WithShardKey(ctx, claim.ID.String()), func(ctx context.Context) error {
		prev, err := o.deps.Documents.DeleteClaimDocumentIfExists(ctx, claim.ID, req.ArtifactType)
		if err != nil {
			return err
		}
		previous = prev
		return o.deps.Documents.InsertClaimDocuments(ctx, []claims.ClaimDocument{doc})
	})
	if err != nil {
		if delErr := o.deps.Blobs.Delete(ctx, key); delErr != nil {
			o.logger.WarnContext(ctx, "failed to remove unattached artifact", "storage_key", key, "error", delErr)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to attach artifact")
	}

	if previous != nil && previous.Document != nil && previous.Document.StorageKey != key {
		if err := o.deps.Blobs.Delete(ctx, previous.Document.StorageKey); err != nil {
			o.logger.WarnContext(ctx, "failed to remove previous artifact",
				"claim_id", claim.ID,
				"storage_key", previous.Document.StorageKey,
				"error", err,
			)
		}
	}
	return &doc, nil
}

func (o *Orchestrator) notifying(ctx context.Context, req Request, doc *claims.ClaimDocument) error {
	if o.deps.Notifier == nil {
		return nil
	}
	ctx, span := o.tracer.Start(ctx, "export."+string(StateNotifying))
	defer span.End()

	payload := Notification{
		ClaimID:      req.ClaimID,
		DocumentID:   doc.ID,
		DocumentType: doc.DocumentType.String(),
		RequestID:    req.RequestID,
	}
	if doc.Document != nil {
		payload.URL = doc.Document.URL
	}

	target, messageType := "claim:"+req.ClaimID.String(), MessageZipReady
	switch {
	case req.Kind == queue.KindZipAndEmail:
		target, messageType = req.EmailTo, MessageZipEmail
	case req.ArtifactType == claims.DocumentTypePdf:
		messageType = MessagePdfReady
	}
	return o.deps.Notifier.Send(ctx, target, messageType, payload)
}
