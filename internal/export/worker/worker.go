// Package worker consumes export requests and runs them through the export
// orchestrator, one run per claim and artifact type at a time.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"claimdocs/internal/export"
	"claimdocs/internal/export/lock"
	"claimdocs/internal/export/queue"
	"claimdocs/internal/platform/kafka/consumer"
	dErrors "claimdocs/pkg/domain-errors"
	"claimdocs/pkg/platform/sentinel"
	"claimdocs/pkg/requestcontext"
)

//go:generate mockgen -source=worker.go -destination=mocks/worker-mocks.go -package=mocks

// Runner executes one export.
type Runner interface {
	Run(ctx context.Context, req export.Request) (*export.Outcome, error)
}

// Locker serializes runs for the same claim and artifact type.
type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Release, error)
}

// Handler turns queue records into export runs.
type Handler struct {
	runner      Runner
	locker      Locker
	topicPrefix string
	zipEmail    queue.ZipEmailDefaults
	logger      *slog.Logger
}

type Option func(*Handler)

// WithZipEmailDefaults sets where ZipAndEmail artifacts are filed when the
// request does not say.
func WithZipEmailDefaults(d queue.ZipEmailDefaults) Option {
	return func(h *Handler) { h.zipEmail = d }
}

func New(runner Runner, locker Locker, topicPrefix string, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		runner:      runner,
		locker:      locker,
		topicPrefix: topicPrefix,
		zipEmail:    queue.DefaultZipEmail,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router registers the handler on every request topic.
func (h *Handler) Router() *consumer.Router {
	r := consumer.NewRouter(h.logger, nil)
	for _, kind := range queue.Kinds {
		r.Register(queue.Topic(h.topicPrefix, kind), h)
	}
	return r
}

// Handle runs one export request. The topic decides the kind. Malformed
// requests and failures a retry cannot fix are marked permanent so they go
// straight to the dead-letter topic. A lock held by another run is reported
// as busy and everything else is returned for retry.
func (h *Handler) Handle(ctx context.Context, msg *consumer.Message) error {
	kind, ok := queue.KindForTopic(h.topicPrefix, msg.Topic)
	if !ok {
		return consumer.Permanent(fmt.Errorf("no export kind for topic %s", msg.Topic))
	}
	m, err := queue.Decode(msg.Value)
	if err != nil {
		return consumer.Permanent(err)
	}
	m, err = m.Normalize(kind, h.zipEmail)
	if err != nil {
		return consumer.Permanent(err)
	}
	if m.RequestID != "" {
		ctx = requestcontext.WithRequestID(ctx, m.RequestID)
	}

	release, err := h.locker.Acquire(ctx, lock.Key(m.ClaimID, m.ArtifactDocumentTypeID))
	if errors.Is(err, lock.ErrHeld) {
		return consumer.Busy(err)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			h.logger.WarnContext(ctx, "export lock release failed", "claim_id", m.ClaimID, "error", err)
		}
	}()

	out, err := h.runner.Run(ctx, export.RequestFromMessage(m))
	if err != nil {
		if isPermanent(err) {
			return consumer.Permanent(err)
		}
		return err
	}
	h.logger.InfoContext(ctx, "export handled",
		"claim_id", m.ClaimID,
		"kind", m.Kind,
		"state", out.State,
		"attempt", msg.Attempt,
	)
	return nil
}

func isPermanent(err error) bool {
	switch {
	case errors.Is(err, export.ErrNoExportSettings), errors.Is(err, export.ErrNothingToExport):
		return true
	case errors.Is(err, sentinel.ErrNotFound):
		return true
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest, dErrors.CodeNotFound:
		return true
	}
	return false
}
