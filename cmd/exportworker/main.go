package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"claimdocs/internal/app"
	claims "claimdocs/internal/claims/models"
	"claimdocs/internal/collage"
	"claimdocs/internal/export"
	"claimdocs/internal/export/lock"
	"claimdocs/internal/export/queue"
	"claimdocs/internal/export/worker"
	"claimdocs/internal/notification"
	"claimdocs/internal/platform/config"
	"claimdocs/internal/platform/httpserver"
	"claimdocs/internal/platform/kafka"
	"claimdocs/internal/platform/kafka/consumer"
	"claimdocs/internal/platform/kafka/producer"
	"claimdocs/internal/platform/logger"
)

// main runs the export worker: it consumes export requests, builds ZIP and
// PDF artifacts, attaches them to claims and announces them.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.ValidateWorker(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.Server.LogLevel, cfg.Server.Environment).With("component", "exportworker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("closing backends", "error", err)
		}
	}()

	p, err := producer.New(cfg.Kafka.Brokers)
	if err != nil {
		return err
	}
	defer p.Close()
	if err := kafka.EnsureTopics(ctx, p.Client(), kafka.TopicSpec{
		Topics:      append(queue.Topics(cfg.Kafka.TopicPrefix), queue.DeadLetterTopics(cfg.Kafka.TopicPrefix)...),
		Partitions:  cfg.Kafka.Partitions,
		Replication: cfg.Kafka.Replication,
	}, log); err != nil {
		return err
	}

	var (
		locker   worker.Locker
		notifier export.Notifier
	)
	if a.Redis != nil {
		locker = lock.NewRedis(a.Redis.Client, cfg.Export.LockTTL)
		notifier = notification.NewRedis(a.Redis.Client, cfg.Notify.Channel, log)
	} else {
		if cfg.IsProduction() {
			return errors.New("config: REDIS_URL is required in production")
		}
		log.Warn("REDIS_URL not set, using process-local export locks and discarding notifications")
		locker = lock.NewMemory()
		notifier = notification.NewMemory()
	}

	builder, err := collage.NewBuilder(
		collage.NewGridComposer(cfg.Export.CollageCellWidth, cfg.Export.CollageCellHeight),
		a.Catalog, a.Blobs,
		collage.WithLogger(log),
	)
	if err != nil {
		return err
	}
	orchestrator, err := export.New(export.Dependencies{
		Claims:    a.Claims,
		Catalog:   a.Catalog,
		Collages:  builder,
		Documents: a.Documents,
		Tx:        a.Tx,
		Blobs:     a.Blobs,
		Resizer:   export.NewImageResizer(cfg.Export.ImageWidth),
		Assemblers: map[claims.DocumentType]export.Assembler{
			claims.DocumentTypeZip: export.NewZipAssembler(),
			claims.DocumentTypePdf: export.NewPdfAssembler(log),
		},
		Notifier: notifier,
	},
		export.WithLogger(log),
		export.WithMetrics(a.Metrics),
		export.WithConcurrency(cfg.Export.TransformConcurrency),
	)
	if err != nil {
		return err
	}

	handler := worker.New(orchestrator, locker, cfg.Kafka.TopicPrefix, log,
		worker.WithZipEmailDefaults(queue.ZipEmailDefaults{
			GroupID:      claims.Group(cfg.Export.ZipEmailGroup),
			SortPriority: cfg.Export.ZipEmailSortPriority,
		}),
	)
	router := handler.Router()
	c, err := consumer.New(consumer.Config{
		Brokers:         cfg.Kafka.Brokers,
		Group:           cfg.Kafka.ConsumerGroup,
		Topics:          router.Topics(),
		Workers:         cfg.Export.Workers,
		MaxAttempts:     cfg.Export.MaxAttempts,
		Backoff:         cfg.Export.RetryBackoff,
		DeadLetterTopic: queue.DeadLetterTopic,
	}, router, p,
		consumer.WithLogger(log),
		consumer.WithMetrics(a.Metrics),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	r := chi.NewRouter()
	a.MountOps(r, p.Health)
	srv := httpserver.New(cfg.Server.WorkerAddr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := c.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout, log)
	})
	log.Info("export worker started", "group", cfg.Kafka.ConsumerGroup, "workers", cfg.Export.Workers)
	return g.Wait()
}
