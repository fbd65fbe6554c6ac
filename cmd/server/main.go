package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"claimdocs/internal/app"
	"claimdocs/internal/blob"
	claimshandler "claimdocs/internal/claims/handler"
	claimsservice "claimdocs/internal/claims/service"
	"claimdocs/internal/export/queue"
	"claimdocs/internal/platform/config"
	"claimdocs/internal/platform/httpserver"
	"claimdocs/internal/platform/kafka"
	"claimdocs/internal/platform/kafka/producer"
	"claimdocs/internal/platform/logger"
)

// main wires the claim API: configuration, stores, the export queue
// publisher and the HTTP router. Business logic lives in internal packages.
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
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.Server.LogLevel, cfg.Server.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		claimOpts []claimsservice.Option
		checks    []func(context.Context) error
	)
	if len(cfg.Kafka.Brokers) > 0 {
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
		claimOpts = append(claimOpts, claimsservice.WithExportQueue(queue.NewPublisher(p, cfg.Kafka.TopicPrefix)))
		checks = append(checks, p.Health)
	} else {
		log.Warn("KAFKA_BROKERS not set, export requests are disabled")
	}

	a, err := app.New(ctx, cfg, log, claimOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("closing backends", "error", err)
		}
	}()

	r := chi.NewRouter()
	a.MountOps(r, checks...)
	if mem, ok := a.Blobs.(*blob.MemoryStore); ok {
		r.Handle("/blobs/*", mem.Handler("/blobs"))
	}
	claimshandler.New(a.Claims, log, a.Metrics, cfg.Server.RequestTimeout).Register(r)

	srv := httpserver.New(cfg.Server.Addr, r)
	log.Info("starting claimdocs api", "addr", cfg.Server.Addr, "environment", cfg.Server.Environment)
	return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, log)
}
