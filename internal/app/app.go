// Package app assembles the stores and services shared by the API server and
// the export worker from configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"claimdocs/internal/blob"
	catalog "claimdocs/internal/catalog/models"
	catalogservice "claimdocs/internal/catalog/service"
	catalogstore "claimdocs/internal/catalog/store"
	claims "claimdocs/internal/claims/models"
	claimsservice "claimdocs/internal/claims/service"
	claimstore "claimdocs/internal/claims/store"
	"claimdocs/internal/platform/config"
	"claimdocs/internal/platform/metrics"
	"claimdocs/internal/platform/postgres"
	redisclient "claimdocs/internal/platform/redis"
	"claimdocs/internal/requirements"
	reqstore "claimdocs/internal/requirements/store"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/httputil"
	"claimdocs/pkg/platform/tx"
)

// Blobs is the object storage for media and artifacts. Only S3 is visible
// to both processes.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// DocumentStore is the requirement record store seen by every consumer.
type DocumentStore interface {
	requirements.Store
	claimsservice.DocumentStore
	DeleteClaimDocumentIfExists(ctx context.Context, claimID id.ClaimID, docType claims.DocumentType) (*claims.ClaimDocument, error)
}

// TxRunner runs fn in one transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// App holds the wired backends. Close releases them.
type App struct {
	Config       config.Config
	Logger       *slog.Logger
	Registry     *prometheus.Registry
	Metrics      *metrics.Metrics
	DB           *sql.DB
	Redis        *redisclient.Client
	Blobs        Blobs
	Tx           TxRunner
	Documents    DocumentStore
	Catalog      *catalogservice.Resolver
	Requirements *requirements.Service
	Claims       *claimsservice.Service

	closers []func() error
}

// New connects to PostgreSQL, Redis and S3 when configured and falls back to
// in-memory implementations otherwise.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, claimOpts ...claimsservice.Option) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  metrics.New(reg),
	}
	if err := a.wire(ctx, claimOpts); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, claimOpts []claimsservice.Option) error {
	cfg := a.Config

	var (
		source    catalogservice.Store
		claimRepo claimsservice.ClaimStore
	)
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		a.DB = db
		a.closers = append(a.closers, db.Close)
		if cfg.Database.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
		}
		source = catalogstore.NewPostgres(db)
		claimRepo = claimstore.NewPostgres(db)
		a.Documents = reqstore.NewPostgres(db)
		a.Tx = tx.NewPostgres(db, cfg.Database.TxTimeout)
		a.Logger.Info("using postgres stores")
	} else {
		source = catalogstore.NewInMemoryStore()
		claimRepo = claimstore.NewInMemoryStore()
		a.Documents = reqstore.NewInMemoryStore()
		a.Tx = tx.NewMemory()
		a.Logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		a.Redis = rc
		a.closers = append(a.closers, rc.Close)
		source = catalogstore.NewCachedStore(source, rc.Client, cfg.Catalog.CacheTTL,
			catalogstore.WithCacheLogger(a.Logger),
		)
	}

	if cfg.Storage.Bucket != "" {
		s3, err := blob.NewS3(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		a.Blobs = s3
	} else {
		base := cfg.Storage.PublicBaseURL
		if base == "" {
			base = "http://localhost" + cfg.Server.Addr + "/blobs"
		}
		a.Blobs = blob.NewMemory(base)
		a.Logger.Warn("S3_BUCKET not set, using in-memory blob storage private to this process")
	}

	groups, err := itemLevelGroups(cfg.Catalog.ItemLevelGroups)
	if err != nil {
		return err
	}
	a.Catalog, err = catalogservice.New(source, depositSlip(cfg.Catalog),
		catalogservice.WithLogger(a.Logger),
		catalogservice.WithItemLevelGroups(groups...),
	)
	if err != nil {
		return err
	}

	fixed, err := fixedDocuments(cfg.Catalog.FixedClaimDocumentTypes)
	if err != nil {
		return err
	}
	a.Requirements, err = requirements.New(a.Catalog, a.Documents,
		requirements.WithLogger(a.Logger),
		requirements.WithFixedDocuments(fixed...),
	)
	if err != nil {
		return err
	}

	opts := append([]claimsservice.Option{
		claimsservice.WithLogger(a.Logger),
		claimsservice.WithMetrics(a.Metrics),
		claimsservice.WithURLResolver(a.Blobs),
		claimsservice.WithZipEmailDefaults(claimsservice.ZipEmailDefaults{
			GroupID:      claims.Group(cfg.Export.ZipEmailGroup),
			SortPriority: cfg.Export.ZipEmailSortPriority,
		}),
	}, claimOpts...)
	a.Claims, err = claimsservice.New(claimRepo, a.Documents, a.Requirements, a.Catalog, a.Tx, opts...)
	return err
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Health reports whether the configured backends answer.
func (a *App) Health(ctx context.Context) error {
	if a.DB != nil {
		if err := a.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// MountOps adds /healthz and /metrics to r.
func (a *App) MountOps(r chi.Router, checks ...func(context.Context) error) {
	checks = append([]func(context.Context) error{a.Health}, checks...)
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		for _, check := range checks {
			if err := check(req.Context()); err != nil {
				a.Logger.WarnContext(req.Context(), "health check failed", "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry}))
}

func itemLevelGroups(raw []int) ([]claims.Group, error) {
	groups := make([]claims.Group, 0, len(raw))
	for _, g := range raw {
		group, err := claims.ParseGroup(g)
		if err != nil {
			return nil, fmt.Errorf("ITEM_LEVEL_GROUPS: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func fixedDocuments(names []string) ([]requirements.FixedDocument, error) {
	byType := make(map[claims.DocumentType]requirements.FixedDocument, len(requirements.DefaultFixedDocuments))
	for _, d := range requirements.DefaultFixedDocuments {
		byType[d.Type] = d
	}
	out := make([]requirements.FixedDocument, 0, len(names))
	for _, name := range names {
		t, ok := claims.ParseDocumentType(name)
		if !ok {
			return nil, fmt.Errorf("FIXED_CLAIM_DOCUMENT_TYPES: unknown document type %q", name)
		}
		d, ok := byType[t]
		if !ok {
			return nil, fmt.Errorf("FIXED_CLAIM_DOCUMENT_TYPES: %q cannot be a fixed document", name)
		}
		out = append(out, d)
	}
	return out, nil
}

func depositSlip(cfg config.CatalogConfig) catalog.DepositSlipConfig {
	return catalog.DepositSlipConfig{
		StoreProvided: catalog.DepositSlipSlot{
			DocumentID:   id.DocumentID(cfg.StoreDepositSlipID),
			Name:         cfg.StoreDepositSlipName,
			GroupID:      claims.Group(cfg.StoreDepositSlipGroup),
			SortPriority: cfg.StoreDepositSlipPriority,
		},
		ThirdPartyProvided: catalog.DepositSlipSlot{
			DocumentID:   id.DocumentID(cfg.TpaDepositSlipID),
			Name:         cfg.TpaDepositSlipName,
			GroupID:      claims.Group(cfg.TpaDepositSlipGroup),
			SortPriority: cfg.TpaDepositSlipPriority,
		},
	}
}
