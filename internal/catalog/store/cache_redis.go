package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/circuit"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "claimdocs_catalog_cache_lookups_total",
	Help: "Catalog cache lookups by result (hit, miss, error, bypass)",
}, []string{"result"})

const cacheKeyPrefix = "catalog:"

// Source is the backing store a CachedStore reads through to.
type Source interface {
	ListRequirements(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.DocumentRequirementDefinition, error)
	ListCollages(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.Collage, error)
	ListExportSettings(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, exportType claims.DocumentType) ([]models.ExportSetting, error)
	DepositSlipRequired(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) (bool, error)
}

// CachedStore is a read-through Redis cache in front of a Source.
// Configuration never changes for a pair, so entries only expire by TTL.
// Redis errors are logged and the Source answers instead; after repeated
// failures the breaker opens and reads skip Redis until writes succeed again.
type CachedStore struct {
	source  Source
	client  *redis.Client
	ttl     time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type CacheOption func(*CachedStore)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedStore) {
		c.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) CacheOption {
	return func(c *CachedStore) {
		if b != nil {
			c.breaker = b
		}
	}
}

func NewCachedStore(source Source, client *redis.Client, ttl time.Duration, opts ...CacheOption) *CachedStore {
	c := &CachedStore{
		source:  source,
		client:  client,
		ttl:     ttl,
		breaker: circuit.New("catalog-cache"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedStore) ListRequirements(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.DocumentRequirementDefinition, error) {
	key := fmt.Sprintf("%srequirements:%d:%d", cacheKeyPrefix, companyID, claimTypeID)
	return readThrough(ctx, c, key, func() ([]models.DocumentRequirementDefinition, error) {
		return c.source.ListRequirements(ctx, companyID, claimTypeID)
	})
}

func (c *CachedStore) ListCollages(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.Collage, error) {
	key := fmt.Sprintf("%scollages:%d:%d", cacheKeyPrefix, companyID, claimTypeID)
	return readThrough(ctx, c, key, func() ([]models.Collage, error) {
		return c.source.ListCollages(ctx, companyID, claimTypeID)
	})
}

func (c *CachedStore) ListExportSettings(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID, exportType claims.DocumentType) ([]models.ExportSetting, error) {
	key := fmt.Sprintf("%sexports:%d:%d:%d", cacheKeyPrefix, companyID, claimTypeID, exportType)
	return readThrough(ctx, c, key, func() ([]models.ExportSetting, error) {
		return c.source.ListExportSettings(ctx, companyID, claimTypeID, exportType)
	})
}

func (c *CachedStore) DepositSlipRequired(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) (bool, error) {
	key := fmt.Sprintf("%sdeposit_slip:%d:%d", cacheKeyPrefix, companyID, claimTypeID)
	return readThrough(ctx, c, key, func() (bool, error) {
		return c.source.DepositSlipRequired(ctx, companyID, claimTypeID)
	})
}

func readThrough[T any](ctx context.Context, c *CachedStore, key string, load func() (T, error)) (T, error) {
	if !c.breaker.IsOpen() {
		raw, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var v T
			if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
				c.recordSuccess(ctx)
				cacheLookups.WithLabelValues("hit").Inc()
				return v, nil
			}
			c.logger.WarnContext(ctx, "discarding undecodable catalog cache entry", "key", key)
			cacheLookups.WithLabelValues("miss").Inc()
		case errors.Is(err, redis.Nil):
			c.recordSuccess(ctx)
			cacheLookups.WithLabelValues("miss").Inc()
		default:
			c.recordFailure(ctx, key, err)
			cacheLookups.WithLabelValues("error").Inc()
		}
	} else {
		cacheLookups.WithLabelValues("bypass").Inc()
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.recordFailure(ctx, key, err)
		return v, nil
	}
	c.recordSuccess(ctx)
	return v, nil
}

func (c *CachedStore) recordFailure(ctx context.Context, key string, err error) {
	c.logger.WarnContext(ctx, "catalog cache unavailable", "key", key, "error", err)
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.ErrorContext(ctx, "catalog cache circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *CachedStore) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "catalog cache circuit closed", "breaker", c.breaker.Name())
	}
}
