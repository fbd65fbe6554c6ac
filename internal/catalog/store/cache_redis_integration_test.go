//go:build integration

package store_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"claimdocs/internal/catalog/models"
	"claimdocs/internal/catalog/store"
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/testutil/containers"
)

type countingSource struct {
	*store.InMemoryStore
	collageLoads atomic.Int32
}

func (c *countingSource) ListCollages(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.Collage, error) {
	c.collageLoads.Add(1)
	return c.InMemoryStore.ListCollages(ctx, companyID, claimTypeID)
}

type CachedStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CachedStoreSuite) TestSecondReadIsServedFromRedis() {
	ctx := context.Background()
	src := &countingSource{InMemoryStore: store.NewInMemoryStore()}
	src.PutCollages(1, 2, models.Collage{ID: 5, Name: "Damage", Columns: 3, DocumentIDs: []id.DocumentID{20, 21}})
	cache := store.NewCachedStore(src, s.redis.Client, time.Minute)

	first, err := cache.ListCollages(ctx, 1, 2)
	s.Require().NoError(err)
	second, err := cache.ListCollages(ctx, 1, 2)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(int32(1), src.collageLoads.Load())
}

func (s *CachedStoreSuite) TestEntriesExpire() {
	ctx := context.Background()
	src := store.NewInMemoryStore()
	src.PutExportSettings(1, 2, claims.DocumentTypePdf, models.ExportSetting{Type: models.ExportProbatoryDocument, ProbatoryDocumentID: 10, SortPriority: 1})
	cache := store.NewCachedStore(src, s.redis.Client, time.Minute)

	_, err := cache.ListExportSettings(ctx, 1, 2, claims.DocumentTypePdf)
	s.Require().NoError(err)

	ttl, err := s.redis.Client.TTL(ctx, "catalog:exports:1:2:4").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}
