package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimdocs/internal/catalog/models"
	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/circuit"
)

type countingSource struct {
	*InMemoryStore
	requirementLoads atomic.Int32
}

func (c *countingSource) ListRequirements(ctx context.Context, companyID id.InsuranceCompanyID, claimTypeID id.ClaimTypeID) ([]models.DocumentRequirementDefinition, error) {
	c.requirementLoads.Add(1)
	return c.InMemoryStore.ListRequirements(ctx, companyID, claimTypeID)
}

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedStoreFallsThroughWhenRedisIsDown(t *testing.T) {
	src := &countingSource{InMemoryStore: NewInMemoryStore()}
	src.PutRequirements(1, 2, models.DocumentRequirementDefinition{DocumentID: 10, Name: "ID Card", GroupID: claims.GroupAdminDocs})

	breaker := circuit.New("catalog-cache-test", circuit.WithFailureThreshold(2))
	cache := NewCachedStore(src, unreachableRedis(t), time.Minute, WithBreaker(breaker))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		defs, err := cache.ListRequirements(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, defs, 1)
		assert.Equal(t, id.DocumentID(10), defs[0].DocumentID)
	}
	assert.Equal(t, int32(3), src.requirementLoads.Load())
	assert.True(t, breaker.IsOpen(), "repeated redis failures should open the breaker")
}

func TestCachedStoreDepositSlipFallsThrough(t *testing.T) {
	src := NewInMemoryStore()
	src.SetDepositSlipRequired(1, 2, true)
	cache := NewCachedStore(src, unreachableRedis(t), time.Minute)

	required, err := cache.DepositSlipRequired(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, required)
}
