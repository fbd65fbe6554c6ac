package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow(t *testing.T) {
	before := time.Now()
	assert.False(t, Now(context.Background()).Before(before), "falls back to the wall clock")

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := WithTime(context.Background(), fixed)
	assert.Equal(t, fixed, Now(ctx))
	assert.Equal(t, Now(ctx), Now(ctx), "stable within one request")
}

func TestRequestValues(t *testing.T) {
	ctx := WithClientIP(WithRequestID(context.Background(), "req-1"), "10.0.0.1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "10.0.0.1", ClientIP(ctx))

	assert.Empty(t, RequestID(context.Background()))
	assert.Empty(t, ClientIP(context.Background()))
}
