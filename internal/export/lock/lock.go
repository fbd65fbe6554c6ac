// Package lock serializes export runs for the same claim and artifact type
// across worker instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/sentinel"
)

// ErrHeld is returned when another holder owns the lock.
var ErrHeld = fmt.Errorf("export lock held: %w", sentinel.ErrUnavailable)

// Release gives the lock back. Releasing an expired lock is a no-op.
type Release func(ctx context.Context) error

// Key returns the lock key for one claim and artifact type.
func Key(claimID id.ClaimID, docType claims.DocumentType) string {
	return fmt.Sprintf("export:lock:%s:%d", claimID, docType)
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a SET NX PX advisory lock.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis builds a lock whose entries expire after ttl so a crashed holder
// cannot block a claim forever.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (l *Redis) Acquire(ctx context.Context, key string) (Release, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return func(ctx context.Context) error {
		err := releaseScript.Run(ctx, l.client, []string{key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release %s: %w", key, err)
		}
		return nil
	}, nil
}

// Memory is a process-local lock for tests and single-instance runs.
type Memory struct {
	mu   sync.Mutex
	held map[string]string
}

func NewMemory() *Memory {
	return &Memory{held: make(map[string]string)}
}

func (l *Memory) Acquire(_ context.Context, key string) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, ErrHeld
	}
	token := uuid.NewString()
	l.held[key] = token
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key] == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
