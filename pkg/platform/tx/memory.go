package tx

import (
	"context"
	"hash/fnv"
	"sync"

	dErrors "claimdocs/pkg/domain-errors"
)

const numShards = 64

type shardKey struct{}

// WithShardKey pins the in-memory runner to the shard of key (usually a claim ID).
func WithShardKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, shardKey{}, key)
}

// Memory serializes callbacks with sharded mutexes. In-memory stores apply
// each batch atomically, so a coarse lock gives callers the same visibility
// guarantees as a database transaction.
type Memory struct {
	shards [numShards]sync.Mutex
}

// NewMemory builds an in-memory transaction runner.
func NewMemory() *Memory {
	return &Memory{}
}

type heldKey struct{}

type journalKey struct{}

// journal collects the undo steps of one in-memory transaction.
type journal struct {
	mu   sync.Mutex
	undo []func()
}

func (j *journal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// OnRollback registers undo to run when the in-memory transaction carried by
// ctx fails. Steps run in reverse registration order after fn has returned,
// so they may take store locks. Outside an in-memory transaction it does
// nothing; SQL transactions roll back on their own.
func OnRollback(ctx context.Context, undo func()) {
	j, ok := ctx.Value(journalKey{}).(*journal)
	if !ok {
		return
	}
	j.mu.Lock()
	j.undo = append(j.undo, undo)
	j.mu.Unlock()
}

// RunInTx runs fn while holding the shard lock for the context's shard key.
// When fn fails, the writes in-memory stores registered with OnRollback are
// undone. Nested calls join the outer transaction.
func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(heldKey{}) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	shard := m.selectShard(ctx)
	m.shards[shard].Lock()
	defer m.shards[shard].Unlock()

	j := &journal{}
	ctx = context.WithValue(context.WithValue(ctx, heldKey{}, true), journalKey{}, j)
	if err := fn(ctx); err != nil {
		j.rollback()
		return err
	}
	return nil
}

func (m *Memory) selectShard(ctx context.Context) int {
	key, _ := ctx.Value(shardKey{}).(string)
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % numShards)
}
