// Package tx carries a SQL transaction through context so stores can join
// the caller's transaction without widening their signatures.
package tx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dErrors "claimdocs/pkg/domain-errors"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Executor is the subset of *sql.DB and *sql.Tx used by stores.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Execer returns the transaction in ctx, or db when none is active.
func Execer(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

const defaultTimeout = 10 * time.Second

// Postgres runs callbacks inside a database transaction.
type Postgres struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgres builds a transaction runner. A zero timeout uses the default.
func NewPostgres(db *sql.DB, timeout time.Duration) *Postgres {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Postgres{db: db, timeout: timeout}
}

// RunInTx begins a transaction, exposes it through ctx and commits when fn
// returns nil. Nested calls join the outer transaction.
func (p *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	sqlTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
