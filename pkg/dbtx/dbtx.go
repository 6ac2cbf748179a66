// Package dbtx carries a *sql.Tx through context so that repositories
// participate in a caller-opened transaction without changing their
// signatures. Repositories resolve their executor with GetExecutor and
// transparently run against the transaction when one is in flight.
package dbtx

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type txContextKey string

const txKey txContextKey = "dbtx"

// Executor is the subset of *sql.DB / *sql.Tx used by repositories.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ContextWithTx returns a context carrying the given transaction. A nil
// tx yields the original context untouched.
func ContextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}

	return context.WithValue(ctx, txKey, tx)
}

// TxFromContext extracts the in-flight transaction, or nil.
func TxFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey).(*sql.Tx)
	return tx
}

// GetExecutor returns the in-flight transaction when present, the bare
// database handle otherwise.
func GetExecutor(ctx context.Context, db *sql.DB) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}

	return db
}

// Postgres serialization failure and deadlock codes. Both mean the
// transaction may succeed when replayed.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// maxSerializationRetries bounds replays of a conflicting transaction.
const maxSerializationRetries = 3

// Options tunes RunInTransactionWithOptions.
type Options struct {
	Isolation sql.IsolationLevel
	Retries   int
}

// DefaultOptions runs serializable with bounded retries.
func DefaultOptions() Options {
	return Options{Isolation: sql.LevelSerializable, Retries: maxSerializationRetries}
}

// RunInTransaction opens a serializable transaction, places it in the
// context handed to fn, and commits when fn returns nil. Any error from
// fn (or from commit) rolls the transaction back. Serialization
// conflicts replay fn up to a small bound.
func RunInTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	return RunInTransactionWithOptions(ctx, db, DefaultOptions(), fn)
}

// RunInTransactionWithOptions is RunInTransaction with explicit
// isolation and retry settings.
func RunInTransactionWithOptions(ctx context.Context, db *sql.DB, opts Options, fn func(ctx context.Context) error) error {
	var err error

	for attempt := 0; ; attempt++ {
		err = runOnce(ctx, db, opts.Isolation, fn)
		if err == nil {
			return nil
		}

		if !IsSerializationFailure(err) || attempt >= opts.Retries || ctx.Err() != nil {
			return err
		}
	}
}

func runOnce(ctx context.Context, db *sql.DB, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return err
	}

	if err := fn(ContextWithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// IsSerializationFailure reports whether err is a Postgres
// serialization or deadlock error worth replaying.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}

	return false
}
