// Package dbx holds the database handle interface shared by the client's
// SQLite repositories and the backend's Postgres repositories, plus
// transaction helpers.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so a repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn in a transaction. It commits when fn returns nil and rolls
// back otherwise; a panic in fn rolls back and is re-raised.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	_, err := InTx(ctx, db, opts, func(ctx context.Context, tx DBTX) (struct{}, error) {
		return struct{}{}, fn(ctx, tx)
	})
	return err
}

// InTx is WithTx for functions that produce a value. The value is returned
// only after a successful commit.
//
//	rec, err := dbx.InTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) (*enrollments.Record, error) {
//	    return enrollments.NewPostgresRepository(tx).Upsert(ctx, rec)
//	})
func InTx[T any](ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) (T, error)) (result T, err error) {
	var zero T

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			result = zero
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			result, err = zero, fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
