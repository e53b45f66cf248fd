package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
// It also satisfies pgxscan.Querier.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner starts transactions. *pgxpool.Pool implements it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Transactor scopes a unit of work to a single transaction.
type Transactor struct {
	pool TxBeginner
}

// NewTransactor creates a Transactor over the given pool.
func NewTransactor(pool TxBeginner) *Transactor {
	return &Transactor{pool: pool}
}

// WithinTx runs fn inside a transaction. The transaction is committed once
// if fn returns nil and rolled back on every other exit path, panics included.
func (t *Transactor) WithinTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return WrapError(err, "begin transaction")
	}

	committed := false
	defer func() {
		if !committed {
			// Rollback after a failed commit returns ErrTxClosed; nothing to do.
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return WrapError(err, "commit transaction")
	}
	committed = true
	return nil
}
