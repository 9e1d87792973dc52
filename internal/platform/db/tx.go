package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

// DBTxKey carries an open pgx.Tx through the context. Repositories consult
// it via TxFromContext so that multi-step service operations share one
// transaction without changing repository signatures.
const DBTxKey contextKey = "db_tx"

// TxFromContext retrieves the transaction from context, or nil if the
// caller is not running inside RunInTx.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}

// RunInTx executes fn inside a single database transaction. The transaction
// is injected into the context handed to fn; any repository call made with
// that context joins it. A non-nil error from fn rolls everything back, so
// linked writes (patient + transaction + installment) commit or vanish
// together.
//
// Nested calls reuse the surrounding transaction rather than opening a new
// one; the outermost caller owns commit/rollback.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if tx := TxFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, DBTxKey, tx)
	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
