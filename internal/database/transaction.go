package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Tx is one unit of work. All repository operations are methods of Tx.
type Tx struct {
	tx *sqlx.Tx
}

// TxFn is executed within a transaction. The transaction is committed if it
// returns nil and rolled back otherwise.
type TxFn func(ctx context.Context, tx *Tx) error

// RunInTransaction executes fn within a database transaction. A panic in fn
// rolls the transaction back and is propagated.
func (d *DB) RunInTransaction(ctx context.Context, fn TxFn) error {
	sqlTx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil {
				d.log.Error("Failed to roll back transaction after panic", "error", rbErr, "panic", p)
			}
			panic(p)
		}
	}()

	if err := fn(ctx, &Tx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			d.log.Error("Failed to roll back transaction", "rollback_error", rbErr, "error", err)
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, err)
		}
		d.log.Debug("Rolled back transaction", "error", err)
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// q converts ? placeholders to the driver's bindvar style
func (t *Tx) q(query string) string {
	return t.tx.Rebind(query)
}

func now() time.Time {
	return time.Now().UTC()
}
