package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con el repo
// del ledger atado a ella. Al abrir la tx fija lock_timeout: un escritor que no
// consigue el lock del par dentro del tope responde contención en vez de
// quedarse encolado indefinidamente.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int
}

// NewTxRunner construye el runner con el pool y el tope de espera por locks.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int) *TxRunner {
	if lockTimeoutMS <= 0 {
		lockTimeoutMS = 3000
	}
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// Run inicia una transacción, ejecuta fn con el repo atado a la tx y hace
// Commit o Rollback. El Rollback libera cualquier lock de par adquirido dentro.
func (r *TxRunner) Run(ctx context.Context, fn func(ledgerRepo repository.StockLedgerRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// SET LOCAL: el tope aplica solo a esta transacción.
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMS)); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	ledgerRepo := NewStockLedgerRepository(tx)
	if err := fn(ledgerRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
