package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/application/cash"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and cash.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ cash.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos de inventario atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.InventoryTx) error) error {
	return r.within(ctx, func(tx pgx.Tx) error {
		return fn(repository.InventoryTx{
			Warehouses: NewWarehouseRepository(tx),
			Lines:      NewInventoryLineRepository(tx),
			History:    NewStockHistoryRepository(tx),
			Transfers:  NewTransferRepository(tx),
			Returns:    NewProviderReturnRepository(tx),
		})
	})
}

// RunCash inicia una transacción con los repos de caja.
func (r *TxRunner) RunCash(ctx context.Context, fn func(tx repository.CashTx) error) error {
	return r.within(ctx, func(tx pgx.Tx) error {
		return fn(repository.CashTx{
			Registers:    NewCashRegisterRepository(tx),
			Transactions: NewCashTransactionRepository(tx),
		})
	})
}

func (r *TxRunner) within(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
