package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func TestRun_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	boom := errors.New("boom")

	err := s.Run(ctx, func(tx repository.InventoryTx) error {
		require.NoError(t, tx.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Code: "A", Status: entity.WarehouseOpen}))
		line, err := tx.Lines.LockOrCreate(ctx, "p1", "w1")
		require.NoError(t, err)
		line.Quantity = decimal.NewFromInt(7)
		require.NoError(t, tx.Lines.Save(ctx, line))
		return boom
	})
	require.ErrorIs(t, err, boom)

	wh, err := s.Warehouses().GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Nil(t, wh)

	line, err := s.Lines().Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.True(t, line.Quantity.IsZero())
	assert.False(t, line.Exists())
}

func TestRun_CommitPublishesWrites(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	err := s.Run(ctx, func(tx repository.InventoryTx) error {
		line, err := tx.Lines.LockOrCreate(ctx, "p1", "w1")
		if err != nil {
			return err
		}
		line.Quantity = decimal.NewFromInt(3)
		return tx.Lines.Save(ctx, line)
	})
	require.NoError(t, err)

	line, err := s.Lines().Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(3)))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := memory.NewStore()

	called := false
	err := s.Run(ctx, func(repository.InventoryTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestHistory_SequenceAndOrder(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	h := s.History()

	for i, op := range []entity.OperationType{entity.OperationEntry, entity.OperationWithdrawal} {
		require.NoError(t, h.Append(ctx, &entity.StockHistoryEntry{
			ID: string(rune('a' + i)), ProductID: "p", WarehouseID: "w", Operation: op,
			Quantity: decimal.NewFromInt(1), CurrentStock: decimal.NewFromInt(int64(1 - i)),
		}))
	}
	require.NoError(t, h.Append(ctx, &entity.StockHistoryEntry{ID: "x", ProductID: "p", WarehouseID: "other"}))

	list, err := h.ListByPair(ctx, "p", "w")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].Sequence)
	assert.Equal(t, int64(2), list[1].Sequence)

	last, err := h.Last(ctx, "p", "w")
	require.NoError(t, err)
	assert.Equal(t, entity.OperationWithdrawal, last.Operation)

	none, err := h.Last(ctx, "q", "w")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRegisters_SingleOpen(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	regs := s.Registers()

	require.NoError(t, regs.Create(ctx, &entity.CashRegister{ID: "r1", Status: entity.RegisterOpen}))
	err := regs.Create(ctx, &entity.CashRegister{ID: "r2", Status: entity.RegisterOpen})
	assert.ErrorIs(t, err, domain.ErrConflict)

	open, err := regs.GetOpen(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "r1", open.ID)
}

func TestCashTransactions_ListSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Registers().Create(ctx, &entity.CashRegister{ID: "r1", Status: entity.RegisterOpen}))

	now := time.Now()
	txs := s.CashTransactions()
	require.NoError(t, txs.Create(ctx, &entity.CashTransaction{ID: "t1", RegisterID: "r1", CreatedAt: now}))
	require.NoError(t, txs.Create(ctx, &entity.CashTransaction{ID: "t2", RegisterID: "r1", CreatedAt: now.Add(time.Second), DeletedAt: &now}))

	list, err := txs.List(ctx, repository.CashTransactionFilter{RegisterID: "r1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t1", list[0].ID)

	all, err := txs.List(ctx, repository.CashTransactionFilter{RegisterID: "r1", IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalog_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", Code: "A"}))
	err := s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", Code: "A"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
