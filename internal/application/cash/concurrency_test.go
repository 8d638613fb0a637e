package cash_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/cash"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// staleTransactions devuelve en GetByID una copia vieja de la fila, como la vería una
// transacción READ COMMITTED que leyó antes de que otra confirmara. GetForUpdate lee el valor real.
type staleTransactions struct {
	repository.CashTransactionRepository
	stale map[string]entity.CashTransaction
}

func (s staleTransactions) GetByID(ctx context.Context, id string) (*entity.CashTransaction, error) {
	if t, ok := s.stale[id]; ok {
		return &t, nil
	}
	return s.CashTransactionRepository.GetByID(ctx, id)
}

type staleRunner struct {
	mem   *memory.Store
	stale map[string]entity.CashTransaction
}

func (r staleRunner) RunCash(ctx context.Context, fn func(tx repository.CashTx) error) error {
	return r.mem.RunCash(ctx, func(tx repository.CashTx) error {
		tx.Transactions = staleTransactions{CashTransactionRepository: tx.Transactions, stale: r.stale}
		return fn(tx)
	})
}

func snapshot(t *testing.T, mem *memory.Store, id string) map[string]entity.CashTransaction {
	t.Helper()
	row, err := mem.CashTransactions().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, row)
	return map[string]entity.CashTransaction{id: *row}
}

func TestRemoveTransaction_DecideConLaFilaBloqueada(t *testing.T) {
	uc, mem := newUseCase(t, nil)
	ctx := context.Background()
	regID := open(t, uc, "100")
	txID := add(t, uc, regID, "DEPOSIT", "50").Transaction.ID

	before := snapshot(t, mem, txID)
	res, err := uc.RemoveTransaction(ctx, txID, "a")
	require.NoError(t, err)
	require.True(t, res.CurrentAmount.Equal(dec("100")))

	// segunda eliminación que leyó la fila antes de que la primera confirmara
	late := cash.NewUseCase(staleRunner{mem: mem, stale: before}, mem.Registers(), mem.CashTransactions(), nil, logger.Nop())
	_, err = late.RemoveTransaction(ctx, txID, "b")
	require.ErrorIs(t, err, domain.ErrTransactionDeleted)

	check, err := uc.VerifyBalance(ctx, regID)
	require.NoError(t, err)
	assert.True(t, check.CurrentAmount.Equal(dec("100")))
	assert.True(t, check.Balanced)
}

func TestUpdateTransaction_DeltaSobreMontoBloqueado(t *testing.T) {
	uc, mem := newUseCase(t, nil)
	ctx := context.Background()
	regID := open(t, uc, "100")
	txID := add(t, uc, regID, "DEPOSIT", "50").Transaction.ID

	before := snapshot(t, mem, txID)
	eighty := dec("80")
	_, err := uc.UpdateTransaction(ctx, txID, "a", dto.UpdateCashTransactionRequest{Amount: &eighty})
	require.NoError(t, err)

	late := cash.NewUseCase(staleRunner{mem: mem, stale: before}, mem.Registers(), mem.CashTransactions(), nil, logger.Nop())
	sixty := dec("60")
	res, err := late.UpdateTransaction(ctx, txID, "b", dto.UpdateCashTransactionRequest{Amount: &sixty})
	require.NoError(t, err)
	// 180 + (60 - 80); con el monto viejo (50) quedaría en 190
	assert.True(t, res.CurrentAmount.Equal(dec("160")), "obtuvo %s", res.CurrentAmount)

	check, err := uc.VerifyBalance(ctx, regID)
	require.NoError(t, err)
	assert.True(t, check.Balanced)
}

func TestRemoveTransaction_ConcurrenteSoloUnaVez(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	regID := open(t, uc, "100")
	txID := add(t, uc, regID, "SALE", "40").Transaction.ID

	var ok, deleted atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := uc.RemoveTransaction(ctx, txID, "cajero")
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrTransactionDeleted):
				deleted.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(7), deleted.Load())

	check, err := uc.VerifyBalance(ctx, regID)
	require.NoError(t, err)
	assert.True(t, check.CurrentAmount.Equal(dec("100")))
	assert.True(t, check.Balanced)
}

func TestCash_MutacionesConcurrentesCuadran(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	regID := open(t, uc, "1000")

	ids := make([]string, 10)
	for i := range ids {
		ids[i] = add(t, uc, regID, "SALE", "10").Transaction.ID
	}

	twenty := dec("20")
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := uc.CreateTransaction(ctx, regID, "cajero", dto.CreateCashTransactionRequest{Type: "DEPOSIT", Amount: dec("5")})
			return err
		})
	}
	for i, id := range ids {
		id := id
		if i%2 == 0 {
			g.Go(func() error {
				_, err := uc.UpdateTransaction(ctx, id, "cajero", dto.UpdateCashTransactionRequest{Amount: &twenty})
				return err
			})
		} else {
			g.Go(func() error {
				_, err := uc.RemoveTransaction(ctx, id, "cajero")
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	check, err := uc.VerifyBalance(ctx, regID)
	require.NoError(t, err)
	assert.True(t, check.Balanced)
	// 1000 + 10×5 + 5×20
	assert.True(t, check.CurrentAmount.Equal(dec("1150")), "obtuvo %s", check.CurrentAmount)
}
