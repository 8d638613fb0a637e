package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestTransactionType_ReglaDeSigno(t *testing.T) {
	cases := map[entity.TransactionType]string{
		entity.TransactionSale:       "50",
		entity.TransactionDeposit:    "50",
		entity.TransactionRefund:     "-50",
		entity.TransactionWithdrawal: "-50",
		entity.TransactionAdjustment: "50",
	}
	for typ, want := range cases {
		got := typ.Signed(dec("50"))
		assert.True(t, got.Equal(dec(want)), "%s: obtuvo %s", typ, got)
	}
	// ADJUSTMENT respeta el signo que envía el llamador.
	assert.True(t, entity.TransactionAdjustment.Signed(dec("-7")).Equal(dec("-7")))
}

func TestTransactionType_ValidateAmount(t *testing.T) {
	assert.NoError(t, entity.TransactionSale.ValidateAmount(dec("1")))
	assert.ErrorIs(t, entity.TransactionSale.ValidateAmount(dec("0")), domain.ErrInvalidInput)
	assert.ErrorIs(t, entity.TransactionRefund.ValidateAmount(dec("-1")), domain.ErrInvalidInput)
	assert.NoError(t, entity.TransactionAdjustment.ValidateAmount(dec("-1")))
	assert.ErrorIs(t, entity.TransactionAdjustment.ValidateAmount(decimal.Zero), domain.ErrInvalidInput)
	assert.ErrorIs(t, entity.TransactionType("BONUS").ValidateAmount(dec("1")), domain.ErrInvalidInput)
}

func TestCashRegister_CicloDeVida(t *testing.T) {
	now := time.Now()
	r := &entity.CashRegister{ID: "r1"}
	assert.False(t, r.IsOpen())

	require.NoError(t, r.Open(dec("100"), "u1", now))
	assert.True(t, r.IsOpen())
	assert.True(t, r.CurrentAmount.Equal(dec("100")))
	assert.ErrorIs(t, r.Open(dec("1"), "u1", now), domain.ErrInvalidTransition)

	require.NoError(t, r.Apply(dec("50"), now))
	assert.ErrorIs(t, r.Apply(dec("-151"), now), domain.ErrNegativeBalance)
	assert.True(t, r.CurrentAmount.Equal(dec("150")))

	counted := dec("145")
	require.NoError(t, r.Close(&counted, "faltante", "u2", now))
	assert.Equal(t, entity.RegisterClosed, r.Status)
	assert.True(t, r.Difference.Equal(dec("-5")))

	// Cerrada es terminal: no se reabre ni admite movimientos.
	assert.ErrorIs(t, r.Open(dec("1"), "u1", now), domain.ErrInvalidTransition)
	assert.ErrorIs(t, r.Apply(dec("1"), now), domain.ErrRegisterNotOpen)
	assert.ErrorIs(t, r.Close(nil, "", "u1", now), domain.ErrRegisterNotOpen)
}

func TestCashTransaction_EliminadaNoAporta(t *testing.T) {
	now := time.Now()
	tx := &entity.CashTransaction{Type: entity.TransactionSale, Amount: dec("10")}
	assert.True(t, tx.SignedAmount().Equal(dec("10")))
	tx.DeletedAt = &now
	assert.True(t, tx.SignedAmount().IsZero())
}

func TestStockHistoryEntry_Delta(t *testing.T) {
	in := entity.StockHistoryEntry{Operation: entity.OperationTransferIn, Quantity: dec("3")}
	out := entity.StockHistoryEntry{Operation: entity.OperationReturnOut, Quantity: dec("3")}
	assert.True(t, in.Delta().Equal(dec("3")))
	assert.True(t, out.Delta().Equal(dec("-3")))
	assert.False(t, entity.OperationType("LOST").Valid())
}

func TestMontos_EscalaMaximaDosDecimales(t *testing.T) {
	assert.NoError(t, entity.TransactionSale.ValidateAmount(dec("0.01")))
	assert.NoError(t, entity.TransactionSale.ValidateAmount(dec("12.50")))
	assert.ErrorIs(t, entity.TransactionSale.ValidateAmount(dec("0.004")), domain.ErrInvalidInput)
	assert.ErrorIs(t, entity.TransactionAdjustment.ValidateAmount(dec("-1.001")), domain.ErrInvalidInput)

	reg := &entity.CashRegister{ID: "r"}
	assert.ErrorIs(t, reg.Open(dec("10.005"), "u", time.Now()), domain.ErrInvalidInput)
	require.NoError(t, reg.Open(dec("10"), "u", time.Now()))
	counted := dec("9.999")
	assert.ErrorIs(t, reg.Close(&counted, "", "u", time.Now()), domain.ErrInvalidInput)
	assert.True(t, reg.IsOpen())
}
