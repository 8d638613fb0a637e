package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestLedger_RecordCalculaFoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.ledger.Record(ctx, inventory.Entry{
		ProductID: "p-9", WarehouseID: "wh-a", Operation: entity.OperationEntry, Quantity: dec("8"),
	})
	require.NoError(t, err)
	assert.True(t, e.CurrentStock.Equal(dec("8")))
	assert.NotEmpty(t, e.OperationID)

	e, err = f.ledger.Record(ctx, inventory.Entry{
		ProductID: "p-9", WarehouseID: "wh-a", Operation: entity.OperationTransferOut, Quantity: dec("3"),
	})
	require.NoError(t, err)
	assert.True(t, e.CurrentStock.Equal(dec("5")))

	stock, err := f.ledger.CurrentStock(ctx, "p-9", "wh-a")
	require.NoError(t, err)
	assert.True(t, stock.Equal(dec("5")))
}

func TestLedger_RechazaFotoNegativa(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Record(context.Background(), inventory.Entry{
		ProductID: "p-1", WarehouseID: "wh-a", Operation: entity.OperationReturnOut, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestLedger_RechazaEntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, e := range map[string]inventory.Entry{
		"sin producto":       {WarehouseID: "wh-a", Operation: entity.OperationEntry, Quantity: dec("1")},
		"operación inválida": {ProductID: "p-1", WarehouseID: "wh-a", Operation: "GIFT", Quantity: dec("1")},
		"cantidad cero":      {ProductID: "p-1", WarehouseID: "wh-a", Operation: entity.OperationEntry, Quantity: dec("0")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.ledger.Record(ctx, e)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLedger_ReconcileCuadra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, d := range []string{"10", "-3", "7", "-14"} {
		_, err := f.adjust(t, d)
		require.NoError(t, err)
	}

	rec, err := f.ledger.Reconcile(ctx, "p-1", "wh-a")
	require.NoError(t, err)
	assert.True(t, rec.Balanced)
	assert.Equal(t, 4, rec.Entries)
	assert.True(t, rec.Replayed.IsZero())
	assert.True(t, rec.LineQuantity.IsZero())
	assert.True(t, rec.LastSnapshot.IsZero())
}

func TestLedger_ReconcileDetectaDescuadre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.adjust(t, "5")
	require.NoError(t, err)

	// escritura directa sobre la línea, sin pasar por el kardex
	line, err := f.mem.Lines().Get(ctx, "p-1", "wh-a")
	require.NoError(t, err)
	line.Quantity = dec("9")
	require.NoError(t, f.mem.Lines().Save(ctx, line))

	rec, err := f.ledger.Reconcile(ctx, "p-1", "wh-a")
	require.NoError(t, err)
	assert.False(t, rec.Balanced)
	assert.True(t, rec.Replayed.Equal(dec("5")))
	assert.True(t, rec.LineQuantity.Equal(dec("9")))
}
