package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := inventory.CostCalculator(d("5"), d("10"), d("5"), d("20"))
	assert.True(t, got.Equal(d("15")), "5@10 + 5@20 debe dar 15, obtuvo %s", got)
}

func TestCostCalculator_PesaPorCantidad(t *testing.T) {
	got := inventory.CostCalculator(d("9"), d("10"), d("1"), d("20"))
	assert.True(t, got.Equal(d("11")), "obtuvo %s", got)
}

func TestCostCalculator_SinCantidadDevuelveCero(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, d("10"), decimal.Zero, d("20"))
	assert.True(t, got.IsZero())
}

func TestCostCalculator_RedondeaACuatroDecimales(t *testing.T) {
	got := inventory.CostCalculator(d("1"), d("10"), d("2"), d("11"))
	assert.True(t, got.Equal(d("10.6667")), "obtuvo %s", got)
	assert.Equal(t, int32(-4), got.Exponent())
}
