package entity

import "github.com/shopspring/decimal"

// Decimales que admite el esquema: NUMERIC(18,2) para dinero de caja,
// NUMERIC(18,4) para cantidades y precios de inventario.
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 4
)

// FitsScale indica si d no tiene más de places decimales significativos.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}
