package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El stock vive por bodega en InventoryLine; TaxRate solo lo usa la facturación externa.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	UnitMeasure string
	TaxRate     decimal.Decimal
	Price       decimal.Decimal // precio de venta sugerido
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
