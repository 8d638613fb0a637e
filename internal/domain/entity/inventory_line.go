package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLine es el stock actual de un producto en una bodega (única por producto+bodega).
// Se crea la primera vez que entra stock y nunca se borra; la cantidad puede llegar a 0.
type InventoryLine struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // último precio conocido
	UpdatedAt   time.Time
}

// NewInventoryLine devuelve la línea vacía usada cuando el par aún no tiene stock.
func NewInventoryLine(productID, warehouseID string) *InventoryLine {
	return &InventoryLine{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		UnitPrice:   decimal.Zero,
	}
}

// Exists indica si la línea ya fue persistida alguna vez.
func (l *InventoryLine) Exists() bool {
	return !l.UpdatedAt.IsZero()
}
