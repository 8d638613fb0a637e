package entity

import "time"

// Estados de una bodega.
const (
	WarehouseOpen   = "OPEN"
	WarehouseClosed = "CLOSED"
)

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Una bodega cerrada no puede ser origen ni destino de traslados.
type Warehouse struct {
	ID         string
	Code       string // único
	Name       string
	Address    string
	Status     string // OPEN, CLOSED
	CurrencyID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOpen indica si la bodega acepta movimientos.
func (w *Warehouse) IsOpen() bool {
	return w != nil && w.Status == WarehouseOpen
}
