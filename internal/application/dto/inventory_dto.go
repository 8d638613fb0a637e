package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjust.
// Delta positivo registra una entrada (ENTRY), negativo una salida (WITHDRAWAL).
type AdjustStockRequest struct {
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	Delta       decimal.Decimal  `json:"delta"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	OperationID string           `json:"operation_id,omitempty"` // opcional; se genera si viene vacío
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	OperationID string          `json:"operation_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// InventoryLineResponse stock de un producto en una bodega.
type InventoryLineResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// StockHistoryEntryResponse una entrada del kardex.
type StockHistoryEntryResponse struct {
	ID           string          `json:"id"`
	Sequence     int64           `json:"sequence"`
	Operation    string          `json:"operation"`
	OperationID  string          `json:"operation_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// StockHistoryResponse historial de un par producto+bodega.
type StockHistoryResponse struct {
	ProductID   string                      `json:"product_id"`
	WarehouseID string                      `json:"warehouse_id"`
	Entries     []StockHistoryEntryResponse `json:"entries"`
}

// ReconcileResponse compara el kardex con el stock actual.
type ReconcileResponse struct {
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	Replayed     decimal.Decimal `json:"replayed"`      // suma de deltas desde 0
	LineQuantity decimal.Decimal `json:"line_quantity"` // cantidad en inventory_lines
	LastSnapshot decimal.Decimal `json:"last_snapshot"` // current_stock de la última entrada
	Entries      int             `json:"entries"`
	Balanced     bool            `json:"balanced"`
}
