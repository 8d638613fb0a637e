package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransferRequest cabecera de un traslado entre bodegas.
type CreateTransferRequest struct {
	SourceWarehouseID string     `json:"source_warehouse_id"`
	TargetWarehouseID string     `json:"target_warehouse_id"`
	Date              *time.Time `json:"date,omitempty"`
	Description       string     `json:"description"`
}

// CreateReturnRequest cabecera de una devolución a proveedor.
type CreateReturnRequest struct {
	SourceWarehouseID string     `json:"source_warehouse_id"`
	ProviderID        string     `json:"provider_id"`
	Date              *time.Time `json:"date,omitempty"`
	Description       string     `json:"description"`
}

// AddLineRequest línea de producto para un documento en borrador.
type AddLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DocumentListRequest filtros de listado (query string).
type DocumentListRequest struct {
	Status      string `query:"status"`
	WarehouseID string `query:"warehouse_id"`
	PageRequest
}

// DetailLineResponse línea de un documento.
type DetailLineResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// DocumentResponse campos comunes de traslados y devoluciones.
type DocumentResponse struct {
	ID                string               `json:"id"`
	SourceWarehouseID string               `json:"source_warehouse_id"`
	Date              time.Time            `json:"date"`
	Description       string               `json:"description"`
	Status            string               `json:"status"`
	Lines             []DetailLineResponse `json:"lines"`
	TotalQuantity     decimal.Decimal      `json:"total_quantity"`
	CreatedBy         string               `json:"created_by"`
	ProcessedBy       string               `json:"processed_by,omitempty"`
	ProcessedAt       *time.Time           `json:"processed_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	DocumentResponse
	TargetWarehouseID string `json:"target_warehouse_id"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReturnResponse salida de una devolución.
type ReturnResponse struct {
	DocumentResponse
	ProviderID string `json:"provider_id"`
}

// ReturnListResponse lista paginada de devoluciones.
type ReturnListResponse struct {
	Items []ReturnResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
