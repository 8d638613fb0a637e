package dto

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// NewDocumentResponse mapea la cabecera común de traslados y devoluciones.
func NewDocumentResponse(d *entity.Document) DocumentResponse {
	lines := make([]DetailLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, DetailLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total(),
		})
	}
	return DocumentResponse{
		ID:                d.ID,
		SourceWarehouseID: d.SourceWarehouseID,
		Date:              d.Date,
		Description:       d.Description,
		Status:            string(d.Status),
		Lines:             lines,
		TotalQuantity:     d.TotalQuantity(),
		CreatedBy:         d.CreatedBy,
		ProcessedBy:       d.ProcessedBy,
		ProcessedAt:       d.ProcessedAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// ParseDocumentStatus valida el filtro de estado. Vacío = todos.
func (r DocumentListRequest) ParseDocumentStatus() (entity.DocumentStatus, bool) {
	switch s := entity.DocumentStatus(r.Status); s {
	case "", entity.DocumentDraft, entity.DocumentProcessed, entity.DocumentCancelled:
		return s, true
	default:
		return "", false
	}
}
