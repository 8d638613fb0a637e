package entity

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// DocumentStatus es el estado de un traslado o una devolución.
type DocumentStatus string

// Estados de documento. PROCESSED y CANCELLED son terminales.
const (
	DocumentDraft     DocumentStatus = "DRAFT"
	DocumentProcessed DocumentStatus = "PROCESSED"
	DocumentCancelled DocumentStatus = "CANCELLED"
)

var documentTransitions = map[DocumentStatus][]DocumentStatus{
	DocumentDraft: {DocumentProcessed, DocumentCancelled},
}

// CanTransition indica si el paso from -> to está permitido.
func (s DocumentStatus) CanTransition(to DocumentStatus) bool {
	for _, allowed := range documentTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DetailLine es una línea de producto dentro de un documento en borrador.
type DetailLine struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Total devuelve cantidad * precio.
func (l DetailLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Document agrupa la cabecera común de traslados y devoluciones.
type Document struct {
	ID                string
	SourceWarehouseID string
	Date              time.Time
	Description       string
	Status            DocumentStatus
	Lines             []DetailLine
	CreatedBy         string
	ProcessedBy       string
	ProcessedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsDraft indica si el documento todavía admite cambios.
func (d *Document) IsDraft() bool {
	return d.Status == DocumentDraft
}

// AddLine agrega una línea. Si el producto ya está en el documento, la fusiona:
// cantidad sumada y precio promedio ponderado por cantidad.
func (d *Document) AddLine(productID string, quantity, unitPrice decimal.Decimal) (DetailLine, error) {
	if !d.IsDraft() {
		return DetailLine{}, domain.ErrDocumentNotDraft
	}
	if productID == "" || !quantity.IsPositive() || !unitPrice.IsPositive() {
		return DetailLine{}, domain.ErrInvalidInput
	}
	if !FitsScale(quantity, QuantityScale) || !FitsScale(unitPrice, QuantityScale) {
		return DetailLine{}, domain.ErrInvalidInput
	}
	for i, l := range d.Lines {
		if l.ProductID != productID {
			continue
		}
		merged := DetailLine{
			ProductID: productID,
			Quantity:  l.Quantity.Add(quantity),
			UnitPrice: inventory.CostCalculator(l.Quantity, l.UnitPrice, quantity, unitPrice),
		}
		d.Lines[i] = merged
		return merged, nil
	}
	line := DetailLine{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice}
	d.Lines = append(d.Lines, line)
	return line, nil
}

// RemoveLine quita la línea del producto. Devuelve ErrNotFound si no existe.
func (d *Document) RemoveLine(productID string) error {
	if !d.IsDraft() {
		return domain.ErrDocumentNotDraft
	}
	for i, l := range d.Lines {
		if l.ProductID == productID {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Line devuelve la línea del producto, si existe.
func (d *Document) Line(productID string) (DetailLine, bool) {
	for _, l := range d.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return DetailLine{}, false
}

// TotalQuantity suma las cantidades de todas las líneas.
func (d *Document) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Quantity)
	}
	return total
}

// MarkProcessed pasa el documento a PROCESSED. Falla si no está en borrador o no tiene líneas.
func (d *Document) MarkProcessed(actor string, now time.Time) error {
	if !d.IsDraft() {
		return domain.ErrDocumentNotDraft
	}
	if len(d.Lines) == 0 {
		return domain.ErrEmptyDocument
	}
	if err := d.transition(DocumentProcessed, now); err != nil {
		return err
	}
	d.ProcessedBy = actor
	d.ProcessedAt = &now
	return nil
}

// Cancel retira un borrador sin tocar inventario.
func (d *Document) Cancel(now time.Time) error {
	if !d.IsDraft() {
		return domain.ErrDocumentNotDraft
	}
	return d.transition(DocumentCancelled, now)
}

func (d *Document) transition(to DocumentStatus, now time.Time) error {
	if !d.Status.CanTransition(to) {
		return domain.ErrInvalidTransition
	}
	d.Status = to
	d.UpdatedAt = now
	return nil
}

// CloneLines devuelve una copia de las líneas (los repositorios en memoria no comparten slices).
func (d *Document) CloneLines() []DetailLine {
	if d.Lines == nil {
		return nil
	}
	out := make([]DetailLine, len(d.Lines))
	copy(out, d.Lines)
	return out
}
