package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Entry datos de un movimiento a registrar en el kardex.
type Entry struct {
	ProductID   string
	WarehouseID string
	Operation   entity.OperationType
	OperationID string
	Quantity    decimal.Decimal // magnitud > 0; el signo lo da Operation
	Actor       string
	At          time.Time
}

// Ledger es el kardex: historial inmutable de movimientos por producto+bodega.
type Ledger struct {
	txRunner TxRunner
	history  repository.StockHistoryRepository
	lines    repository.InventoryLineRepository
	log      *logger.Logger
}

// NewLedger construye el kardex.
func NewLedger(
	txRunner TxRunner,
	history repository.StockHistoryRepository,
	lines repository.InventoryLineRepository,
	log *logger.Logger,
) *Ledger {
	return &Ledger{txRunner: txRunner, history: history, lines: lines, log: log.Component("ledger")}
}

// Record agrega una entrada en su propia transacción.
func (l *Ledger) Record(ctx context.Context, e Entry) (*entity.StockHistoryEntry, error) {
	var out *entity.StockHistoryEntry
	err := l.txRunner.Run(ctx, func(tx repository.InventoryTx) error {
		var err error
		out, err = l.Append(ctx, tx.History, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Append agrega una entrada usando el repositorio de la transacción del caller.
// El stock resultante se calcula desde la última foto del par (0 si no hay historial).
func (l *Ledger) Append(ctx context.Context, history repository.StockHistoryRepository, e Entry) (*entity.StockHistoryEntry, error) {
	if e.ProductID == "" || e.WarehouseID == "" || !e.Operation.Valid() || !e.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	last, err := history.Last(ctx, e.ProductID, e.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("ledger: última entrada: %w", err)
	}
	prior := decimal.Zero
	if last != nil {
		prior = last.CurrentStock
	}
	next := prior.Add(e.Quantity.Mul(e.Operation.Sign()))
	if next.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ProductID:   e.ProductID,
			WarehouseID: e.WarehouseID,
			Available:   prior,
			Requested:   e.Quantity,
		}
	}
	if e.OperationID == "" {
		e.OperationID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	entry := &entity.StockHistoryEntry{
		ID:           uuid.New().String(),
		ProductID:    e.ProductID,
		WarehouseID:  e.WarehouseID,
		Operation:    e.Operation,
		OperationID:  e.OperationID,
		Quantity:     e.Quantity,
		CurrentStock: next,
		CreatedAt:    e.At,
		CreatedBy:    e.Actor,
	}
	if err := history.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("ledger: insertar entrada: %w", err)
	}
	return entry, nil
}

// CurrentStock devuelve la última foto del par o 0 si no hay historial.
func (l *Ledger) CurrentStock(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	last, err := l.history.Last(ctx, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	if last == nil {
		return decimal.Zero, nil
	}
	return last.CurrentStock, nil
}

// History devuelve el kardex del par en orden de inserción.
func (l *Ledger) History(ctx context.Context, productID, warehouseID string) (*dto.StockHistoryResponse, error) {
	entries, err := l.history.ListByPair(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	out := &dto.StockHistoryResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Entries:     make([]dto.StockHistoryEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.StockHistoryEntryResponse{
			ID:           e.ID,
			Sequence:     e.Sequence,
			Operation:    string(e.Operation),
			OperationID:  e.OperationID,
			Quantity:     e.Quantity,
			CurrentStock: e.CurrentStock,
			CreatedAt:    e.CreatedAt,
			CreatedBy:    e.CreatedBy,
		})
	}
	return out, nil
}

// Reconcile reproduce el kardex desde 0 y lo compara con la línea de inventario y la última foto.
func (l *Ledger) Reconcile(ctx context.Context, productID, warehouseID string) (*dto.ReconcileResponse, error) {
	entries, err := l.history.ListByPair(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	line, err := l.lines.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	replayed := decimal.Zero
	for _, e := range entries {
		replayed = replayed.Add(e.Delta())
	}
	snapshot := decimal.Zero
	if n := len(entries); n > 0 {
		snapshot = entries[n-1].CurrentStock
	}
	res := &dto.ReconcileResponse{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		Replayed:     replayed,
		LineQuantity: line.Quantity,
		LastSnapshot: snapshot,
		Entries:      len(entries),
		Balanced:     replayed.Equal(line.Quantity) && replayed.Equal(snapshot),
	}
	if !res.Balanced {
		l.log.Warn().
			Str("product_id", productID).
			Str("warehouse_id", warehouseID).
			Str("replayed", replayed.String()).
			Str("line_quantity", line.Quantity.String()).
			Str("last_snapshot", snapshot.String()).
			Msg("kardex descuadrado")
	}
	return res, nil
}
