package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo kardex sobre PostgreSQL. Solo INSERT; un trigger rechaza UPDATE y DELETE.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

const historyColumns = `seq, id, product_id, warehouse_id, operation_type, operation_id, quantity, current_stock, created_at, created_by`

func scanHistory(row pgx.Row) (*entity.StockHistoryEntry, error) {
	var e entity.StockHistoryEntry
	var createdBy *string
	err := row.Scan(&e.Sequence, &e.ID, &e.ProductID, &e.WarehouseID, &e.Operation, &e.OperationID,
		&e.Quantity, &e.CurrentStock, &e.CreatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	e.CreatedBy = deref(createdBy)
	return &e, nil
}

// Append inserta la entrada y devuelve en ella la secuencia asignada.
func (r *StockHistoryRepo) Append(ctx context.Context, e *entity.StockHistoryEntry) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_history (id, product_id, warehouse_id, operation_type, operation_id, quantity, current_stock, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`,
		e.ID, e.ProductID, e.WarehouseID, string(e.Operation), e.OperationID,
		e.Quantity, e.CurrentStock, e.CreatedAt, nullable(e.CreatedBy),
	).Scan(&e.Sequence)
	if err != nil {
		return wrapWrite("insert stock history", err)
	}
	return nil
}

// Last devuelve la última entrada del par o nil.
func (r *StockHistoryRepo) Last(ctx context.Context, productID, warehouseID string) (*entity.StockHistoryEntry, error) {
	if !validID(productID) || !validID(warehouseID) {
		return nil, nil
	}
	e, err := scanHistory(r.q.QueryRow(ctx, `
		SELECT `+historyColumns+` FROM stock_history
		WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY seq DESC LIMIT 1`, productID, warehouseID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("last stock history: %w", err)
	}
	return e, nil
}

// ListByPair devuelve el kardex del par en orden de inserción.
func (r *StockHistoryRepo) ListByPair(ctx context.Context, productID, warehouseID string) ([]*entity.StockHistoryEntry, error) {
	if !validID(productID) || !validID(warehouseID) {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+historyColumns+` FROM stock_history
		WHERE product_id = $1 AND warehouse_id = $2 ORDER BY seq`, productID, warehouseID)
}

// ListByOperation devuelve las entradas generadas por un traslado, devolución o ajuste.
func (r *StockHistoryRepo) ListByOperation(ctx context.Context, operationID string) ([]*entity.StockHistoryEntry, error) {
	return r.list(ctx, `
		SELECT `+historyColumns+` FROM stock_history
		WHERE operation_id = $1 ORDER BY seq`, operationID)
}

func (r *StockHistoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockHistoryEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockHistoryEntry
	for rows.Next() {
		e, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
