package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryLineRepository = (*InventoryLineRepo)(nil)

// InventoryLineRepo implementación de InventoryLineRepository sobre PostgreSQL (usable con pool o tx).
type InventoryLineRepo struct {
	q Querier
}

// NewInventoryLineRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewInventoryLineRepository(q Querier) *InventoryLineRepo {
	return &InventoryLineRepo{q: q}
}

const lineColumns = `product_id, warehouse_id, quantity, unit_price, updated_at`

func scanLine(row pgx.Row) (*entity.InventoryLine, error) {
	var l entity.InventoryLine
	if err := row.Scan(&l.ProductID, &l.WarehouseID, &l.Quantity, &l.UnitPrice, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Get obtiene el stock actual de un producto en una bodega (línea en cero si no existe).
func (r *InventoryLineRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryLine, error) {
	if !validID(productID) || !validID(warehouseID) {
		return entity.NewInventoryLine(productID, warehouseID), nil
	}
	l, err := scanLine(r.q.QueryRow(ctx, `
		SELECT `+lineColumns+` FROM inventory_lines
		WHERE product_id = $1 AND warehouse_id = $2`, productID, warehouseID))
	if err != nil {
		if isNoRows(err) {
			return entity.NewInventoryLine(productID, warehouseID), nil
		}
		return nil, fmt.Errorf("get inventory line: %w", err)
	}
	return l, nil
}

// LockOrCreate inserta la fila con valores por defecto si no existe y la bloquea (SELECT FOR UPDATE).
// Sin el insert previo, dos transacciones podrían crear la misma línea destino y perder un incremento.
func (r *InventoryLineRepo) LockOrCreate(ctx context.Context, productID, warehouseID string) (*entity.InventoryLine, error) {
	if !validID(productID) || !validID(warehouseID) {
		return nil, domain.ErrNotFound
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_lines (product_id, warehouse_id, quantity, unit_price, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("upsert inventory line: %w", err)
	}
	l, err := scanLine(r.q.QueryRow(ctx, `
		SELECT `+lineColumns+` FROM inventory_lines
		WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`, productID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("lock inventory line: %w", err)
	}
	return l, nil
}

// Save persiste cantidad y precio.
func (r *InventoryLineRepo) Save(ctx context.Context, l *entity.InventoryLine) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory_lines SET quantity = $3, unit_price = $4, updated_at = $5
		WHERE product_id = $1 AND warehouse_id = $2`,
		l.ProductID, l.WarehouseID, l.Quantity, l.UnitPrice, l.UpdatedAt)
	if err != nil {
		return wrapWrite("save inventory line", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByWarehouse lista el stock de una bodega.
func (r *InventoryLineRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryLine, error) {
	if !validID(warehouseID) {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+lineColumns+` FROM inventory_lines
		WHERE warehouse_id = $1 ORDER BY product_id LIMIT $2 OFFSET $3`, warehouseID, limit, offset)
}

// ListByProduct lista el stock de un producto en todas las bodegas.
func (r *InventoryLineRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryLine, error) {
	if !validID(productID) {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+lineColumns+` FROM inventory_lines
		WHERE product_id = $1 ORDER BY warehouse_id`, productID)
}

func (r *InventoryLineRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryLine, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
