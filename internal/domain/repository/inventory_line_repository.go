package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryLineRepository define el puerto para consultar/actualizar stock por producto+bodega.
// Las escrituras se usan dentro de transacciones para garantizar consistencia.
type InventoryLineRepository interface {
	// Get devuelve la línea o una línea en cero si el par aún no existe.
	Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryLine, error)
	// LockOrCreate asegura que la fila exista (upsert con valores por defecto) y la bloquea
	// hasta el fin de la transacción (SELECT FOR UPDATE).
	LockOrCreate(ctx context.Context, productID, warehouseID string) (*entity.InventoryLine, error)
	// Save persiste cantidad y precio de una línea previamente bloqueada.
	Save(ctx context.Context, line *entity.InventoryLine) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryLine, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryLine, error)
}
