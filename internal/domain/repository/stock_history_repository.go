package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockHistoryRepository define el puerto del kardex. Solo inserta: no hay Update ni Delete.
type StockHistoryRepository interface {
	Append(ctx context.Context, entry *entity.StockHistoryEntry) error
	// Last devuelve la entrada más reciente del par, o nil si no hay historial.
	Last(ctx context.Context, productID, warehouseID string) (*entity.StockHistoryEntry, error)
	// ListByPair devuelve el historial del par en orden de inserción.
	ListByPair(ctx context.Context, productID, warehouseID string) ([]*entity.StockHistoryEntry, error)
	ListByOperation(ctx context.Context, operationID string) ([]*entity.StockHistoryEntry, error)
}
