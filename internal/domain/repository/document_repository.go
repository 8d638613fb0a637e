package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// DocumentFilter filtros de listado para traslados y devoluciones.
type DocumentFilter struct {
	Status      entity.DocumentStatus // vacío = todos
	WarehouseID string                // bodega origen (o destino en traslados)
	Limit       int
	Offset      int
}

// TransferRepository define el puerto de persistencia para traslados (cabecera + líneas).
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// GetForUpdate bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	// Update persiste cabecera y reemplaza el conjunto de líneas.
	Update(ctx context.Context, transfer *entity.Transfer) error
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Transfer, error)
}

// ProviderReturnRepository define el puerto de persistencia para devoluciones a proveedor.
type ProviderReturnRepository interface {
	Create(ctx context.Context, ret *entity.ProviderReturn) error
	GetByID(ctx context.Context, id string) (*entity.ProviderReturn, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ProviderReturn, error)
	Update(ctx context.Context, ret *entity.ProviderReturn) error
	List(ctx context.Context, filter DocumentFilter) ([]*entity.ProviderReturn, error)
}
