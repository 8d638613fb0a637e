package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace rollback de todas las escrituras; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.InventoryTx) error) error
}
