package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CashRegisterRepository define el puerto de persistencia para cajas.
type CashRegisterRepository interface {
	// LockOpening serializa las aperturas de caja dentro de la transacción actual.
	LockOpening(ctx context.Context) error
	Create(ctx context.Context, register *entity.CashRegister) error
	GetByID(ctx context.Context, id string) (*entity.CashRegister, error)
	// GetForUpdate bloquea la fila de la caja (saldo) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.CashRegister, error)
	// GetOpen devuelve la caja abierta o nil.
	GetOpen(ctx context.Context) (*entity.CashRegister, error)
	Update(ctx context.Context, register *entity.CashRegister) error
	List(ctx context.Context, limit, offset int) ([]*entity.CashRegister, error)
}

// CashTransactionFilter filtros para listar transacciones de una caja.
type CashTransactionFilter struct {
	RegisterID     string
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
}

// CashTransactionRepository define el puerto de persistencia para transacciones de caja.
// No existe borrado físico: Update marca DeletedAt.
type CashTransactionRepository interface {
	Create(ctx context.Context, tx *entity.CashTransaction) error
	GetByID(ctx context.Context, id string) (*entity.CashTransaction, error)
	// GetForUpdate lee la fila con bloqueo exclusivo hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.CashTransaction, error)
	Update(ctx context.Context, tx *entity.CashTransaction) error
	// List devuelve las transacciones en orden cronológico.
	List(ctx context.Context, filter CashTransactionFilter) ([]*entity.CashTransaction, error)
}
