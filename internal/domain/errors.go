package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Categorías de error de dominio (sin dependencias de infraestructura).
// La capa HTTP las traduce a códigos de estado con errors.Is.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// Errores específicos. Todos envuelven una categoría.
var (
	ErrDuplicate            = fmt.Errorf("%w: recurso duplicado", ErrConflict)
	ErrInsufficientStock    = fmt.Errorf("%w: stock insuficiente", ErrInvalidInput)
	ErrSameWarehouse        = fmt.Errorf("%w: bodega origen y destino son la misma", ErrInvalidInput)
	ErrWarehouseUnavailable = fmt.Errorf("%w: bodega inexistente o cerrada", ErrInvalidInput)
	ErrProviderUnavailable  = fmt.Errorf("%w: proveedor inexistente o inactivo", ErrInvalidInput)
	ErrDocumentNotDraft     = fmt.Errorf("%w: el documento ya no está en borrador", ErrInvalidInput)
	ErrEmptyDocument        = fmt.Errorf("%w: el documento no tiene líneas", ErrInvalidInput)
	ErrInvalidTransition    = fmt.Errorf("%w: transición de estado no permitida", ErrInvalidInput)
	ErrRegisterNotOpen      = fmt.Errorf("%w: la caja no está abierta", ErrInvalidInput)
	ErrRegisterAlreadyOpen  = fmt.Errorf("%w: ya existe una caja abierta", ErrInvalidInput)
	ErrNegativeBalance      = fmt.Errorf("%w: el saldo de caja quedaría negativo", ErrInvalidInput)
	ErrTransactionDeleted   = fmt.Errorf("%w: la transacción fue eliminada", ErrInvalidInput)
)

// InsufficientStockError detalla un faltante de stock para una línea de inventario.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: producto %s en bodega %s (disponible %s, solicitado %s)",
		e.ProductID, e.WarehouseID, e.Available.String(), e.Requested.String())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock) y errors.Is(err, ErrInvalidInput).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
