package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType clasifica un movimiento del kardex.
type OperationType string

// Tipos de operación del historial de stock.
const (
	OperationEntry       OperationType = "ENTRY"        // entrada manual / apertura
	OperationWithdrawal  OperationType = "WITHDRAWAL"   // salida manual
	OperationTransferIn  OperationType = "TRANSFER_IN"  // traslado, bodega destino
	OperationTransferOut OperationType = "TRANSFER_OUT" // traslado, bodega origen
	OperationReturnOut   OperationType = "RETURN_OUT"   // devolución a proveedor
)

var operationSigns = map[OperationType]int64{
	OperationEntry:       1,
	OperationTransferIn:  1,
	OperationWithdrawal:  -1,
	OperationTransferOut: -1,
	OperationReturnOut:   -1,
}

// Valid indica si el tipo pertenece al catálogo.
func (t OperationType) Valid() bool {
	_, ok := operationSigns[t]
	return ok
}

// Sign devuelve +1 si la operación aumenta el stock y -1 si lo disminuye.
func (t OperationType) Sign() decimal.Decimal {
	return decimal.NewFromInt(operationSigns[t])
}

// StockHistoryEntry es un registro inmutable del kardex por producto+bodega.
// CurrentStock es la foto del stock después de aplicar el movimiento.
type StockHistoryEntry struct {
	ID           string
	Sequence     int64 // orden total de inserción
	ProductID    string
	WarehouseID  string
	Operation    OperationType
	OperationID  string          // traslado, devolución o ajuste que lo causó
	Quantity     decimal.Decimal // magnitud, siempre positiva
	CurrentStock decimal.Decimal
	CreatedAt    time.Time
	CreatedBy    string
}

// Delta devuelve la variación con signo que aporta la entrada.
func (e *StockHistoryEntry) Delta() decimal.Decimal {
	return e.Quantity.Mul(e.Operation.Sign())
}
