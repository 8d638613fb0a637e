package entity

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// RegisterStatus es el estado de una caja.
type RegisterStatus string

// Estados de caja. registerPending es el estado implícito previo a la apertura
// (cerrada, nunca abierta); no se persiste.
const (
	registerPending RegisterStatus = ""
	RegisterOpen    RegisterStatus = "OPEN"
	RegisterClosed  RegisterStatus = "CLOSED"
)

// Una caja cerrada no se reabre.
var registerTransitions = map[RegisterStatus][]RegisterStatus{
	registerPending: {RegisterOpen},
	RegisterOpen:    {RegisterClosed},
}

// CanTransition indica si el paso from -> to está permitido.
func (s RegisterStatus) CanTransition(to RegisterStatus) bool {
	for _, allowed := range registerTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CashRegister es una caja con saldo corriente. Invariante:
// CurrentAmount == InitialAmount + Σ signed(transacciones no eliminadas).
type CashRegister struct {
	ID            string
	Name          string
	Status        RegisterStatus
	InitialAmount decimal.Decimal
	CurrentAmount decimal.Decimal
	CountedAmount *decimal.Decimal // declarado en el arqueo de cierre
	Difference    *decimal.Decimal // CountedAmount - CurrentAmount
	Notes         string
	OpenedBy      string
	OpenedAt      *time.Time
	ClosedBy      string
	ClosedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOpen indica si la caja admite transacciones.
func (r *CashRegister) IsOpen() bool {
	return r != nil && r.Status == RegisterOpen
}

// Open abre la caja con el monto inicial.
func (r *CashRegister) Open(initialAmount decimal.Decimal, actor string, now time.Time) error {
	if initialAmount.IsNegative() || !FitsScale(initialAmount, MoneyScale) {
		return domain.ErrInvalidInput
	}
	if !r.Status.CanTransition(RegisterOpen) {
		return domain.ErrInvalidTransition
	}
	r.Status = RegisterOpen
	r.InitialAmount = initialAmount
	r.CurrentAmount = initialAmount
	r.OpenedBy = actor
	r.OpenedAt = &now
	r.UpdatedAt = now
	return nil
}

// Close cierra la caja de forma definitiva. Si se declara el monto contado se guarda la diferencia.
func (r *CashRegister) Close(counted *decimal.Decimal, notes, actor string, now time.Time) error {
	if !r.IsOpen() {
		return domain.ErrRegisterNotOpen
	}
	if !r.Status.CanTransition(RegisterClosed) {
		return domain.ErrInvalidTransition
	}
	if counted != nil {
		if counted.IsNegative() || !FitsScale(*counted, MoneyScale) {
			return domain.ErrInvalidInput
		}
		c := *counted
		diff := c.Sub(r.CurrentAmount)
		r.CountedAmount = &c
		r.Difference = &diff
	}
	r.Status = RegisterClosed
	r.Notes = notes
	r.ClosedBy = actor
	r.ClosedAt = &now
	r.UpdatedAt = now
	return nil
}

// Apply suma delta al saldo corriente. La caja debe estar abierta y el saldo no puede quedar negativo.
func (r *CashRegister) Apply(delta decimal.Decimal, now time.Time) error {
	if !r.IsOpen() {
		return domain.ErrRegisterNotOpen
	}
	next := r.CurrentAmount.Add(delta)
	if next.IsNegative() {
		return domain.ErrNegativeBalance
	}
	r.CurrentAmount = next
	r.UpdatedAt = now
	return nil
}
