package entity

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionType clasifica una transacción de caja.
type TransactionType string

// Tipos de transacción de caja.
const (
	TransactionSale       TransactionType = "SALE"
	TransactionRefund     TransactionType = "REFUND"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionDeposit    TransactionType = "DEPOSIT"
)

// TransactionTypes en el orden en que se reportan.
var TransactionTypes = []TransactionType{
	TransactionSale, TransactionRefund, TransactionAdjustment, TransactionWithdrawal, TransactionDeposit,
}

// Valid indica si el tipo pertenece al catálogo.
func (t TransactionType) Valid() bool {
	for _, v := range TransactionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Signed aplica la regla de signo sobre el monto.
// ADJUSTMENT suma el monto tal cual: el llamador define el signo.
func (t TransactionType) Signed(amount decimal.Decimal) decimal.Decimal {
	switch t {
	case TransactionRefund, TransactionWithdrawal:
		return amount.Neg()
	default:
		return amount
	}
}

// ValidateAmount exige monto > 0, salvo ADJUSTMENT que admite negativos (pero no cero).
func (t TransactionType) ValidateAmount(amount decimal.Decimal) error {
	if !t.Valid() || !FitsScale(amount, MoneyScale) {
		return domain.ErrInvalidInput
	}
	if t == TransactionAdjustment {
		if amount.IsZero() {
			return domain.ErrInvalidInput
		}
		return nil
	}
	if !amount.IsPositive() {
		return domain.ErrInvalidInput
	}
	return nil
}

// PaymentMethod medio de pago de una transacción.
type PaymentMethod string

// Medios de pago.
const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentOther    PaymentMethod = "OTHER"
)

// Valid indica si el medio de pago es conocido.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentOther:
		return true
	}
	return false
}

// CashTransaction es un movimiento de dinero sobre una caja.
// Nunca se borra físicamente: la eliminación marca DeletedAt.
type CashTransaction struct {
	ID            string
	RegisterID    string
	Type          TransactionType
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	SaleReference *string
	Description   string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedBy     string
	UpdatedAt     time.Time
	DeletedBy     string
	DeletedAt     *time.Time
}

// SignedAmount devuelve el aporte de la transacción al saldo de la caja.
func (t *CashTransaction) SignedAmount() decimal.Decimal {
	if t.IsDeleted() {
		return decimal.Zero
	}
	return t.Type.Signed(t.Amount)
}

// IsDeleted indica si la transacción fue eliminada.
func (t *CashTransaction) IsDeleted() bool {
	return t.DeletedAt != nil
}
