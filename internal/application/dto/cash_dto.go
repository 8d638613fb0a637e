package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenRegisterRequest apertura de caja.
type OpenRegisterRequest struct {
	Name          string          `json:"name"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

// CloseRegisterRequest cierre de caja. CountedAmount es el arqueo declarado (opcional).
type CloseRegisterRequest struct {
	CountedAmount *decimal.Decimal `json:"counted_amount,omitempty"`
	Notes         string           `json:"notes"`
}

// CashRegisterResponse salida de una caja.
type CashRegisterResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Status        string           `json:"status"`
	InitialAmount decimal.Decimal  `json:"initial_amount"`
	CurrentAmount decimal.Decimal  `json:"current_amount"`
	CountedAmount *decimal.Decimal `json:"counted_amount,omitempty"`
	Difference    *decimal.Decimal `json:"difference,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	OpenedBy      string           `json:"opened_by"`
	OpenedAt      *time.Time       `json:"opened_at,omitempty"`
	ClosedBy      string           `json:"closed_by,omitempty"`
	ClosedAt      *time.Time       `json:"closed_at,omitempty"`
}

// CashRegisterListResponse lista paginada de cajas.
type CashRegisterListResponse struct {
	Items []CashRegisterResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// CreateCashTransactionRequest nueva transacción de caja.
type CreateCashTransactionRequest struct {
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	SaleReference *string         `json:"sale_reference,omitempty"`
	Description   string          `json:"description"`
}

// UpdateCashTransactionRequest cambios parciales sobre una transacción.
type UpdateCashTransactionRequest struct {
	Type          *string          `json:"type,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	SaleReference *string          `json:"sale_reference,omitempty"`
	Description   *string          `json:"description,omitempty"`
}

// CashTransactionResponse salida de una transacción de caja.
type CashTransactionResponse struct {
	ID            string          `json:"id"`
	RegisterID    string          `json:"register_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	SignedAmount  decimal.Decimal `json:"signed_amount"`
	PaymentMethod string          `json:"payment_method"`
	SaleReference *string         `json:"sale_reference,omitempty"`
	Description   string          `json:"description"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedBy     string          `json:"updated_by,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CashTransactionMutationResponse transacción afectada y saldo resultante de la caja.
type CashTransactionMutationResponse struct {
	Transaction   CashTransactionResponse `json:"transaction"`
	CurrentAmount decimal.Decimal         `json:"current_amount"`
}

// CashReportRequest rango del reporte (query string). Vacío = sin límite.
type CashReportRequest struct {
	From *time.Time `query:"from"`
	To   *time.Time `query:"to"`
}

// CashReportResponse resumen de una caja en un rango de fechas.
// Los totales por tipo son magnitudes; Net y los saldos usan el signo de cada tipo.
type CashReportResponse struct {
	RegisterID       string                     `json:"register_id"`
	RegisterName     string                     `json:"register_name"`
	Status           string                     `json:"status"`
	From             *time.Time                 `json:"from,omitempty"`
	To               *time.Time                 `json:"to,omitempty"`
	OpeningBalance   decimal.Decimal            `json:"opening_balance"`
	TotalSales       decimal.Decimal            `json:"total_sales"`
	TotalRefunds     decimal.Decimal            `json:"total_refunds"`
	TotalAdjustments decimal.Decimal            `json:"total_adjustments"`
	TotalWithdrawals decimal.Decimal            `json:"total_withdrawals"`
	TotalDeposits    decimal.Decimal            `json:"total_deposits"`
	ByPaymentMethod  map[string]decimal.Decimal `json:"by_payment_method"`
	Net              decimal.Decimal            `json:"net"`
	ClosingBalance   decimal.Decimal            `json:"closing_balance"`
	TransactionCount int                        `json:"transaction_count"`
	GeneratedAt      time.Time                  `json:"generated_at"`
}

// BalanceCheckResponse verificación initial + Σ firmado == current.
type BalanceCheckResponse struct {
	RegisterID    string          `json:"register_id"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Expected      decimal.Decimal `json:"expected"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Balanced      bool            `json:"balanced"`
}
