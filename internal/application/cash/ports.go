package cash

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios de caja atados a ella.
type TxRunner interface {
	RunCash(ctx context.Context, fn func(tx repository.CashTx) error) error
}

// ReportPDFRenderer genera la representación imprimible del reporte de caja.
type ReportPDFRenderer interface {
	RenderCashReport(ctx context.Context, report *dto.CashReportResponse, transactions []dto.CashTransactionResponse) ([]byte, error)
}
