package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
)

func TestCashReportPDF_GeneraDocumento(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	report := &dto.CashReportResponse{
		RegisterID:     "r-1",
		RegisterName:   "Caja principal",
		Status:         "OPEN",
		OpeningBalance: decimal.NewFromInt(100),
		TotalSales:     decimal.NewFromInt(50),
		TotalRefunds:   decimal.NewFromInt(20),
		ByPaymentMethod: map[string]decimal.Decimal{
			"CASH": decimal.NewFromInt(30),
		},
		Net:              decimal.NewFromInt(30),
		ClosingBalance:   decimal.NewFromInt(130),
		TransactionCount: 2,
		GeneratedAt:      now,
	}
	txs := []dto.CashTransactionResponse{
		{Type: "SALE", Amount: decimal.NewFromInt(50), SignedAmount: decimal.NewFromInt(50), PaymentMethod: "CASH", CreatedAt: now},
		{Type: "REFUND", Amount: decimal.NewFromInt(20), SignedAmount: decimal.NewFromInt(-20), PaymentMethod: "CASH", CreatedAt: now},
	}

	out, err := pdf.NewCashReportPDF().RenderCashReport(context.Background(), report, txs)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestCashReportPDF_SinTransacciones(t *testing.T) {
	report := &dto.CashReportResponse{RegisterName: "Caja", Status: "CLOSED", GeneratedAt: time.Now()}
	out, err := pdf.NewCashReportPDF().RenderCashReport(context.Background(), report, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestCashReportPDF_ReporteNil(t *testing.T) {
	_, err := pdf.NewCashReportPDF().RenderCashReport(context.Background(), nil, nil)
	assert.Error(t, err)
}
