package cash_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/cash"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeRenderer struct {
	report *dto.CashReportResponse
	txs    []dto.CashTransactionResponse
	err    error
}

func (r *fakeRenderer) RenderCashReport(_ context.Context, report *dto.CashReportResponse, txs []dto.CashTransactionResponse) ([]byte, error) {
	r.report, r.txs = report, txs
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-fake"), nil
}

func newUseCase(t *testing.T, renderer cash.ReportPDFRenderer) (*cash.UseCase, *memory.Store) {
	t.Helper()
	mem := memory.NewStore()
	return cash.NewUseCase(mem, mem.Registers(), mem.CashTransactions(), renderer, logger.Nop()), mem
}

func open(t *testing.T, uc *cash.UseCase, initial string) string {
	t.Helper()
	reg, err := uc.Open(context.Background(), "cajero", dto.OpenRegisterRequest{Name: "Caja 1", InitialAmount: dec(initial)})
	require.NoError(t, err)
	return reg.ID
}

func add(t *testing.T, uc *cash.UseCase, registerID, txType, amount string) *dto.CashTransactionMutationResponse {
	t.Helper()
	res, err := uc.CreateTransaction(context.Background(), registerID, "cajero", dto.CreateCashTransactionRequest{
		Type: txType, Amount: dec(amount),
	})
	require.NoError(t, err)
	return res
}

func TestCashFlow_VentaYDevolucion(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "100")

	res := add(t, uc, id, "SALE", "50")
	assert.True(t, res.CurrentAmount.Equal(dec("150")))
	assert.Equal(t, "CASH", res.Transaction.PaymentMethod)
	assert.True(t, res.Transaction.SignedAmount.Equal(dec("50")))

	res = add(t, uc, id, "REFUND", "20")
	assert.True(t, res.CurrentAmount.Equal(dec("130")))
	assert.True(t, res.Transaction.SignedAmount.Equal(dec("-20")))

	report, err := uc.Report(ctx, id, nil, nil)
	require.NoError(t, err)
	assert.True(t, report.OpeningBalance.Equal(dec("100")))
	assert.True(t, report.TotalSales.Equal(dec("50")))
	assert.True(t, report.TotalRefunds.Equal(dec("20")))
	assert.True(t, report.Net.Equal(dec("30")))
	assert.True(t, report.ClosingBalance.Equal(dec("130")))
	assert.True(t, report.ByPaymentMethod["CASH"].Equal(dec("30")))
	assert.Equal(t, 2, report.TransactionCount)

	check, err := uc.VerifyBalance(ctx, id)
	require.NoError(t, err)
	assert.True(t, check.Balanced)
	assert.True(t, check.Expected.Equal(dec("130")))
}

func TestOpen_SoloUnaCajaAbierta(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "0")

	_, err := uc.Open(ctx, "otro", dto.OpenRegisterRequest{Name: "Caja 2", InitialAmount: dec("10")})
	require.ErrorIs(t, err, domain.ErrRegisterAlreadyOpen)

	current, err := uc.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, current.ID)

	_, err = uc.Close(ctx, id, "cajero", dto.CloseRegisterRequest{})
	require.NoError(t, err)

	_, err = uc.GetCurrent(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Open(ctx, "otro", dto.OpenRegisterRequest{Name: "Caja 2", InitialAmount: dec("10")})
	assert.NoError(t, err)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestOpen_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()

	_, err := uc.Open(ctx, "u", dto.OpenRegisterRequest{InitialAmount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Open(ctx, "u", dto.OpenRegisterRequest{Name: "Caja", InitialAmount: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClose_ArqueoYTerminal(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "100")
	add(t, uc, id, "SALE", "25")

	counted := dec("120")
	reg, err := uc.Close(ctx, id, "cajero", dto.CloseRegisterRequest{CountedAmount: &counted, Notes: "faltante"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RegisterClosed), reg.Status)
	require.NotNil(t, reg.Difference)
	assert.True(t, reg.Difference.Equal(dec("-5")))
	require.NotNil(t, reg.ClosedAt)

	_, err = uc.Close(ctx, id, "cajero", dto.CloseRegisterRequest{})
	assert.ErrorIs(t, err, domain.ErrRegisterNotOpen)

	_, err = uc.CreateTransaction(ctx, id, "cajero", dto.CreateCashTransactionRequest{Type: "SALE", Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrRegisterNotOpen)
}

func TestCreateTransaction_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "10")

	cases := map[string]struct {
		req  dto.CreateCashTransactionRequest
		want error
	}{
		"tipo desconocido": {dto.CreateCashTransactionRequest{Type: "GIFT", Amount: dec("1")}, domain.ErrInvalidInput},
		"monto cero":       {dto.CreateCashTransactionRequest{Type: "SALE", Amount: dec("0")}, domain.ErrInvalidInput},
		"monto negativo":   {dto.CreateCashTransactionRequest{Type: "DEPOSIT", Amount: dec("-3")}, domain.ErrInvalidInput},
		"ajuste en cero":   {dto.CreateCashTransactionRequest{Type: "ADJUSTMENT", Amount: dec("0")}, domain.ErrInvalidInput},
		"medio inválido":   {dto.CreateCashTransactionRequest{Type: "SALE", Amount: dec("1"), PaymentMethod: "BITCOIN"}, domain.ErrInvalidInput},
		"saldo negativo":   {dto.CreateCashTransactionRequest{Type: "WITHDRAWAL", Amount: dec("11")}, domain.ErrNegativeBalance},
		"ajuste negativo":  {dto.CreateCashTransactionRequest{Type: "ADJUSTMENT", Amount: dec("-11")}, domain.ErrNegativeBalance},
		"tres decimales":   {dto.CreateCashTransactionRequest{Type: "SALE", Amount: dec("0.004")}, domain.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CreateTransaction(ctx, id, "cajero", tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := uc.CreateTransaction(ctx, "nope", "cajero", dto.CreateCashTransactionRequest{Type: "SALE", Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	reg, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, reg.CurrentAmount.Equal(dec("10")), "ningún rechazo debe mover el saldo")
}

func TestCreateTransaction_AjusteNegativoPermitido(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	id := open(t, uc, "10")

	res := add(t, uc, id, "ADJUSTMENT", "-4")
	assert.True(t, res.CurrentAmount.Equal(dec("6")))
	res = add(t, uc, id, "WITHDRAWAL", "6")
	assert.True(t, res.CurrentAmount.IsZero())
}

func TestUpdateTransaction_AplicaDiferencia(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "100")
	sale := add(t, uc, id, "SALE", "50")

	amount := dec("80")
	res, err := uc.UpdateTransaction(ctx, sale.Transaction.ID, "supervisor", dto.UpdateCashTransactionRequest{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, res.CurrentAmount.Equal(dec("180")))
	assert.Equal(t, "supervisor", res.Transaction.UpdatedBy)

	// cambiar el tipo invierte el signo: +80 -> -80
	refund := "REFUND"
	res, err = uc.UpdateTransaction(ctx, sale.Transaction.ID, "supervisor", dto.UpdateCashTransactionRequest{Type: &refund})
	require.NoError(t, err)
	assert.True(t, res.CurrentAmount.Equal(dec("20")))

	card := "CARD"
	res, err = uc.UpdateTransaction(ctx, sale.Transaction.ID, "supervisor", dto.UpdateCashTransactionRequest{PaymentMethod: &card})
	require.NoError(t, err)
	assert.Equal(t, "CARD", res.Transaction.PaymentMethod)
	assert.True(t, res.CurrentAmount.Equal(dec("20")))

	check, err := uc.VerifyBalance(ctx, id)
	require.NoError(t, err)
	assert.True(t, check.Balanced)
}

func TestUpdateTransaction_RechazaSaldoNegativo(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "10")
	w := add(t, uc, id, "WITHDRAWAL", "5")

	amount := dec("11")
	_, err := uc.UpdateTransaction(ctx, w.Transaction.ID, "u", dto.UpdateCashTransactionRequest{Amount: &amount})
	require.ErrorIs(t, err, domain.ErrNegativeBalance)

	reg, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, reg.CurrentAmount.Equal(dec("5")))
}

func TestRemoveTransaction_RevierteAporte(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "100")
	sale := add(t, uc, id, "SALE", "50")
	add(t, uc, id, "REFUND", "20")

	res, err := uc.RemoveTransaction(ctx, sale.Transaction.ID, "supervisor")
	require.NoError(t, err)
	assert.True(t, res.CurrentAmount.Equal(dec("80")))

	_, err = uc.RemoveTransaction(ctx, sale.Transaction.ID, "supervisor")
	assert.ErrorIs(t, err, domain.ErrTransactionDeleted)

	amount := dec("1")
	_, err = uc.UpdateTransaction(ctx, sale.Transaction.ID, "supervisor", dto.UpdateCashTransactionRequest{Amount: &amount})
	assert.ErrorIs(t, err, domain.ErrTransactionDeleted)

	list, err := uc.ListTransactions(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "REFUND", list[0].Type)

	check, err := uc.VerifyBalance(ctx, id)
	require.NoError(t, err)
	assert.True(t, check.Balanced)

	_, err = uc.RemoveTransaction(ctx, "nope", "supervisor")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveTransaction_CajaCerrada(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "100")
	sale := add(t, uc, id, "SALE", "50")
	_, err := uc.Close(ctx, id, "cajero", dto.CloseRegisterRequest{})
	require.NoError(t, err)

	_, err = uc.RemoveTransaction(ctx, sale.Transaction.ID, "supervisor")
	assert.ErrorIs(t, err, domain.ErrRegisterNotOpen)
}

func TestVerifyBalance_DetectaDescuadre(t *testing.T) {
	uc, mem := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "100")
	add(t, uc, id, "SALE", "10")

	// escritura directa sobre el saldo, sin transacción de caja
	reg, err := mem.Registers().GetByID(ctx, id)
	require.NoError(t, err)
	reg.CurrentAmount = dec("999")
	require.NoError(t, mem.Registers().Update(ctx, reg))

	check, err := uc.VerifyBalance(ctx, id)
	require.NoError(t, err)
	assert.False(t, check.Balanced)
	assert.True(t, check.Expected.Equal(dec("110")))
}

func TestReport_RangoDeFechas(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	id := open(t, uc, "100")
	add(t, uc, id, "SALE", "40")

	time.Sleep(5 * time.Millisecond)
	from := time.Now()
	time.Sleep(5 * time.Millisecond)

	add(t, uc, id, "DEPOSIT", "10")
	res, err := uc.CreateTransaction(ctx, id, "cajero", dto.CreateCashTransactionRequest{
		Type: "WITHDRAWAL", Amount: dec("5"), PaymentMethod: "TRANSFER",
	})
	require.NoError(t, err)
	assert.True(t, res.CurrentAmount.Equal(dec("145")))

	report, err := uc.Report(ctx, id, &from, nil)
	require.NoError(t, err)
	assert.True(t, report.OpeningBalance.Equal(dec("140")))
	assert.True(t, report.TotalSales.IsZero())
	assert.True(t, report.TotalDeposits.Equal(dec("10")))
	assert.True(t, report.TotalWithdrawals.Equal(dec("5")))
	assert.True(t, report.Net.Equal(dec("5")))
	assert.True(t, report.ClosingBalance.Equal(dec("145")))
	assert.True(t, report.ByPaymentMethod["TRANSFER"].Equal(dec("-5")))
	assert.Equal(t, 2, report.TransactionCount)

	to := from
	report, err = uc.Report(ctx, id, nil, &to)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TransactionCount)
	assert.True(t, report.ClosingBalance.Equal(dec("140")))

	before := from.Add(-time.Hour)
	_, err = uc.Report(ctx, id, &from, &before)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Report(ctx, "nope", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportPDF(t *testing.T) {
	renderer := &fakeRenderer{}
	uc, _ := newUseCase(t, renderer)
	ctx := context.Background()
	id := open(t, uc, "100")
	add(t, uc, id, "SALE", "50")

	out, name, err := uc.ReportPDF(ctx, id, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.Equal(t, "reporte-caja-"+id+".pdf", name)
	require.NotNil(t, renderer.report)
	assert.True(t, renderer.report.ClosingBalance.Equal(dec("150")))
	assert.Len(t, renderer.txs, 1)

	renderer.err = errors.New("fuente no disponible")
	_, _, err = uc.ReportPDF(ctx, id, nil, nil)
	assert.Error(t, err)

	sinPDF, _ := newUseCase(t, nil)
	_, _, err = sinPDF.ReportPDF(ctx, id, nil, nil)
	assert.Error(t, err)
}
