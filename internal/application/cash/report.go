package cash

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Report resume una caja en el rango [from, to]. Sin límites si from/to son nil.
//
//	opening_balance = initial + Σ firmado antes de from
//	net             = Σ firmado dentro del rango
//	closing_balance = opening_balance + net
func (uc *UseCase) Report(ctx context.Context, registerID string, from, to *time.Time) (*dto.CashReportResponse, error) {
	report, _, err := uc.buildReport(ctx, registerID, from, to)
	return report, err
}

// ReportPDF genera el reporte en PDF. Devuelve los bytes y un nombre de archivo sugerido.
func (uc *UseCase) ReportPDF(ctx context.Context, registerID string, from, to *time.Time) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("caja: generador de PDF no configurado")
	}
	report, inRange, err := uc.buildReport(ctx, registerID, from, to)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.renderer.RenderCashReport(ctx, report, toTransactionResponses(inRange))
	if err != nil {
		return nil, "", fmt.Errorf("caja: generar PDF: %w", err)
	}
	return pdf, fmt.Sprintf("reporte-caja-%s.pdf", registerID), nil
}

func (uc *UseCase) buildReport(ctx context.Context, registerID string, from, to *time.Time) (*dto.CashReportResponse, []*entity.CashTransaction, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	reg, err := uc.getRegister(ctx, registerID)
	if err != nil {
		return nil, nil, err
	}
	list, err := uc.transactions.List(ctx, repository.CashTransactionFilter{RegisterID: registerID})
	if err != nil {
		return nil, nil, err
	}

	totals := make(map[entity.TransactionType]decimal.Decimal, len(entity.TransactionTypes))
	for _, t := range entity.TransactionTypes {
		totals[t] = decimal.Zero
	}
	byMethod := map[string]decimal.Decimal{}
	opening := reg.InitialAmount
	net := decimal.Zero
	inRange := make([]*entity.CashTransaction, 0, len(list))

	for _, t := range list {
		if t.IsDeleted() {
			continue
		}
		if from != nil && t.CreatedAt.Before(*from) {
			opening = opening.Add(t.SignedAmount())
			continue
		}
		if to != nil && t.CreatedAt.After(*to) {
			continue
		}
		inRange = append(inRange, t)
		totals[t.Type] = totals[t.Type].Add(t.Amount.Abs())
		signed := t.SignedAmount()
		net = net.Add(signed)
		method := string(t.PaymentMethod)
		byMethod[method] = byMethod[method].Add(signed)
	}

	return &dto.CashReportResponse{
		RegisterID:       reg.ID,
		RegisterName:     reg.Name,
		Status:           string(reg.Status),
		From:             from,
		To:               to,
		OpeningBalance:   opening,
		TotalSales:       totals[entity.TransactionSale],
		TotalRefunds:     totals[entity.TransactionRefund],
		TotalAdjustments: totals[entity.TransactionAdjustment],
		TotalWithdrawals: totals[entity.TransactionWithdrawal],
		TotalDeposits:    totals[entity.TransactionDeposit],
		ByPaymentMethod:  byMethod,
		Net:              net,
		ClosingBalance:   opening.Add(net),
		TransactionCount: len(inRange),
		GeneratedAt:      time.Now(),
	}, inRange, nil
}
