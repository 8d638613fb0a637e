// Package pdf genera la versión imprimible del reporte de caja.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de caja + estado  │  Rango + fecha emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDOS: Apertura / Neto / Cierre                            │
//	│  TOTALES POR TIPO │ TOTALES POR MEDIO DE PAGO                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Medio | Descripción | Monto           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/cash"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

var _ cash.ReportPDFRenderer = (*CashReportPDF)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// CashReportPDF implementa cash.ReportPDFRenderer con Maroto v2.
type CashReportPDF struct{}

// NewCashReportPDF construye el renderer.
func NewCashReportPDF() *CashReportPDF { return &CashReportPDF{} }

// RenderCashReport genera el PDF del reporte y devuelve sus bytes.
func (g *CashReportPDF) RenderCashReport(
	ctx context.Context,
	report *dto.CashReportResponse,
	transactions []dto.CashTransactionResponse,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de caja", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(balancesRow(report))
	m.AddRows(totalsRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(transactions)...)
	if len(transactions) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin transacciones en el rango.", props.Text{Size: 8, Color: colorGray, Top: 2, Align: align.Center}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.CashReportResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.RegisterName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Estado: "+r.Status+"   |   Transacciones: "+fmt.Sprint(r.TransactionCount),
				props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("REPORTE DE CAJA", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(formatRange(r.From, r.To), props.Text{Size: 8, Align: align.Right, Top: 7}),
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"),
				props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func balancesRow(r *dto.CashReportResponse) core.Row {
	cell := func(label string, v decimal.Decimal) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Center}),
			text.New(formatMoney(v), props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center, Color: amountColor(v)}),
		)
	}
	return row.New(15).Add(
		cell("SALDO APERTURA", r.OpeningBalance),
		cell("NETO", r.Net),
		cell("SALDO CIERRE", r.ClosingBalance),
	)
}

func totalsRow(r *dto.CashReportResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Size: 8, Align: align.Left, Left: 2})
	}
	types := []string{"Ventas", "Devoluciones", "Ajustes", "Retiros", "Depósitos"}
	values := []decimal.Decimal{r.TotalSales, r.TotalRefunds, r.TotalAdjustments, r.TotalWithdrawals, r.TotalDeposits}

	left := col.New(6).Add(text.New("TOTALES POR TIPO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Left: 2}))
	for i := range types {
		left.Add(label(fmt.Sprintf("%s: %s", types[i], formatMoney(values[i]))))
	}

	methods := make([]string, 0, len(r.ByPaymentMethod))
	for m := range r.ByPaymentMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	right := col.New(6).Add(text.New("POR MEDIO DE PAGO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Left: 2}))
	for _, m := range methods {
		right.Add(label(fmt.Sprintf("%s: %s", m, formatMoney(r.ByPaymentMethod[m]))))
	}
	return row.New(30).Add(left, right)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Medio", 2, align.Left),
		h("Descripción", 3, align.Left),
		h("Monto", 3, align.Right),
	)
}

func tableRows(txs []dto.CashTransactionResponse) []core.Row {
	out := make([]core.Row, 0, len(txs))
	for _, t := range txs {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		out = append(out, row.New(6).Add(
			cell(t.CreatedAt.Format("02/01 15:04"), 2, align.Left),
			cell(t.Type, 2, align.Left),
			cell(t.PaymentMethod, 2, align.Left),
			cell(t.Description, 3, align.Left),
			col.New(3).Add(text.New(formatMoney(t.SignedAmount), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: amountColor(t.SignedAmount),
			})),
		))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func amountColor(v decimal.Decimal) *props.Color {
	if v.IsNegative() {
		return colorRed
	}
	return nil
}

func formatRange(from, to *time.Time) string {
	const layout = "02/01/2006 15:04"
	switch {
	case from == nil && to == nil:
		return "Rango: todo el historial"
	case from == nil:
		return "Hasta " + to.Format(layout)
	case to == nil:
		return "Desde " + from.Format(layout)
	default:
		return from.Format(layout) + " - " + to.Format(layout)
	}
}

// formatMoney formatea con separador de miles y dos decimales.
// Ej: 1234567.5 → "$1.234.567,50", -20 → "-$20,00"
func formatMoney(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	parts := strings.SplitN(v.StringFixed(2), ".", 2)
	intPart := parts[0]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "," + parts[1]
}
