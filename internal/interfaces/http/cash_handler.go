package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/cash"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// CashHandler maneja cajas y sus transacciones (protegido).
type CashHandler struct {
	uc *cash.UseCase
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *cash.UseCase) *CashHandler {
	return &CashHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir caja
// @Description  Solo puede existir una caja abierta a la vez.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenRegisterRequest  true  "Nombre y monto inicial"
// @Success      201   {object}  dto.CashRegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash/registers [post]
func (h *CashHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Open(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Current godoc
// @Summary      Caja abierta actual
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashRegisterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/registers/current [get]
func (h *CashHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.GetCurrent(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener caja
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.CashRegisterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/registers/{id} [get]
func (h *CashHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar cajas
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.CashRegisterListResponse
// @Router       /api/cash/registers [get]
func (h *CashHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), page(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar caja
// @Description  counted_amount opcional; si viene se calcula la diferencia contra el saldo actual.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la caja"
// @Param        body  body  dto.CloseRegisterRequest  true  "Arqueo y notas"
// @Success      200   {object}  dto.CashRegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash/registers/{id}/close [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseRegisterRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Close(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateTransaction godoc
// @Summary      Registrar transacción de caja
// @Description  SALE y DEPOSIT suman; REFUND y WITHDRAWAL restan; ADJUSTMENT aplica el monto con su signo.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID de la caja"
// @Param        body  body  dto.CreateCashTransactionRequest  true  "Tipo, monto y medio de pago"
// @Success      201   {object}  dto.CashTransactionMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash/registers/{id}/transactions [post]
func (h *CashHandler) CreateTransaction(c *fiber.Ctx) error {
	var in dto.CreateCashTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateTransaction(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransactions godoc
// @Summary      Transacciones vigentes de una caja
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {array}  dto.CashTransactionResponse
// @Router       /api/cash/registers/{id}/transactions [get]
func (h *CashHandler) ListTransactions(c *fiber.Ctx) error {
	out, err := h.uc.ListTransactions(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateTransaction godoc
// @Summary      Modificar transacción de caja
// @Description  Ajusta el saldo de la caja por la diferencia entre el aporte nuevo y el anterior.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID de la transacción"
// @Param        body  body  dto.UpdateCashTransactionRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.CashTransactionMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cash/transactions/{id} [put]
func (h *CashHandler) UpdateTransaction(c *fiber.Ctx) error {
	var in dto.UpdateCashTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateTransaction(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveTransaction godoc
// @Summary      Anular transacción de caja
// @Description  Borrado lógico; revierte su aporte al saldo.
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.CashTransactionMutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/transactions/{id} [delete]
func (h *CashHandler) RemoveTransaction(c *fiber.Ctx) error {
	out, err := h.uc.RemoveTransaction(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de caja
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID de la caja"
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusivo)"
// @Success      200   {object}  dto.CashReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash/registers/{id}/report [get]
func (h *CashHandler) Report(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Report(c.Context(), c.Params("id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte de caja en PDF
// @Tags         cash
// @Security     Bearer
// @Produce      application/pdf
// @Param        id    path   string  true   "ID de la caja"
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusivo)"
// @Success      200   {file}  binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash/registers/{id}/report/pdf [get]
func (h *CashHandler) ReportPDF(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return writeError(c, err)
	}
	pdf, filename, err := h.uc.ReportPDF(c.Context(), c.Params("id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}

// Verify godoc
// @Summary      Verificar saldo de caja
// @Description  Comprueba initial_amount + Σ transacciones vigentes == current_amount.
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.BalanceCheckResponse
// @Router       /api/cash/registers/{id}/verify [get]
func (h *CashHandler) Verify(c *fiber.Ctx) error {
	out, err := h.uc.VerifyBalance(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

const dateOnly = "2006-01-02"

// reportRange lee from/to. Una fecha sin hora en "to" cubre el día completo.
func reportRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	from, err := parseTimeQuery(c.Query("from"), false)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseTimeQuery(c.Query("to"), true)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseTimeQuery(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q inválida", domain.ErrInvalidInput, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
