package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// errorCodes código por error específico; gana el primero que coincida.
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{domain.ErrSameWarehouse, "SAME_WAREHOUSE"},
	{domain.ErrWarehouseUnavailable, "WAREHOUSE_UNAVAILABLE"},
	{domain.ErrProviderUnavailable, "PROVIDER_UNAVAILABLE"},
	{domain.ErrDocumentNotDraft, "DOCUMENT_NOT_DRAFT"},
	{domain.ErrEmptyDocument, "EMPTY_DOCUMENT"},
	{domain.ErrRegisterNotOpen, "REGISTER_NOT_OPEN"},
	{domain.ErrRegisterAlreadyOpen, "REGISTER_ALREADY_OPEN"},
	{domain.ErrNegativeBalance, "NEGATIVE_BALANCE"},
	{domain.ErrTransactionDeleted, "TRANSACTION_DELETED"},
	{domain.ErrInvalidTransition, "INVALID_TRANSITION"},
	{domain.ErrDuplicate, "DUPLICATE"},
}

// writeError traduce un error de dominio a status HTTP + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	}
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			code = ec.code
			break
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// page lee limit/offset del query string; DefaultPage los acota.
func page(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultLimit), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
