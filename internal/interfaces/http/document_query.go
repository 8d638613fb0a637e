package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// documentQuery arma los filtros de listado de traslados y devoluciones.
func documentQuery(c *fiber.Ctx) dto.DocumentListRequest {
	return dto.DocumentListRequest{
		Status:      c.Query("status"),
		WarehouseID: c.Query("warehouse_id"),
		PageRequest: page(c),
	}
}
