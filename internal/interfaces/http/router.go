package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-ledger/internal/application/cash"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/returns"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	ProviderUC  *usecase.ProviderUseCase
	Store       *inventory.Store
	Ledger      *inventory.Ledger
	TransferUC  *transfer.UseCase
	ReturnUC    *returns.UseCase
	CashUC      *cash.UseCase
	JWTSecret   string
}

// AppConfig parámetros de la app Fiber.
type AppConfig struct {
	Name            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	SwaggerEnabled  bool
	SwaggerFilePath string
}

// NewApp crea la app Fiber con recover, swagger (si el archivo existe) y /health.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	app.Use(recover.New())

	if cfg.SwaggerEnabled {
		if _, err := os.Stat(cfg.SwaggerFilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFilePath,
				Path:     "docs",
				Title:    cfg.Name + " API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleCajero)
	adminOnly := RequireRole(entity.RoleAdmin)
	stock := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	cashier := RequireRole(entity.RoleAdmin, entity.RoleCajero)

	// Warehouses: lectura para todos, escritura solo admin
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", anyRole, warehouseHandler.List)
	warehouses.Get("/:id", anyRole, warehouseHandler.GetByID)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Post("/:id/open", adminOnly, warehouseHandler.Open)
	warehouses.Post("/:id/close", adminOnly, warehouseHandler.Close)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)

	// Providers
	providers := api.Group("/providers")
	providerHandler := NewProviderHandler(deps.ProviderUC)
	providers.Get("/", anyRole, providerHandler.List)
	providers.Get("/:id", anyRole, providerHandler.GetByID)
	providers.Post("/", adminOnly, providerHandler.Create)
	providers.Put("/:id", adminOnly, providerHandler.Update)

	// Inventory
	inv := api.Group("/inventory", stock)
	inventoryHandler := NewInventoryHandler(deps.Store, deps.Ledger)
	inv.Get("/line", inventoryHandler.GetLine)
	inv.Post("/adjust", inventoryHandler.Adjust)
	inv.Get("/history", inventoryHandler.History)
	inv.Get("/reconcile", inventoryHandler.Reconcile)
	inv.Get("/warehouses/:id", inventoryHandler.ListByWarehouse)
	inv.Get("/products/:id", inventoryHandler.ListByProduct)

	// Transfers
	transfers := api.Group("/transfers", stock)
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/lines", transferHandler.AddLine)
	transfers.Delete("/:id/lines/:product_id", transferHandler.RemoveLine)
	transfers.Post("/:id/process", transferHandler.Process)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Provider returns
	rets := api.Group("/returns", stock)
	returnHandler := NewReturnHandler(deps.ReturnUC)
	rets.Post("/", returnHandler.Create)
	rets.Get("/", returnHandler.List)
	rets.Get("/:id", returnHandler.GetByID)
	rets.Post("/:id/lines", returnHandler.AddLine)
	rets.Delete("/:id/lines/:product_id", returnHandler.RemoveLine)
	rets.Post("/:id/process", returnHandler.Process)
	rets.Post("/:id/cancel", returnHandler.Cancel)

	// Cash
	cashGroup := api.Group("/cash", cashier)
	cashHandler := NewCashHandler(deps.CashUC)
	cashGroup.Post("/registers", cashHandler.Open)
	cashGroup.Get("/registers", cashHandler.List)
	cashGroup.Get("/registers/current", cashHandler.Current)
	cashGroup.Get("/registers/:id", cashHandler.GetByID)
	cashGroup.Post("/registers/:id/close", cashHandler.Close)
	cashGroup.Post("/registers/:id/transactions", cashHandler.CreateTransaction)
	cashGroup.Get("/registers/:id/transactions", cashHandler.ListTransactions)
	cashGroup.Get("/registers/:id/report", cashHandler.Report)
	cashGroup.Get("/registers/:id/report/pdf", cashHandler.ReportPDF)
	cashGroup.Get("/registers/:id/verify", cashHandler.Verify)
	cashGroup.Put("/transactions/:id", cashHandler.UpdateTransaction)
	cashGroup.Delete("/transactions/:id", cashHandler.RemoveTransaction)
}
