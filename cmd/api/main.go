package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhoicas/inventario-ledger/internal/application/cash"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/returns"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// txRunner une las dos fronteras transaccionales (inventario y caja).
type txRunner interface {
	inventory.TxRunner
	cash.TxRunner
}

// repos agrupa los repositorios raíz del driver de almacenamiento elegido.
type repos struct {
	tx               txRunner
	warehouses       repository.WarehouseRepository
	products         repository.ProductRepository
	providers        repository.ProviderRepository
	lines            repository.InventoryLineRepository
	history          repository.StockHistoryRepository
	transfers        repository.TransferRepository
	returns          repository.ProviderReturnRepository
	registers        repository.CashRegisterRepository
	cashTransactions repository.CashTransactionRepository
}

func main() {
	_ = godotenv.Load() // .env opcional

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: todas las rutas /api responderán 401")
	}

	ctx := context.Background()

	var r repos
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		mem := memory.NewStore()
		r = repos{
			tx:               mem,
			warehouses:       mem.Warehouses(),
			products:         mem.Products(),
			providers:        mem.Providers(),
			lines:            mem.Lines(),
			history:          mem.History(),
			transfers:        mem.Transfers(),
			returns:          mem.Returns(),
			registers:        mem.Registers(),
			cashTransactions: mem.CashTransactions(),
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
			log.Info().Msg("esquema aplicado")
		}
		r = repos{
			tx:               postgres.NewTxRunner(pool),
			warehouses:       postgres.NewWarehouseRepository(pool),
			products:         postgres.NewProductRepository(pool),
			providers:        postgres.NewProviderRepository(pool),
			lines:            postgres.NewInventoryLineRepository(pool),
			history:          postgres.NewStockHistoryRepository(pool),
			transfers:        postgres.NewTransferRepository(pool),
			returns:          postgres.NewProviderReturnRepository(pool),
			registers:        postgres.NewCashRegisterRepository(pool),
			cashTransactions: postgres.NewCashTransactionRepository(pool),
		}
	}

	ledger := inventory.NewLedger(r.tx, r.history, r.lines, log)
	store := inventory.NewStore(r.tx, r.lines, r.products, ledger, log)
	transferUC := transfer.NewUseCase(r.tx, r.transfers, r.warehouses, r.products, store, log)
	returnUC := returns.NewUseCase(r.tx, r.returns, r.warehouses, r.providers, r.products, store, log)

	// PDF: reporte de caja
	cashUC := cash.NewUseCase(r.tx, r.registers, r.cashTransactions, infrapdf.NewCashReportPDF(), log)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:            cfg.App.Name,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		SwaggerEnabled:  cfg.Swagger.Enabled,
		SwaggerFilePath: cfg.Swagger.FilePath,
	})
	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: usecase.NewWarehouseUseCase(r.warehouses),
		ProductUC:   usecase.NewProductUseCase(r.products),
		ProviderUC:  usecase.NewProviderUseCase(r.providers),
		Store:       store,
		Ledger:      ledger,
		TransferUC:  transferUC,
		ReturnUC:    returnUC,
		CashUC:      cashUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
