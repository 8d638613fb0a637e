package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/cash"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testPool abre una base real con el esquema aplicado. Sin DATABASE_URL el test se omite.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 16})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func TestPostgres_TrasladosConcurrentesNoSobregiran(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	log := logger.Nop()
	runner := postgres.NewTxRunner(pool)
	warehouses := postgres.NewWarehouseRepository(pool)
	products := postgres.NewProductRepository(pool)
	lines := postgres.NewInventoryLineRepository(pool)

	ledger := inventory.NewLedger(runner, postgres.NewStockHistoryRepository(pool), lines, log)
	store := inventory.NewStore(runner, lines, products, ledger, log)
	uc := transfer.NewUseCase(runner, postgres.NewTransferRepository(pool), warehouses, products, store, log)

	suffix := uuid.NewString()[:8]
	whUC := usecase.NewWarehouseUseCase(warehouses)
	src, err := whUC.Create(ctx, dto.CreateWarehouseRequest{Code: "SRC-" + suffix, Name: "Origen"})
	require.NoError(t, err)
	dst, err := whUC.Create(ctx, dto.CreateWarehouseRequest{Code: "DST-" + suffix, Name: "Destino"})
	require.NoError(t, err)
	product, err := usecase.NewProductUseCase(products).Create(ctx, dto.CreateProductRequest{
		SKU: "SKU-" + suffix, Name: "Tornillo", Price: dec("100"),
	})
	require.NoError(t, err)

	_, err = store.Adjust(ctx, "seed", dto.AdjustStockRequest{ProductID: product.ID, WarehouseID: src.ID, Delta: dec("10")})
	require.NoError(t, err)

	ids := make([]string, 5)
	for i := range ids {
		res, err := uc.CreateHeader(ctx, "user-1", dto.CreateTransferRequest{SourceWarehouseID: src.ID, TargetWarehouseID: dst.ID})
		require.NoError(t, err)
		_, err = uc.AddLine(ctx, res.ID, dto.AddLineRequest{ProductID: product.ID, Quantity: dec("3"), UnitPrice: dec("100")})
		require.NoError(t, err)
		ids[i] = res.ID
	}

	var ok, rejected atomic.Int32
	var g errgroup.Group
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := uc.Process(ctx, id, "user-1")
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 3, ok.Load())
	assert.EqualValues(t, 2, rejected.Load())

	line, err := store.Get(ctx, product.ID, src.ID)
	require.NoError(t, err)
	assert.True(t, line.Quantity.Equal(dec("1")), line.Quantity.String())
	line, err = store.Get(ctx, product.ID, dst.ID)
	require.NoError(t, err)
	assert.True(t, line.Quantity.Equal(dec("9")), line.Quantity.String())

	for _, wh := range []string{src.ID, dst.ID} {
		rec, err := ledger.Reconcile(ctx, product.ID, wh)
		require.NoError(t, err)
		assert.True(t, rec.Balanced, wh)
	}
}

// openFreshRegister cierra la caja abierta que haya dejado otra ejecución y abre una nueva.
func openFreshRegister(t *testing.T, uc *cash.UseCase, initial string) string {
	t.Helper()
	ctx := context.Background()
	current, err := uc.GetCurrent(ctx)
	switch {
	case err == nil:
		_, err = uc.Close(ctx, current.ID, "test", dto.CloseRegisterRequest{})
		require.NoError(t, err)
	case !errors.Is(err, domain.ErrNotFound):
		require.NoError(t, err)
	}
	reg, err := uc.Open(ctx, "test", dto.OpenRegisterRequest{Name: "Caja concurrencia", InitialAmount: dec(initial)})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = uc.Close(context.Background(), reg.ID, "test", dto.CloseRegisterRequest{})
	})
	return reg.ID
}

func TestPostgres_CajaMutacionesConcurrentes(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uc := cash.NewUseCase(postgres.NewTxRunner(pool), postgres.NewCashRegisterRepository(pool),
		postgres.NewCashTransactionRepository(pool), nil, logger.Nop())

	regID := openFreshRegister(t, uc, "1000")

	sales := make([]string, 10)
	for i := range sales {
		res, err := uc.CreateTransaction(ctx, regID, "test", dto.CreateCashTransactionRequest{Type: "SALE", Amount: dec("10")})
		require.NoError(t, err)
		sales[i] = res.Transaction.ID
	}

	// Anulación doble de la misma fila: solo una puede revertir el saldo.
	var removed, already atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := uc.RemoveTransaction(ctx, sales[0], "test")
			switch {
			case err == nil:
				removed.Add(1)
			case errors.Is(err, domain.ErrTransactionDeleted):
				already.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, removed.Load())
	assert.EqualValues(t, 7, already.Load())

	// Altas, modificaciones y anulaciones mezcladas sobre la misma caja.
	g = errgroup.Group{}
	for i := 1; i < len(sales); i++ {
		id := sales[i]
		if i%2 == 0 {
			g.Go(func() error {
				amount := dec("20")
				_, err := uc.UpdateTransaction(ctx, id, "test", dto.UpdateCashTransactionRequest{Amount: &amount})
				return err
			})
		} else {
			g.Go(func() error {
				_, err := uc.RemoveTransaction(ctx, id, "test")
				return err
			})
		}
		g.Go(func() error {
			_, err := uc.CreateTransaction(ctx, regID, "test", dto.CreateCashTransactionRequest{Type: "DEPOSIT", Amount: dec("5")})
			return err
		})
	}
	require.NoError(t, g.Wait())

	check, err := uc.VerifyBalance(ctx, regID)
	require.NoError(t, err)
	assert.True(t, check.Balanced)
	// 1000 + 4 ventas de 20 (pares 2..8) + 9 depósitos de 5.
	assert.True(t, check.CurrentAmount.Equal(dec("1125")), check.CurrentAmount.String())
}
