package returns_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/returns"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	mem    *memory.Store
	ledger *inventory.Ledger
	store  *inventory.Store
	uc     *returns.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	mem := memory.NewStore()
	log := logger.Nop()
	ledger := inventory.NewLedger(mem, mem.History(), mem.Lines(), log)
	store := inventory.NewStore(mem, mem.Lines(), mem.Products(), ledger, log)
	uc := returns.NewUseCase(mem, mem.Returns(), mem.Warehouses(), mem.Providers(), mem.Products(), store, log)

	require.NoError(t, mem.Warehouses().Create(ctx, &entity.Warehouse{ID: "wh-a", Code: "A", Status: entity.WarehouseOpen}))
	require.NoError(t, mem.Warehouses().Create(ctx, &entity.Warehouse{ID: "wh-c", Code: "C", Status: entity.WarehouseClosed}))
	require.NoError(t, mem.Products().Create(ctx, &entity.Product{ID: "p-1", SKU: "S1"}))
	require.NoError(t, mem.Providers().Create(ctx, &entity.Provider{ID: "prov-1", TaxID: "900123", Name: "Acme", Active: true}))
	require.NoError(t, mem.Providers().Create(ctx, &entity.Provider{ID: "prov-off", TaxID: "900999", Name: "Inactivo"}))

	_, err := store.Adjust(ctx, "seed", dto.AdjustStockRequest{ProductID: "p-1", WarehouseID: "wh-a", Delta: dec("10")})
	require.NoError(t, err)
	return &fixture{mem: mem, ledger: ledger, store: store, uc: uc}
}

func (f *fixture) draft(t *testing.T, qty string) string {
	t.Helper()
	ctx := context.Background()
	res, err := f.uc.CreateHeader(ctx, "user-1", dto.CreateReturnRequest{SourceWarehouseID: "wh-a", ProviderID: "prov-1"})
	require.NoError(t, err)
	_, err = f.uc.AddLine(ctx, res.ID, dto.AddLineRequest{ProductID: "p-1", Quantity: dec(qty), UnitPrice: dec("50")})
	require.NoError(t, err)
	return res.ID
}

func (f *fixture) quantity(t *testing.T) decimal.Decimal {
	t.Helper()
	line, err := f.store.Get(context.Background(), "p-1", "wh-a")
	require.NoError(t, err)
	return line.Quantity
}

func TestProcess_DescuentaYRegistraKardex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.draft(t, "4")

	res, err := f.uc.Process(ctx, id, "user-2")
	require.NoError(t, err)
	assert.Equal(t, string(entity.DocumentProcessed), res.Status)
	assert.Equal(t, "prov-1", res.ProviderID)
	assert.True(t, f.quantity(t).Equal(dec("6")))

	hist, err := f.ledger.History(ctx, "p-1", "wh-a")
	require.NoError(t, err)
	require.Len(t, hist.Entries, 2)
	last := hist.Entries[1]
	assert.Equal(t, string(entity.OperationReturnOut), last.Operation)
	assert.Equal(t, id, last.OperationID)
	assert.True(t, last.CurrentStock.Equal(dec("6")))

	_, err = f.uc.Process(ctx, id, "user-2")
	assert.ErrorIs(t, err, domain.ErrDocumentNotDraft)
	assert.True(t, f.quantity(t).Equal(dec("6")))
}

func TestProcess_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.draft(t, "11")

	_, err := f.uc.Process(ctx, id, "user-1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.quantity(t).Equal(dec("10")))

	got, err := f.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.DocumentDraft), got.Status)
}

func TestCreateHeader_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateHeader(ctx, "u", dto.CreateReturnRequest{SourceWarehouseID: "wh-c", ProviderID: "prov-1"})
	assert.ErrorIs(t, err, domain.ErrWarehouseUnavailable)

	_, err = f.uc.CreateHeader(ctx, "u", dto.CreateReturnRequest{SourceWarehouseID: "wh-a", ProviderID: "prov-off"})
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)

	_, err = f.uc.CreateHeader(ctx, "u", dto.CreateReturnRequest{SourceWarehouseID: "wh-a", ProviderID: "nope"})
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)

	_, err = f.uc.CreateHeader(ctx, "u", dto.CreateReturnRequest{SourceWarehouseID: "wh-a"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelYList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cancelled := f.draft(t, "1")
	f.draft(t, "2")

	res, err := f.uc.Cancel(ctx, cancelled, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(entity.DocumentCancelled), res.Status)
	assert.True(t, f.quantity(t).Equal(dec("10")))

	drafts, err := f.uc.List(ctx, dto.DocumentListRequest{Status: "DRAFT"})
	require.NoError(t, err)
	assert.Len(t, drafts.Items, 1)

	byWh, err := f.uc.List(ctx, dto.DocumentListRequest{WarehouseID: "wh-a"})
	require.NoError(t, err)
	assert.Len(t, byWh.Items, 2)
}

func TestRemoveLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.draft(t, "1")

	res, err := f.uc.RemoveLine(ctx, id, "p-1")
	require.NoError(t, err)
	assert.Empty(t, res.Lines)

	_, err = f.uc.Process(ctx, id, "u")
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestProcess_BodegaCerradaDespuesDelBorrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.draft(t, "3")

	wh, err := f.mem.Warehouses().GetByID(ctx, "wh-a")
	require.NoError(t, err)
	wh.Status = entity.WarehouseClosed
	require.NoError(t, f.mem.Warehouses().Update(ctx, wh))

	_, err = f.uc.Process(ctx, id, "user-1")
	assert.ErrorIs(t, err, domain.ErrWarehouseUnavailable)
	line, err := f.store.Get(ctx, "p-1", "wh-a")
	require.NoError(t, err)
	assert.True(t, line.Quantity.Equal(dec("10")))
}
