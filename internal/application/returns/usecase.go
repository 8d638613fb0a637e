// Package returns implementa las devoluciones de mercancía a proveedor (salida irreversible).
package returns

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// UseCase motor de devoluciones. Igual que un traslado pero sin bodega destino: solo descuenta.
type UseCase struct {
	txRunner   inventory.TxRunner
	returns    repository.ProviderReturnRepository
	warehouses repository.WarehouseRepository
	providers  repository.ProviderRepository
	products   repository.ProductRepository
	store      *inventory.Store
	log        *logger.Logger
}

// NewUseCase construye el motor de devoluciones.
func NewUseCase(
	txRunner inventory.TxRunner,
	returns repository.ProviderReturnRepository,
	warehouses repository.WarehouseRepository,
	providers repository.ProviderRepository,
	products repository.ProductRepository,
	store *inventory.Store,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		returns:    returns,
		warehouses: warehouses,
		providers:  providers,
		products:   products,
		store:      store,
		log:        log.Component("returns"),
	}
}

// CreateHeader crea una devolución en borrador. La bodega debe estar abierta y el proveedor activo.
func (uc *UseCase) CreateHeader(ctx context.Context, actor string, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	if in.SourceWarehouseID == "" || in.ProviderID == "" {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouses.GetByID(ctx, in.SourceWarehouseID)
	if err != nil {
		return nil, err
	}
	if !wh.IsOpen() {
		return nil, fmt.Errorf("%w: %s", domain.ErrWarehouseUnavailable, in.SourceWarehouseID)
	}
	provider, err := uc.providers.GetByID(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil || !provider.Active {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, in.ProviderID)
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	r := &entity.ProviderReturn{
		Document: entity.Document{
			ID:                uuid.New().String(),
			SourceWarehouseID: in.SourceWarehouseID,
			Date:              date,
			Description:       in.Description,
			Status:            entity.DocumentDraft,
			CreatedBy:         actor,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		ProviderID: in.ProviderID,
	}
	if err := uc.returns.Create(ctx, r); err != nil {
		return nil, err
	}
	return toReturnResponse(r), nil
}

// AddLine agrega (o fusiona) una línea en una devolución en borrador.
func (uc *UseCase) AddLine(ctx context.Context, id string, in dto.AddLineRequest) (*dto.ReturnResponse, error) {
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	return uc.mutateDraft(ctx, id, func(r *entity.ProviderReturn) error {
		_, err := r.AddLine(in.ProductID, in.Quantity, in.UnitPrice)
		return err
	})
}

// RemoveLine quita la línea de un producto.
func (uc *UseCase) RemoveLine(ctx context.Context, id, productID string) (*dto.ReturnResponse, error) {
	return uc.mutateDraft(ctx, id, func(r *entity.ProviderReturn) error {
		return r.RemoveLine(productID)
	})
}

// Cancel retira un borrador.
func (uc *UseCase) Cancel(ctx context.Context, id, actor string) (*dto.ReturnResponse, error) {
	res, err := uc.mutateDraft(ctx, id, func(r *entity.ProviderReturn) error {
		return r.Cancel(time.Now())
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("return_id", id).Str("actor", actor).Msg("devolución cancelada")
	return res, nil
}

func (uc *UseCase) mutateDraft(ctx context.Context, id string, fn func(r *entity.ProviderReturn) error) (*dto.ReturnResponse, error) {
	var out *entity.ProviderReturn
	err := uc.txRunner.Run(ctx, func(tx repository.InventoryTx) error {
		r, err := tx.Returns.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if err := fn(r); err != nil {
			return err
		}
		r.UpdatedAt = time.Now()
		if err := tx.Returns.Update(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toReturnResponse(out), nil
}

// Process descuenta cada línea de la bodega origen (RETURN_OUT) y marca PROCESSED, todo en una transacción.
func (uc *UseCase) Process(ctx context.Context, id, actor string) (*dto.ReturnResponse, error) {
	var out *entity.ProviderReturn
	err := uc.txRunner.Run(ctx, func(tx repository.InventoryTx) error {
		r, err := tx.Returns.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if !r.IsDraft() {
			return domain.ErrDocumentNotDraft
		}
		if len(r.Lines) == 0 {
			return domain.ErrEmptyDocument
		}
		wh, err := tx.Warehouses.GetForShare(ctx, r.SourceWarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || !wh.IsOpen() {
			return fmt.Errorf("%w: %s", domain.ErrWarehouseUnavailable, r.SourceWarehouseID)
		}

		lines := r.CloneLines()
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
		keys := make([]inventory.LineKey, 0, len(lines))
		for _, l := range lines {
			keys = append(keys, inventory.LineKey{ProductID: l.ProductID, WarehouseID: r.SourceWarehouseID})
		}
		locked, err := uc.store.Lock(ctx, tx, keys...)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, l := range lines {
			src := locked[inventory.LineKey{ProductID: l.ProductID, WarehouseID: r.SourceWarehouseID}]
			if err := uc.store.Withdraw(ctx, tx, src, inventory.Movement{
				Quantity:    l.Quantity,
				Operation:   entity.OperationReturnOut,
				OperationID: r.ID,
				Actor:       actor,
				At:          now,
			}); err != nil {
				return err
			}
		}

		if err := r.MarkProcessed(actor, now); err != nil {
			return err
		}
		if err := tx.Returns.Update(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("return_id", id).Msg("devolución rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("return_id", out.ID).
		Str("source", out.SourceWarehouseID).
		Str("provider_id", out.ProviderID).
		Int("lines", len(out.Lines)).
		Str("actor", actor).
		Msg("devolución procesada")
	return toReturnResponse(out), nil
}

// Get obtiene una devolución por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.ReturnResponse, error) {
	r, err := uc.returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toReturnResponse(r), nil
}

// List lista devoluciones por estado y bodega con paginación.
func (uc *UseCase) List(ctx context.Context, in dto.DocumentListRequest) (*dto.ReturnListResponse, error) {
	status, ok := in.ParseDocumentStatus()
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	list, err := uc.returns.List(ctx, repository.DocumentFilter{
		Status:      status,
		WarehouseID: in.WarehouseID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReturnResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReturnResponse(r))
	}
	return &dto.ReturnListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func toReturnResponse(r *entity.ProviderReturn) *dto.ReturnResponse {
	return &dto.ReturnResponse{
		DocumentResponse: dto.NewDocumentResponse(&r.Document),
		ProviderID:       r.ProviderID,
	}
}
