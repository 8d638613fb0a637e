// Package transfer implementa los traslados de mercancía entre bodegas (borrador -> procesado).
package transfer

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

// UseCase motor de traslados. El stock solo se toca en Process, dentro de una transacción.
type UseCase struct {
	txRunner   inventory.TxRunner
	transfers  repository.TransferRepository
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
	store      *inventory.Store
	log        *logger.Logger
}

// NewUseCase construye el motor de traslados.
func NewUseCase(
	txRunner inventory.TxRunner,
	transfers repository.TransferRepository,
	warehouses repository.WarehouseRepository,
	products repository.ProductRepository,
	store *inventory.Store,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		transfers:  transfers,
		warehouses: warehouses,
		products:   products,
		store:      store,
		log:        log.Component("transfer"),
	}
}

// CreateHeader crea un traslado en borrador. Ambas bodegas deben existir, estar abiertas y ser distintas.
func (uc *UseCase) CreateHeader(ctx context.Context, actor string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if in.SourceWarehouseID == "" || in.TargetWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SourceWarehouseID == in.TargetWarehouseID {
		return nil, domain.ErrSameWarehouse
	}
	for _, id := range []string{in.SourceWarehouseID, in.TargetWarehouseID} {
		wh, err := uc.warehouses.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !wh.IsOpen() {
			return nil, fmt.Errorf("%w: %s", domain.ErrWarehouseUnavailable, id)
		}
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	t := &entity.Transfer{
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
		TargetWarehouseID: in.TargetWarehouseID,
	}
	if err := uc.transfers.Create(ctx, t); err != nil {
		return nil, err
	}
	return toTransferResponse(t), nil
}

// AddLine agrega (o fusiona) una línea en un traslado en borrador. No toca stock.
func (uc *UseCase) AddLine(ctx context.Context, id string, in dto.AddLineRequest) (*dto.TransferResponse, error) {
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	return uc.mutateDraft(ctx, id, func(t *entity.Transfer) error {
		_, err := t.AddLine(in.ProductID, in.Quantity, in.UnitPrice)
		return err
	})
}

// RemoveLine quita la línea de un producto de un traslado en borrador.
func (uc *UseCase) RemoveLine(ctx context.Context, id, productID string) (*dto.TransferResponse, error) {
	return uc.mutateDraft(ctx, id, func(t *entity.Transfer) error {
		return t.RemoveLine(productID)
	})
}

// Cancel retira un borrador (DRAFT -> CANCELLED). Nunca se borra.
func (uc *UseCase) Cancel(ctx context.Context, id, actor string) (*dto.TransferResponse, error) {
	res, err := uc.mutateDraft(ctx, id, func(t *entity.Transfer) error {
		return t.Cancel(time.Now())
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", id).Str("actor", actor).Msg("traslado cancelado")
	return res, nil
}

func (uc *UseCase) mutateDraft(ctx context.Context, id string, fn func(t *entity.Transfer) error) (*dto.TransferResponse, error) {
	var out *entity.Transfer
	err := uc.txRunner.Run(ctx, func(tx repository.InventoryTx) error {
		t, err := tx.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if err := fn(t); err != nil {
			return err
		}
		t.UpdatedAt = time.Now()
		if err := tx.Transfers.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(out), nil
}

// Process aplica el traslado en una sola transacción:
//  1. bloquea la cabecera y valida que siga en borrador con líneas y bodegas abiertas;
//  2. bloquea las líneas de inventario de origen y destino en orden determinista;
//  3. por cada línea descuenta origen (TRANSFER_OUT) y suma destino (TRANSFER_IN);
//  4. marca PROCESSED.
//
// Cualquier error revierte todo; un segundo llamado falla sin efectos.
func (uc *UseCase) Process(ctx context.Context, id, actor string) (*dto.TransferResponse, error) {
	var out *entity.Transfer
	err := uc.txRunner.Run(ctx, func(tx repository.InventoryTx) error {
		// ── 1. Cabecera ───────────────────────────────────────────────────────
		t, err := tx.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if !t.IsDraft() {
			return domain.ErrDocumentNotDraft
		}
		if len(t.Lines) == 0 {
			return domain.ErrEmptyDocument
		}
		for _, whID := range []string{t.SourceWarehouseID, t.TargetWarehouseID} {
			wh, err := tx.Warehouses.GetForShare(ctx, whID)
			if err != nil {
				return err
			}
			if wh == nil || !wh.IsOpen() {
				return fmt.Errorf("%w: %s", domain.ErrWarehouseUnavailable, whID)
			}
		}

		// ── 2. Bloqueo de líneas ──────────────────────────────────────────────
		lines := t.CloneLines()
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
		keys := make([]inventory.LineKey, 0, len(lines)*2)
		for _, l := range lines {
			keys = append(keys,
				inventory.LineKey{ProductID: l.ProductID, WarehouseID: t.SourceWarehouseID},
				inventory.LineKey{ProductID: l.ProductID, WarehouseID: t.TargetWarehouseID},
			)
		}
		locked, err := uc.store.Lock(ctx, tx, keys...)
		if err != nil {
			return err
		}

		// ── 3. Movimientos ────────────────────────────────────────────────────
		now := time.Now()
		for _, l := range lines {
			mov := inventory.Movement{
				Quantity:    l.Quantity,
				Operation:   entity.OperationTransferOut,
				OperationID: t.ID,
				Actor:       actor,
				At:          now,
			}
			src := locked[inventory.LineKey{ProductID: l.ProductID, WarehouseID: t.SourceWarehouseID}]
			if err := uc.store.Withdraw(ctx, tx, src, mov); err != nil {
				return err
			}
			mov.Operation = entity.OperationTransferIn
			mov.UnitPrice = l.UnitPrice
			dst := locked[inventory.LineKey{ProductID: l.ProductID, WarehouseID: t.TargetWarehouseID}]
			if err := uc.store.Deposit(ctx, tx, dst, mov); err != nil {
				return err
			}
		}

		// ── 4. Estado ─────────────────────────────────────────────────────────
		if err := t.MarkProcessed(actor, now); err != nil {
			return err
		}
		if err := tx.Transfers.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("transfer_id", id).Msg("traslado rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", out.ID).
		Str("source", out.SourceWarehouseID).
		Str("target", out.TargetWarehouseID).
		Int("lines", len(out.Lines)).
		Str("actor", actor).
		Msg("traslado procesado")
	return toTransferResponse(out), nil
}

// Get obtiene un traslado por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return toTransferResponse(t), nil
}

// List lista traslados por estado y bodega (origen o destino) con paginación.
func (uc *UseCase) List(ctx context.Context, in dto.DocumentListRequest) (*dto.TransferListResponse, error) {
	status, ok := in.ParseDocumentStatus()
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	list, err := uc.transfers.List(ctx, repository.DocumentFilter{
		Status:      status,
		WarehouseID: in.WarehouseID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func toTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	return &dto.TransferResponse{
		DocumentResponse:  dto.NewDocumentResponse(&t.Document),
		TargetWarehouseID: t.TargetWarehouseID,
	}
}
