package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// LineKey identifica una línea de inventario.
type LineKey struct {
	ProductID   string
	WarehouseID string
}

// Movement cambio de stock sobre una línea ya bloqueada.
type Movement struct {
	Quantity    decimal.Decimal // magnitud > 0
	UnitPrice   decimal.Decimal // cero = conserva el precio de la línea
	Operation   entity.OperationType
	OperationID string
	Actor       string
	At          time.Time
}

// Store mantiene el stock por producto+bodega. Toda escritura pasa por el kardex en la misma transacción.
type Store struct {
	txRunner TxRunner
	lines    repository.InventoryLineRepository
	products repository.ProductRepository
	ledger   *Ledger
	log      *logger.Logger
}

// NewStore construye el servicio de inventario.
func NewStore(
	txRunner TxRunner,
	lines repository.InventoryLineRepository,
	products repository.ProductRepository,
	ledger *Ledger,
	log *logger.Logger,
) *Store {
	return &Store{
		txRunner: txRunner,
		lines:    lines,
		products: products,
		ledger:   ledger,
		log:      log.Component("inventory"),
	}
}

// Get devuelve la línea del par o una línea en cero si aún no existe.
func (s *Store) Get(ctx context.Context, productID, warehouseID string) (*dto.InventoryLineResponse, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	line, err := s.lines.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return toLineResponse(line), nil
}

// ListByWarehouse lista el stock de una bodega.
func (s *Store) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]dto.InventoryLineResponse, error) {
	list, err := s.lines.ListByWarehouse(ctx, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toLineResponses(list), nil
}

// ListByProduct lista el stock de un producto en todas las bodegas.
func (s *Store) ListByProduct(ctx context.Context, productID string) ([]dto.InventoryLineResponse, error) {
	list, err := s.lines.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toLineResponses(list), nil
}

// Adjust aplica un ajuste manual (apertura, conteo físico) en una transacción:
// bloquea la línea, valida que no quede negativa y registra ENTRY o WITHDRAWAL en el kardex.
func (s *Store) Adjust(ctx context.Context, actor string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if in.ProductID == "" || in.WarehouseID == "" || in.Delta.IsZero() || !entity.FitsScale(in.Delta, entity.QuantityScale) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && (!in.UnitPrice.IsPositive() || !entity.FitsScale(*in.UnitPrice, entity.QuantityScale)) {
		return nil, domain.ErrInvalidInput
	}
	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	opID := in.OperationID
	if opID == "" {
		opID = uuid.New().String()
	}
	mov := Movement{
		Quantity:    in.Delta.Abs(),
		Operation:   entity.OperationEntry,
		OperationID: opID,
		Actor:       actor,
		At:          time.Now(),
	}
	if in.Delta.IsNegative() {
		mov.Operation = entity.OperationWithdrawal
	}
	if in.UnitPrice != nil {
		mov.UnitPrice = *in.UnitPrice
	}

	var quantity decimal.Decimal
	err = s.txRunner.Run(ctx, func(tx repository.InventoryTx) error {
		wh, err := tx.Warehouses.GetForShare(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
		if !wh.IsOpen() {
			return domain.ErrWarehouseUnavailable
		}
		locked, err := s.Lock(ctx, tx, LineKey{ProductID: in.ProductID, WarehouseID: in.WarehouseID})
		if err != nil {
			return err
		}
		line := locked[LineKey{ProductID: in.ProductID, WarehouseID: in.WarehouseID}]
		if mov.Operation == entity.OperationWithdrawal {
			err = s.Withdraw(ctx, tx, line, mov)
		} else {
			err = s.Deposit(ctx, tx, line, mov)
		}
		if err != nil {
			return err
		}
		quantity = line.Quantity
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Str("warehouse_id", in.WarehouseID).
			Str("delta", in.Delta.String()).
			Msg("ajuste rechazado")
		return nil, err
	}
	s.log.Info().
		Str("operation_id", opID).
		Str("product_id", in.ProductID).
		Str("warehouse_id", in.WarehouseID).
		Str("delta", in.Delta.String()).
		Str("quantity", quantity.String()).
		Msg("ajuste de inventario aplicado")
	return &dto.AdjustStockResponse{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		OperationID: opID,
		Quantity:    quantity,
	}, nil
}

// Lock crea (si no existen) y bloquea las líneas indicadas hasta el fin de la transacción.
// El orden es siempre producto y luego bodega ascendente para que dos procesos concurrentes
// no se bloqueen mutuamente.
func (s *Store) Lock(ctx context.Context, tx repository.InventoryTx, keys ...LineKey) (map[LineKey]*entity.InventoryLine, error) {
	sorted := make([]LineKey, 0, len(keys))
	seen := make(map[LineKey]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		return sorted[i].WarehouseID < sorted[j].WarehouseID
	})

	out := make(map[LineKey]*entity.InventoryLine, len(sorted))
	for _, k := range sorted {
		line, err := tx.Lines.LockOrCreate(ctx, k.ProductID, k.WarehouseID)
		if err != nil {
			return nil, fmt.Errorf("inventario: bloquear línea %s/%s: %w", k.ProductID, k.WarehouseID, err)
		}
		out[k] = line
	}
	return out, nil
}

// Withdraw descuenta stock de una línea bloqueada y registra la salida en el kardex.
func (s *Store) Withdraw(ctx context.Context, tx repository.InventoryTx, line *entity.InventoryLine, m Movement) error {
	if !m.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	if line.Quantity.LessThan(m.Quantity) {
		return &domain.InsufficientStockError{
			ProductID:   line.ProductID,
			WarehouseID: line.WarehouseID,
			Available:   line.Quantity,
			Requested:   m.Quantity,
		}
	}
	line.Quantity = line.Quantity.Sub(m.Quantity)
	return s.apply(ctx, tx, line, m)
}

// Deposit suma stock a una línea bloqueada (creada si no existía) y registra la entrada en el kardex.
func (s *Store) Deposit(ctx context.Context, tx repository.InventoryTx, line *entity.InventoryLine, m Movement) error {
	if !m.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	line.Quantity = line.Quantity.Add(m.Quantity)
	if m.UnitPrice.IsPositive() {
		line.UnitPrice = m.UnitPrice
	}
	return s.apply(ctx, tx, line, m)
}

func (s *Store) apply(ctx context.Context, tx repository.InventoryTx, line *entity.InventoryLine, m Movement) error {
	if m.At.IsZero() {
		m.At = time.Now()
	}
	line.UpdatedAt = m.At
	if err := tx.Lines.Save(ctx, line); err != nil {
		return fmt.Errorf("inventario: guardar línea: %w", err)
	}
	_, err := s.ledger.Append(ctx, tx.History, Entry{
		ProductID:   line.ProductID,
		WarehouseID: line.WarehouseID,
		Operation:   m.Operation,
		OperationID: m.OperationID,
		Quantity:    m.Quantity,
		Actor:       m.Actor,
		At:          m.At,
	})
	return err
}

func toLineResponse(l *entity.InventoryLine) *dto.InventoryLineResponse {
	out := &dto.InventoryLineResponse{
		ProductID:   l.ProductID,
		WarehouseID: l.WarehouseID,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
	}
	if l.Exists() {
		at := l.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}

func toLineResponses(list []*entity.InventoryLine) []dto.InventoryLineResponse {
	out := make([]dto.InventoryLineResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLineResponse(l))
	}
	return out
}
