package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.InventoryLineRepository = (*lineRepo)(nil)
	_ repository.StockHistoryRepository  = (*historyRepo)(nil)
)

type lineRepo struct{ sc scope }

func (r *lineRepo) Get(_ context.Context, productID, warehouseID string) (*entity.InventoryLine, error) {
	out := entity.NewInventoryLine(productID, warehouseID)
	err := r.sc.view(func(st *state) error {
		if l, ok := st.lines[lineKey{productID, warehouseID}]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

// LockOrCreate inserta la línea en cero si no existe. El bloqueo lo da la transacción (Run).
func (r *lineRepo) LockOrCreate(_ context.Context, productID, warehouseID string) (*entity.InventoryLine, error) {
	var out *entity.InventoryLine
	err := r.sc.update(func(st *state) error {
		k := lineKey{productID, warehouseID}
		l, ok := st.lines[k]
		if !ok {
			l = *entity.NewInventoryLine(productID, warehouseID)
			l.UpdatedAt = time.Now()
			st.lines[k] = l
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *lineRepo) Save(_ context.Context, line *entity.InventoryLine) error {
	return r.sc.update(func(st *state) error {
		st.lines[lineKey{line.ProductID, line.WarehouseID}] = *line
		return nil
	})
}

func (r *lineRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryLine, error) {
	var out []*entity.InventoryLine
	err := r.sc.view(func(st *state) error {
		all := make([]*entity.InventoryLine, 0)
		for k, l := range st.lines {
			if k.warehouseID == warehouseID {
				l := l
				all = append(all, &l)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ProductID < all[j].ProductID })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *lineRepo) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryLine, error) {
	var out []*entity.InventoryLine
	err := r.sc.view(func(st *state) error {
		for k, l := range st.lines {
			if k.productID == productID {
				l := l
				out = append(out, &l)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
		return nil
	})
	return out, err
}

type historyRepo struct{ sc scope }

func (r *historyRepo) Append(_ context.Context, e *entity.StockHistoryEntry) error {
	return r.sc.update(func(st *state) error {
		st.seq++
		e.Sequence = st.seq
		st.history = append(st.history, *e)
		return nil
	})
}

func (r *historyRepo) Last(_ context.Context, productID, warehouseID string) (*entity.StockHistoryEntry, error) {
	var out *entity.StockHistoryEntry
	err := r.sc.view(func(st *state) error {
		for i := len(st.history) - 1; i >= 0; i-- {
			e := st.history[i]
			if e.ProductID == productID && e.WarehouseID == warehouseID {
				out = &e
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *historyRepo) ListByPair(_ context.Context, productID, warehouseID string) ([]*entity.StockHistoryEntry, error) {
	return r.filter(func(e *entity.StockHistoryEntry) bool {
		return e.ProductID == productID && e.WarehouseID == warehouseID
	})
}

func (r *historyRepo) ListByOperation(_ context.Context, operationID string) ([]*entity.StockHistoryEntry, error) {
	return r.filter(func(e *entity.StockHistoryEntry) bool { return e.OperationID == operationID })
}

func (r *historyRepo) filter(match func(e *entity.StockHistoryEntry) bool) ([]*entity.StockHistoryEntry, error) {
	var out []*entity.StockHistoryEntry
	err := r.sc.view(func(st *state) error {
		for i := range st.history {
			e := st.history[i]
			if match(&e) {
				out = append(out, &e)
			}
		}
		return nil
	})
	return out, err
}
