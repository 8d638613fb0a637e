package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.TransferRepository       = (*transferRepo)(nil)
	_ repository.ProviderReturnRepository = (*returnRepo)(nil)
)

type transferRepo struct{ sc scope }

func (r *transferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		st.transfers[t.ID] = t.Clone()
		return nil
	})
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.sc.view(func(st *state) error {
		if t, ok := st.transfers[id]; ok {
			out = t.Clone()
		}
		return nil
	})
	return out, err
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) Update(_ context.Context, t *entity.Transfer) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.transfers[t.ID]; !ok {
			return domain.ErrNotFound
		}
		st.transfers[t.ID] = t.Clone()
		return nil
	})
}

func (r *transferRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	err := r.sc.view(func(st *state) error {
		all := make([]*entity.Transfer, 0, len(st.transfers))
		for _, t := range st.transfers {
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.WarehouseID != "" && t.SourceWarehouseID != f.WarehouseID && t.TargetWarehouseID != f.WarehouseID {
				continue
			}
			all = append(all, t.Clone())
		}
		sort.Slice(all, func(i, j int) bool { return newerFirst(&all[i].Document, &all[j].Document) })
		out = page(all, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

type returnRepo struct{ sc scope }

func (r *returnRepo) Create(_ context.Context, ret *entity.ProviderReturn) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.returns[ret.ID]; ok {
			return domain.ErrDuplicate
		}
		st.returns[ret.ID] = ret.Clone()
		return nil
	})
}

func (r *returnRepo) GetByID(_ context.Context, id string) (*entity.ProviderReturn, error) {
	var out *entity.ProviderReturn
	err := r.sc.view(func(st *state) error {
		if ret, ok := st.returns[id]; ok {
			out = ret.Clone()
		}
		return nil
	})
	return out, err
}

func (r *returnRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProviderReturn, error) {
	return r.GetByID(ctx, id)
}

func (r *returnRepo) Update(_ context.Context, ret *entity.ProviderReturn) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.returns[ret.ID]; !ok {
			return domain.ErrNotFound
		}
		st.returns[ret.ID] = ret.Clone()
		return nil
	})
}

func (r *returnRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.ProviderReturn, error) {
	var out []*entity.ProviderReturn
	err := r.sc.view(func(st *state) error {
		all := make([]*entity.ProviderReturn, 0, len(st.returns))
		for _, ret := range st.returns {
			if f.Status != "" && ret.Status != f.Status {
				continue
			}
			if f.WarehouseID != "" && ret.SourceWarehouseID != f.WarehouseID {
				continue
			}
			all = append(all, ret.Clone())
		}
		sort.Slice(all, func(i, j int) bool { return newerFirst(&all[i].Document, &all[j].Document) })
		out = page(all, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func newerFirst(a, b *entity.Document) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
