package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository = (*warehouseRepo)(nil)
	_ repository.ProductRepository   = (*productRepo)(nil)
	_ repository.ProviderRepository  = (*providerRepo)(nil)
)

type warehouseRepo struct{ sc scope }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.warehouses {
			if other.Code == w.Code {
				return domain.ErrDuplicate
			}
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.sc.view(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

// GetForShare no necesita bloqueo propio: la transacción en memoria ya es exclusiva.
func (r *warehouseRepo) GetForShare(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.GetByID(ctx, id)
}

func (r *warehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.sc.view(func(st *state) error {
		for _, w := range st.warehouses {
			if w.Code == code {
				w := w
				out = &w
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; !ok {
			return domain.ErrNotFound
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *warehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.sc.view(func(st *state) error {
		all := make([]*entity.Warehouse, 0, len(st.warehouses))
		for _, w := range st.warehouses {
			w := w
			all = append(all, &w)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

type productRepo struct{ sc scope }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.products {
			if other.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.sc.view(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.sc.view(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.sc.view(func(st *state) error {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			p := p
			all = append(all, &p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

type providerRepo struct{ sc scope }

func (r *providerRepo) Create(_ context.Context, p *entity.Provider) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.providers[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.providers {
			if other.TaxID == p.TaxID {
				return domain.ErrDuplicate
			}
		}
		st.providers[p.ID] = *p
		return nil
	})
}

func (r *providerRepo) GetByID(_ context.Context, id string) (*entity.Provider, error) {
	var out *entity.Provider
	err := r.sc.view(func(st *state) error {
		if p, ok := st.providers[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *providerRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Provider, error) {
	var out *entity.Provider
	err := r.sc.view(func(st *state) error {
		for _, p := range st.providers {
			if p.TaxID == taxID {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *providerRepo) Update(_ context.Context, p *entity.Provider) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.providers[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.providers[p.ID] = *p
		return nil
	})
}

func (r *providerRepo) List(_ context.Context, limit, offset int) ([]*entity.Provider, error) {
	var out []*entity.Provider
	err := r.sc.view(func(st *state) error {
		all := make([]*entity.Provider, 0, len(st.providers))
		for _, p := range st.providers {
			p := p
			all = append(all, &p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}
