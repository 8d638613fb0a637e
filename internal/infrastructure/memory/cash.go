package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.CashRegisterRepository    = (*registerRepo)(nil)
	_ repository.CashTransactionRepository = (*cashTxRepo)(nil)
)

type registerRepo struct{ sc scope }

// LockOpening no hace nada: Run ya serializa las transacciones.
func (r *registerRepo) LockOpening(context.Context) error { return nil }

func (r *registerRepo) Create(_ context.Context, reg *entity.CashRegister) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.registers[reg.ID]; ok {
			return domain.ErrDuplicate
		}
		if err := checkSingleOpen(st, reg); err != nil {
			return err
		}
		st.registers[reg.ID] = *reg
		return nil
	})
}

func (r *registerRepo) GetByID(_ context.Context, id string) (*entity.CashRegister, error) {
	var out *entity.CashRegister
	err := r.sc.view(func(st *state) error {
		if reg, ok := st.registers[id]; ok {
			out = &reg
		}
		return nil
	})
	return out, err
}

func (r *registerRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.GetByID(ctx, id)
}

func (r *registerRepo) GetOpen(_ context.Context) (*entity.CashRegister, error) {
	var out *entity.CashRegister
	err := r.sc.view(func(st *state) error {
		for _, reg := range st.registers {
			if reg.Status == entity.RegisterOpen {
				reg := reg
				out = &reg
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *registerRepo) Update(_ context.Context, reg *entity.CashRegister) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.registers[reg.ID]; !ok {
			return domain.ErrNotFound
		}
		if err := checkSingleOpen(st, reg); err != nil {
			return err
		}
		st.registers[reg.ID] = *reg
		return nil
	})
}

func (r *registerRepo) List(_ context.Context, limit, offset int) ([]*entity.CashRegister, error) {
	var out []*entity.CashRegister
	err := r.sc.view(func(st *state) error {
		all := make([]*entity.CashRegister, 0, len(st.registers))
		for _, reg := range st.registers {
			reg := reg
			all = append(all, &reg)
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].ID < all[j].ID
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// checkSingleOpen emula el índice único parcial (status = 'OPEN').
func checkSingleOpen(st *state, reg *entity.CashRegister) error {
	if reg.Status != entity.RegisterOpen {
		return nil
	}
	for id, other := range st.registers {
		if id != reg.ID && other.Status == entity.RegisterOpen {
			return domain.ErrDuplicate
		}
	}
	return nil
}

type cashTxRepo struct{ sc scope }

func (r *cashTxRepo) Create(_ context.Context, t *entity.CashTransaction) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.cashTx[t.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.registers[t.RegisterID]; !ok {
			return domain.ErrNotFound
		}
		st.cashTx[t.ID] = *t
		st.cashOrder = append(st.cashOrder, t.ID)
		return nil
	})
}

func (r *cashTxRepo) GetByID(_ context.Context, id string) (*entity.CashTransaction, error) {
	var out *entity.CashTransaction
	err := r.sc.view(func(st *state) error {
		if t, ok := st.cashTx[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *cashTxRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r *cashTxRepo) Update(_ context.Context, t *entity.CashTransaction) error {
	return r.sc.update(func(st *state) error {
		if _, ok := st.cashTx[t.ID]; !ok {
			return domain.ErrNotFound
		}
		st.cashTx[t.ID] = *t
		return nil
	})
}

func (r *cashTxRepo) List(_ context.Context, f repository.CashTransactionFilter) ([]*entity.CashTransaction, error) {
	var out []*entity.CashTransaction
	err := r.sc.view(func(st *state) error {
		for _, id := range st.cashOrder {
			t := st.cashTx[id]
			if f.RegisterID != "" && t.RegisterID != f.RegisterID {
				continue
			}
			if !f.IncludeDeleted && t.IsDeleted() {
				continue
			}
			if f.From != nil && t.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && t.CreatedAt.After(*f.To) {
				continue
			}
			out = append(out, &t)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		return nil
	})
	return out, err
}
