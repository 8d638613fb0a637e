package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// openRegisterLockKey clave del advisory lock que serializa aperturas de caja.
const openRegisterLockKey = 72_000_002

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo cajas sobre PostgreSQL.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

const registerColumns = `id, name, status, initial_amount, current_amount, counted_amount, difference, notes,
	opened_by, opened_at, closed_by, closed_at, created_at, updated_at`

func scanRegister(row pgx.Row) (*entity.CashRegister, error) {
	var r entity.CashRegister
	var openedBy, closedBy *string
	err := row.Scan(&r.ID, &r.Name, &r.Status, &r.InitialAmount, &r.CurrentAmount, &r.CountedAmount, &r.Difference,
		&r.Notes, &openedBy, &r.OpenedAt, &closedBy, &r.ClosedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.OpenedBy = deref(openedBy)
	r.ClosedBy = deref(closedBy)
	return &r, nil
}

// LockOpening toma un advisory lock de transacción; se libera en commit o rollback.
func (r *CashRegisterRepo) LockOpening(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, openRegisterLockKey); err != nil {
		return fmt.Errorf("lock register opening: %w", err)
	}
	return nil
}

// Create inserta la caja. El índice parcial uq_cash_registers_single_open produce ErrDuplicate
// si ya hay otra abierta.
func (r *CashRegisterRepo) Create(ctx context.Context, reg *entity.CashRegister) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_registers (`+registerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		reg.ID, reg.Name, string(reg.Status), reg.InitialAmount, reg.CurrentAmount, reg.CountedAmount, reg.Difference,
		reg.Notes, nullable(reg.OpenedBy), reg.OpenedAt, nullable(reg.ClosedBy), reg.ClosedAt, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert cash register", err)
	}
	return nil
}

// GetByID obtiene una caja o nil.
func (r *CashRegisterRepo) GetByID(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.getOne(ctx, `SELECT `+registerColumns+` FROM cash_registers WHERE id = $1`, id)
}

// GetForUpdate obtiene la caja bloqueando la fila.
func (r *CashRegisterRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.getOne(ctx, `SELECT `+registerColumns+` FROM cash_registers WHERE id = $1 FOR UPDATE`, id)
}

func (r *CashRegisterRepo) getOne(ctx context.Context, query, id string) (*entity.CashRegister, error) {
	if !validID(id) {
		return nil, nil
	}
	reg, err := scanRegister(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return reg, nil
}

// GetOpen devuelve la caja abierta o nil.
func (r *CashRegisterRepo) GetOpen(ctx context.Context) (*entity.CashRegister, error) {
	reg, err := scanRegister(r.q.QueryRow(ctx,
		`SELECT `+registerColumns+` FROM cash_registers WHERE status = 'OPEN' LIMIT 1`))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open cash register: %w", err)
	}
	return reg, nil
}

// Update persiste estado, saldo y datos de cierre.
func (r *CashRegisterRepo) Update(ctx context.Context, reg *entity.CashRegister) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE cash_registers SET
			status = $2, current_amount = $3, counted_amount = $4, difference = $5, notes = $6,
			closed_by = $7, closed_at = $8, updated_at = $9
		WHERE id = $1`,
		reg.ID, string(reg.Status), reg.CurrentAmount, reg.CountedAmount, reg.Difference, reg.Notes,
		nullable(reg.ClosedBy), reg.ClosedAt, reg.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("update cash register", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista cajas, más recientes primero.
func (r *CashRegisterRepo) List(ctx context.Context, limit, offset int) ([]*entity.CashRegister, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+registerColumns+` FROM cash_registers
		ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash registers: %w", err)
	}
	defer rows.Close()
	var out []*entity.CashRegister
	for rows.Next() {
		reg, err := scanRegister(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash register: %w", err)
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}
