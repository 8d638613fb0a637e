package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.CashTransactionRepository = (*CashTransactionRepo)(nil)

// CashTransactionRepo transacciones de caja sobre PostgreSQL.
type CashTransactionRepo struct {
	q Querier
}

// NewCashTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashTransactionRepository(q Querier) *CashTransactionRepo {
	return &CashTransactionRepo{q: q}
}

const cashTxColumns = `id, register_id, type, amount, payment_method, sale_reference, description,
	created_by, created_at, updated_by, updated_at, deleted_by, deleted_at`

func scanCashTx(row pgx.Row) (*entity.CashTransaction, error) {
	var t entity.CashTransaction
	var createdBy, updatedBy, deletedBy *string
	err := row.Scan(&t.ID, &t.RegisterID, &t.Type, &t.Amount, &t.PaymentMethod, &t.SaleReference, &t.Description,
		&createdBy, &t.CreatedAt, &updatedBy, &t.UpdatedAt, &deletedBy, &t.DeletedAt)
	if err != nil {
		return nil, err
	}
	t.CreatedBy = deref(createdBy)
	t.UpdatedBy = deref(updatedBy)
	t.DeletedBy = deref(deletedBy)
	return &t, nil
}

// Create inserta la transacción.
func (r *CashTransactionRepo) Create(ctx context.Context, t *entity.CashTransaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_transactions (`+cashTxColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.RegisterID, string(t.Type), t.Amount, string(t.PaymentMethod), t.SaleReference, t.Description,
		nullable(t.CreatedBy), t.CreatedAt, nullable(t.UpdatedBy), t.UpdatedAt, nullable(t.DeletedBy), t.DeletedAt,
	)
	if err != nil {
		return wrapWrite("insert cash transaction", err)
	}
	return nil
}

// GetByID obtiene la transacción (incluidas las eliminadas) o nil.
func (r *CashTransactionRepo) GetByID(ctx context.Context, id string) (*entity.CashTransaction, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate igual que GetByID pero con SELECT ... FOR UPDATE. Usar dentro de TxRunner.RunCash.
func (r *CashTransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashTransaction, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *CashTransactionRepo) get(ctx context.Context, id, suffix string) (*entity.CashTransaction, error) {
	if !validID(id) {
		return nil, nil
	}
	t, err := scanCashTx(r.q.QueryRow(ctx, `SELECT `+cashTxColumns+` FROM cash_transactions WHERE id = $1`+suffix, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash transaction: %w", err)
	}
	return t, nil
}

// Update persiste cambios de contenido y el borrado lógico.
func (r *CashTransactionRepo) Update(ctx context.Context, t *entity.CashTransaction) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE cash_transactions SET
			type = $2, amount = $3, payment_method = $4, sale_reference = $5, description = $6,
			updated_by = $7, updated_at = $8, deleted_by = $9, deleted_at = $10
		WHERE id = $1`,
		t.ID, string(t.Type), t.Amount, string(t.PaymentMethod), t.SaleReference, t.Description,
		nullable(t.UpdatedBy), t.UpdatedAt, nullable(t.DeletedBy), t.DeletedAt,
	)
	if err != nil {
		return wrapWrite("update cash transaction", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve las transacciones de la caja en orden cronológico. Los límites de fecha son inclusivos.
func (r *CashTransactionRepo) List(ctx context.Context, f repository.CashTransactionFilter) ([]*entity.CashTransaction, error) {
	if !validID(f.RegisterID) {
		return nil, nil
	}
	conds := []string{"register_id = $1"}
	args := []any{f.RegisterID}
	if !f.IncludeDeleted {
		conds = append(conds, "deleted_at IS NULL")
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	rows, err := r.q.Query(ctx, `SELECT `+cashTxColumns+` FROM cash_transactions WHERE `+
		strings.Join(conds, " AND ")+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash transactions: %w", err)
	}
	defer rows.Close()
	var out []*entity.CashTransaction
	for rows.Next() {
		t, err := scanCashTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
