package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProviderReturnRepository = (*ProviderReturnRepo)(nil)

// ProviderReturnRepo devoluciones a proveedor sobre PostgreSQL.
type ProviderReturnRepo struct {
	q Querier
}

// NewProviderReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProviderReturnRepository(q Querier) *ProviderReturnRepo {
	return &ProviderReturnRepo{q: q}
}

const returnColumns = `id, source_warehouse_id, provider_id, date, description, status,
	created_by, processed_by, processed_at, created_at, updated_at`

func scanReturn(row pgx.Row) (*entity.ProviderReturn, error) {
	var ret entity.ProviderReturn
	var createdBy, processedBy *string
	err := row.Scan(&ret.ID, &ret.SourceWarehouseID, &ret.ProviderID, &ret.Date, &ret.Description, &ret.Status,
		&createdBy, &processedBy, &ret.ProcessedAt, &ret.CreatedAt, &ret.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ret.CreatedBy = deref(createdBy)
	ret.ProcessedBy = deref(processedBy)
	return &ret, nil
}

// Create persiste la cabecera y sus líneas.
func (r *ProviderReturnRepo) Create(ctx context.Context, ret *entity.ProviderReturn) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO provider_returns (`+returnColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ret.ID, ret.SourceWarehouseID, ret.ProviderID, ret.Date, ret.Description, string(ret.Status),
		nullable(ret.CreatedBy), nullable(ret.ProcessedBy), ret.ProcessedAt, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert provider return", err)
	}
	if len(ret.Lines) == 0 {
		return nil
	}
	return returnLines.replace(ctx, r.q, ret.ID, ret.Lines)
}

// GetByID obtiene la devolución con sus líneas.
func (r *ProviderReturnRepo) GetByID(ctx context.Context, id string) (*entity.ProviderReturn, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate obtiene la devolución bloqueando la cabecera.
func (r *ProviderReturnRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProviderReturn, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *ProviderReturnRepo) get(ctx context.Context, id, suffix string) (*entity.ProviderReturn, error) {
	if !validID(id) {
		return nil, nil
	}
	ret, err := scanReturn(r.q.QueryRow(ctx, `SELECT `+returnColumns+` FROM provider_returns WHERE id = $1`+suffix, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider return: %w", err)
	}
	lines, err := returnLines.load(ctx, r.q, ret.ID)
	if err != nil {
		return nil, err
	}
	ret.Lines = lines[ret.ID]
	return ret, nil
}

// Update persiste cabecera y reemplaza las líneas.
func (r *ProviderReturnRepo) Update(ctx context.Context, ret *entity.ProviderReturn) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE provider_returns SET description = $2, status = $3, processed_by = $4, processed_at = $5, updated_at = $6
		WHERE id = $1`,
		ret.ID, ret.Description, string(ret.Status), nullable(ret.ProcessedBy), ret.ProcessedAt, ret.UpdatedAt)
	if err != nil {
		return wrapWrite("update provider return", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return returnLines.replace(ctx, r.q, ret.ID, ret.Lines)
}

// List lista devoluciones (más recientes primero) por estado y bodega origen.
func (r *ProviderReturnRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.ProviderReturn, error) {
	where, args := documentWhere(f, "source_warehouse_id")
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM provider_returns %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		returnColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list provider returns: %w", err)
	}
	var out []*entity.ProviderReturn
	ids := make([]string, 0)
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan provider return: %w", err)
		}
		out = append(out, ret)
		ids = append(ids, ret.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	lines, err := returnLines.load(ctx, r.q, ids...)
	if err != nil {
		return nil, err
	}
	for _, ret := range out {
		ret.Lines = lines[ret.ID]
	}
	return out, nil
}
