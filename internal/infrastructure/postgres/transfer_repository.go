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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados (cabecera + transfer_lines) sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, source_warehouse_id, target_warehouse_id, date, description, status,
	created_by, processed_by, processed_at, created_at, updated_at`

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var createdBy, processedBy *string
	err := row.Scan(&t.ID, &t.SourceWarehouseID, &t.TargetWarehouseID, &t.Date, &t.Description, &t.Status,
		&createdBy, &processedBy, &t.ProcessedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.CreatedBy = deref(createdBy)
	t.ProcessedBy = deref(processedBy)
	return &t, nil
}

// Create persiste la cabecera y sus líneas.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.SourceWarehouseID, t.TargetWarehouseID, t.Date, t.Description, string(t.Status),
		nullable(t.CreatedBy), nullable(t.ProcessedBy), t.ProcessedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert transfer", err)
	}
	if len(t.Lines) == 0 {
		return nil
	}
	return transferLines.replace(ctx, r.q, t.ID, t.Lines)
}

// GetByID obtiene el traslado con sus líneas.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate obtiene el traslado bloqueando la cabecera.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *TransferRepo) get(ctx context.Context, id, suffix string) (*entity.Transfer, error) {
	if !validID(id) {
		return nil, nil
	}
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`+suffix, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	lines, err := transferLines.load(ctx, r.q, t.ID)
	if err != nil {
		return nil, err
	}
	t.Lines = lines[t.ID]
	return t, nil
}

// Update persiste cabecera y reemplaza las líneas.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE transfers SET description = $2, status = $3, processed_by = $4, processed_at = $5, updated_at = $6
		WHERE id = $1`,
		t.ID, t.Description, string(t.Status), nullable(t.ProcessedBy), t.ProcessedAt, t.UpdatedAt)
	if err != nil {
		return wrapWrite("update transfer", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return transferLines.replace(ctx, r.q, t.ID, t.Lines)
}

// List lista traslados (más recientes primero) filtrando por estado y bodega origen o destino.
func (r *TransferRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Transfer, error) {
	where, args := documentWhere(f, "source_warehouse_id", "target_warehouse_id")
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM transfers %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		transferColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	var out []*entity.Transfer
	ids := make([]string, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	lines, err := transferLines.load(ctx, r.q, ids...)
	if err != nil {
		return nil, err
	}
	for _, t := range out {
		t.Lines = lines[t.ID]
	}
	return out, nil
}

// documentWhere arma el WHERE común de listados de documentos.
func documentWhere(f repository.DocumentFilter, warehouseColumns ...string) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.WarehouseID != "" && validID(f.WarehouseID) {
		args = append(args, f.WarehouseID)
		or := make([]string, 0, len(warehouseColumns))
		for _, c := range warehouseColumns {
			or = append(or, fmt.Sprintf("%s = $%d", c, len(args)))
		}
		conds = append(conds, "("+strings.Join(or, " OR ")+")")
	} else if f.WarehouseID != "" {
		conds = append(conds, "FALSE")
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
