package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// lineTable describe la tabla de detalle de un tipo de documento (transfer_lines, provider_return_lines).
type lineTable struct {
	name string
	fk   string
}

var (
	transferLines = lineTable{name: "transfer_lines", fk: "transfer_id"}
	returnLines   = lineTable{name: "provider_return_lines", fk: "return_id"}
)

// replace borra y vuelve a insertar las líneas del documento en un solo batch.
func (t lineTable) replace(ctx context.Context, q Querier, docID string, lines []entity.DetailLine) error {
	b := &pgx.Batch{}
	b.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.fk), docID)
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, line_no, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`, t.name, t.fk)
	for i, l := range lines {
		b.Queue(insert, docID, i+1, l.ProductID, l.Quantity, l.UnitPrice)
	}
	br := q.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return wrapWrite("save "+t.name, err)
		}
	}
	return br.Close()
}

// load devuelve las líneas de varios documentos agrupadas por id, en orden de line_no.
func (t lineTable) load(ctx context.Context, q Querier, docIDs ...string) (map[string][]entity.DetailLine, error) {
	out := make(map[string][]entity.DetailLine, len(docIDs))
	if len(docIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s, product_id, quantity, unit_price FROM %s
		WHERE %s = ANY($1) ORDER BY %s, line_no`, t.fk, t.name, t.fk, t.fk), docIDs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var docID string
		var l entity.DetailLine
		if err := rows.Scan(&docID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out[docID] = append(out[docID], l)
	}
	return out, rows.Err()
}
