package sqlite

import (
	"context"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de ajustes sobre SQLite (usable con db o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar db o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste un evento de ajuste (delta en milésimas, con signo).
func (r *AdjustmentRepo) Create(ctx context.Context, adj *entity.Adjustment) error {
	query := `INSERT INTO adjustments (product_id, quantity, reason, date) VALUES (?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, query, adj.ProductID, adj.Quantity.Mils(), adj.Reason, formatDate(adj.Date))
	if err != nil {
		return fmt.Errorf("create adjustment: %w", mapError(err))
	}
	adj.ID, _ = res.LastInsertId()
	return nil
}

// ListByProduct devuelve los ajustes de un producto en orden cronológico.
func (r *AdjustmentRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Adjustment, error) {
	query := `
		SELECT id, product_id, quantity, reason, date
		FROM adjustments WHERE product_id = ? ORDER BY date, id`
	rows, err := r.q.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Adjustment
	for rows.Next() {
		var a entity.Adjustment
		var mils int64
		var date string
		if err := rows.Scan(&a.ID, &a.ProductID, &mils, &a.Reason, &date); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		a.Quantity = entity.QuantityFromMils(mils)
		if a.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
