package sqlite

import (
	"context"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo lectura del historial unificado de movimientos. Usa su propio
// Querier (normalmente la conexión de solo lectura) y nunca muta estado.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de historial.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// ListByProduct une las tres tablas de movimientos en orden cronológico.
// Las líneas de venta salen negadas: son salidas de stock.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Movement, error) {
	query := `
		SELECT 'sale' AS kind, si.sale_id AS ref_id, si.product_id, -si.quantity AS quantity, s.date, '' AS detail
		FROM sale_items si JOIN sales s ON s.id = si.sale_id
		WHERE si.product_id = ?
		UNION ALL
		SELECT 'purchase', pi.purchase_id, pi.product_id, pi.quantity, p.date, p.supplier
		FROM purchase_items pi JOIN purchases p ON p.id = pi.purchase_id
		WHERE pi.product_id = ?
		UNION ALL
		SELECT 'adjustment', a.id, a.product_id, a.quantity, a.date, a.reason
		FROM adjustments a
		WHERE a.product_id = ?
		ORDER BY date, ref_id`
	rows, err := r.q.QueryContext(ctx, query, productID, productID, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var mils int64
		var date string
		if err := rows.Scan(&m.Kind, &m.RefID, &m.ProductID, &mils, &date, &m.Detail); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Quantity = entity.QuantityFromMils(mils)
		if m.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListDrift recalcula la cantidad esperada por producto desde las tres tablas
// de movimientos y devuelve solo las filas donde difiere del valor
// materializado. Dos corridas sin escrituras intermedias reportan lo mismo.
func (r *MovementRepo) ListDrift(ctx context.Context, productID *int64) ([]*entity.Drift, error) {
	query := `
		SELECT p.id,
		       COALESCE((SELECT SUM(quantity) FROM purchase_items WHERE product_id = p.id), 0)
		     - COALESCE((SELECT SUM(quantity) FROM sale_items     WHERE product_id = p.id), 0)
		     + COALESCE((SELECT SUM(quantity) FROM adjustments    WHERE product_id = p.id), 0) AS expected,
		       COALESCE(i.quantity, 0) AS actual
		FROM products p
		LEFT JOIN inventory i ON i.product_id = p.id`
	args := []any{}
	if productID != nil {
		query += ` WHERE p.id = ?`
		args = append(args, *productID)
	}
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drift: %w", err)
	}
	defer rows.Close()
	var drifts []*entity.Drift
	for rows.Next() {
		var id, expected, actual int64
		if err := rows.Scan(&id, &expected, &actual); err != nil {
			return nil, fmt.Errorf("scan drift: %w", err)
		}
		if expected == actual {
			continue
		}
		drifts = append(drifts, &entity.Drift{
			ProductID: id,
			Expected:  entity.QuantityFromMils(expected),
			Actual:    entity.QuantityFromMils(actual),
		})
	}
	return drifts, rows.Err()
}
