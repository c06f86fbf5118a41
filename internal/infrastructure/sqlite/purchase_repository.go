package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de compras sobre SQLite (usable con db o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar db o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste cabecera y líneas de una compra.
func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase, items []*entity.PurchaseItem) error {
	query := `INSERT INTO purchases (supplier, date, total_amount) VALUES (?, ?, ?)`
	res, err := r.q.ExecContext(ctx, query, purchase.Supplier, formatDate(purchase.Date), purchase.TotalAmount)
	if err != nil {
		return fmt.Errorf("create purchase: %w", mapError(err))
	}
	purchase.ID, _ = res.LastInsertId()

	itemQuery := `
		INSERT INTO purchase_items (purchase_id, product_id, quantity, price)
		VALUES (?, ?, ?, ?)`
	for _, it := range items {
		it.PurchaseID = purchase.ID
		res, err := r.q.ExecContext(ctx, itemQuery, it.PurchaseID, it.ProductID, it.Quantity.Mils(), it.UnitPrice)
		if err != nil {
			return fmt.Errorf("create purchase item: %w", mapError(err))
		}
		it.ID, _ = res.LastInsertId()
	}
	return nil
}

// GetByID obtiene la cabecera de una compra. Devuelve nil si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id int64) (*entity.Purchase, error) {
	query := `SELECT id, supplier, date, total_amount FROM purchases WHERE id = ?`
	var p entity.Purchase
	var date string
	err := r.q.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Supplier, &date, &p.TotalAmount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	if p.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetItems devuelve las líneas de una compra.
func (r *PurchaseRepo) GetItems(ctx context.Context, purchaseID int64) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, price
		FROM purchase_items WHERE purchase_id = ? ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase items: %w", err)
	}
	defer rows.Close()
	var items []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		var mils int64
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &mils, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		it.Quantity = entity.QuantityFromMils(mils)
		items = append(items, &it)
	}
	return items, rows.Err()
}

// AveragePrice devuelve el precio promedio de compra de un producto,
// redondeado a entero; cero si nunca se compró.
func (r *PurchaseRepo) AveragePrice(ctx context.Context, productID int64) (int64, error) {
	query := `
		SELECT CAST(COALESCE(ROUND(AVG(price)), 0) AS INTEGER)
		FROM purchase_items WHERE product_id = ?`
	var avg int64
	if err := r.q.QueryRowContext(ctx, query, productID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average purchase price: %w", err)
	}
	return avg, nil
}
