package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de ventas sobre SQLite (usable con db o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar db o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera y líneas. Se asume dentro de la transacción del
// Ledger Writer; las líneas son inmutables una vez confirmadas.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem) error {
	query := `
		INSERT INTO sales (customer_id, date, total_amount, total_profit, receipt_id)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, query,
		sale.CustomerID, formatDate(sale.Date), sale.TotalAmount, sale.TotalProfit, sale.ReceiptID)
	if err != nil {
		return fmt.Errorf("create sale: %w", mapError(err))
	}
	sale.ID, _ = res.LastInsertId()

	itemQuery := `
		INSERT INTO sale_items (sale_id, product_id, quantity, price, profit)
		VALUES (?, ?, ?, ?, ?)`
	for _, it := range items {
		it.SaleID = sale.ID
		res, err := r.q.ExecContext(ctx, itemQuery,
			it.SaleID, it.ProductID, it.Quantity.Mils(), it.UnitPrice, it.Profit)
		if err != nil {
			return fmt.Errorf("create sale item: %w", mapError(err))
		}
		it.ID, _ = res.LastInsertId()
	}
	return nil
}

// GetByID obtiene la cabecera de una venta. Devuelve nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	query := `
		SELECT id, customer_id, date, total_amount, total_profit, receipt_id
		FROM sales WHERE id = ?`
	var s entity.Sale
	var date string
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.CustomerID, &date, &s.TotalAmount, &s.TotalProfit, &s.ReceiptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetItems devuelve las líneas de una venta.
func (r *SaleRepo) GetItems(ctx context.Context, saleID int64) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, price, profit
		FROM sale_items WHERE sale_id = ? ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		var mils int64
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &mils, &it.UnitPrice, &it.Profit); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.Quantity = entity.QuantityFromMils(mils)
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListByCustomer devuelve las ventas de un cliente, más recientes primero.
func (r *SaleRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Sale, error) {
	query := `
		SELECT id, customer_id, date, total_amount, total_profit, receipt_id
		FROM sales WHERE customer_id = ? ORDER BY date DESC`
	rows, err := r.q.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list sales by customer: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var date string
		if err := rows.Scan(&s.ID, &s.CustomerID, &date, &s.TotalAmount, &s.TotalProfit, &s.ReceiptID); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if s.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina cabecera y líneas (CASCADE). La anulación de la venta
// completa es la única forma de quitar movimientos del historial.
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete sale: %w", mapError(err))
	}
	return nil
}
