package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar db o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = "id, name, barcode, category_id, cost_price, sell_price"

// Create persiste un producto nuevo.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (name, barcode, category_id, cost_price, sell_price)
		VALUES (?, ?, ?, ?, ?)`
	barcode := (*string)(nil)
	if p.Barcode != "" {
		barcode = &p.Barcode
	}
	res, err := r.q.ExecContext(ctx, query, p.Name, barcode, p.CategoryID, p.CostPrice, p.SellPrice)
	if err != nil {
		return fmt.Errorf("create product: %w", mapError(err))
	}
	p.ID, _ = res.LastInsertId()
	return nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByBarcode busca un producto por código de barras (índice dedicado).
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = ?`
	return r.scanOne(r.q.QueryRowContext(ctx, query, barcode))
}

// List devuelve el catálogo completo ordenado por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza nombre, código de barras, categoría y precios.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = ?, barcode = ?, category_id = ?, cost_price = ?, sell_price = ?
		WHERE id = ?`
	barcode := (*string)(nil)
	if p.Barcode != "" {
		barcode = &p.Barcode
	}
	if _, err := r.q.ExecContext(ctx, query, p.Name, barcode, p.CategoryID, p.CostPrice, p.SellPrice, p.ID); err != nil {
		return fmt.Errorf("update product: %w", mapError(err))
	}
	return nil
}

// Delete elimina un producto. Falla con violación de constraint si está
// referenciado por líneas de venta o compra (RESTRICT).
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product: %w", mapError(err))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ProductRepo) scanOne(row *sql.Row) (*entity.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func scanProduct(s rowScanner) (*entity.Product, error) {
	var p entity.Product
	var barcode sql.NullString
	if err := s.Scan(&p.ID, &p.Name, &barcode, &p.CategoryID, &p.CostPrice, &p.SellPrice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Barcode = barcode.String
	return &p, nil
}
