package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de la cantidad materializada sobre SQLite.
// Las cantidades se guardan en milésimas; el CHECK (quantity >= 0) del
// esquema es el piso duro contra stock negativo.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar db o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el registro de inventario de un producto. Si no existe devuelve
// un registro en cero (el producto aún no tiene fila materializada).
func (r *InventoryRepo) Get(ctx context.Context, productID int64) (*entity.Inventory, error) {
	query := `SELECT id, product_id, quantity FROM inventory WHERE product_id = ?`
	var inv entity.Inventory
	var mils int64
	err := r.q.QueryRowContext(ctx, query, productID).Scan(&inv.ID, &inv.ProductID, &mils)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &entity.Inventory{ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	inv.Quantity = entity.QuantityFromMils(mils)
	return &inv, nil
}

// Upsert inserta o actualiza la cantidad materializada de un producto.
func (r *InventoryRepo) Upsert(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (product_id, quantity)
		VALUES (?, ?)
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = excluded.quantity`
	if _, err := r.q.ExecContext(ctx, query, inv.ProductID, inv.Quantity.Mils()); err != nil {
		return fmt.Errorf("upsert inventory: %w", mapError(err))
	}
	return nil
}

// List devuelve el inventario completo.
func (r *InventoryRepo) List(ctx context.Context) ([]*entity.Inventory, error) {
	query := `SELECT id, product_id, quantity FROM inventory ORDER BY product_id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		var mils int64
		if err := rows.Scan(&inv.ID, &inv.ProductID, &mils); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		inv.Quantity = entity.QuantityFromMils(mils)
		list = append(list, &inv)
	}
	return list, rows.Err()
}
