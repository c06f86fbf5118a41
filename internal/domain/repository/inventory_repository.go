package repository

import (
	"context"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
)

// InventoryRepository define el puerto sobre la cantidad materializada.
// Solo el Ledger Writer lo usa en modo escritura, siempre dentro de una
// transacción.
type InventoryRepository interface {
	Get(ctx context.Context, productID int64) (*entity.Inventory, error)
	Upsert(ctx context.Context, inv *entity.Inventory) error
	List(ctx context.Context) ([]*entity.Inventory, error)
}
