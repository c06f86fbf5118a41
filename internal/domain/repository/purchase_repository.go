package repository

import (
	"context"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
)

// PurchaseRepository define el puerto de compras a proveedor.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase, items []*entity.PurchaseItem) error
	GetByID(ctx context.Context, id int64) (*entity.Purchase, error)
	GetItems(ctx context.Context, purchaseID int64) ([]*entity.PurchaseItem, error)
	// AveragePrice devuelve el precio promedio de compra de un producto
	// (cero si nunca se compró).
	AveragePrice(ctx context.Context, productID int64) (int64, error)
}
