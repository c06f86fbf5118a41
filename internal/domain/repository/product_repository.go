package repository

import (
	"context"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
)

// ProductRepository define el puerto de catálogo de productos.
// Delete está restringido por FK si el producto aparece en líneas de venta o compra.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id int64) error
}
