package repository

import (
	"context"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
)

// CategoryRepository define el puerto de categorías. Borrar una categoría
// deja en NULL la referencia de sus productos (nunca falla por uso).
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Delete(ctx context.Context, id int64) error
}
