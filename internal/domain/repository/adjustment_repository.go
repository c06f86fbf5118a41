package repository

import (
	"context"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
)

// AdjustmentRepository define el puerto de ajustes manuales de inventario.
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.Adjustment) error
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Adjustment, error)
}
