package repository

import (
	"context"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
)

// MovementRepository define el puerto de lectura sobre el historial unificado
// de movimientos y su contraste con la cantidad materializada.
type MovementRepository interface {
	// ListByProduct devuelve los movimientos de un producto en orden
	// cronológico: líneas de venta (negativas), de compra (positivas) y ajustes.
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Movement, error)
	// ListDrift recalcula la cantidad esperada desde las tres tablas de
	// movimientos y devuelve las discrepancias con el valor materializado.
	// Con productID nil revisa todos los productos.
	ListDrift(ctx context.Context, productID *int64) ([]*entity.Drift, error)
}
