package repository

import (
	"context"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
)

// SaleRepository define el puerto de ventas (cabecera + líneas).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID int64) ([]*entity.SaleItem, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Sale, error)
	// Delete elimina cabecera y líneas; el efecto sobre el stock lo revierte
	// el Ledger Writer en la misma transacción.
	Delete(ctx context.Context, id int64) error
}
