package repository

import (
	"context"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
)

// CustomerRepository define el puerto de clientes y sus códigos de departamento.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Delete(ctx context.Context, id int64) error
	// AddIdentifier asocia un código de departamento vigente; los códigos de
	// un cliente se eliminan en cascada con su dueño.
	AddIdentifier(ctx context.Context, customerID int64, code string) error
	ListIdentifiers(ctx context.Context, customerID int64) ([]*entity.CustomerIdentifier, error)
	RemoveIdentifier(ctx context.Context, customerID int64, code string) error
}
