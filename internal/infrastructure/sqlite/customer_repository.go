package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de clientes sobre SQLite (usable con db o tx).
// La unicidad global del teléfono la exige el índice UNIQUE del esquema.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar db o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente. Teléfono duplicado -> violación de unicidad.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `INSERT INTO customers (name, phone) VALUES (?, ?)`
	name := (*string)(nil)
	if c.Name != "" {
		name = &c.Name
	}
	res, err := r.q.ExecContext(ctx, query, name, c.Phone)
	if err != nil {
		return fmt.Errorf("create customer: %w", mapError(err))
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

// GetByID obtiene un cliente por ID. Devuelve nil si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT id, name, phone FROM customers WHERE id = ?`, id)
}

// GetByPhone busca un cliente por su identificador de 9 dígitos.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT id, name, phone FROM customers WHERE phone = ?`, phone)
}

func (r *CustomerRepo) getOne(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	var c entity.Customer
	var name sql.NullString
	err := r.q.QueryRowContext(ctx, query, arg).Scan(&c.ID, &name, &c.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c.Name = name.String
	return &c, nil
}

// Delete elimina un cliente; sus códigos de departamento caen en cascada y
// las ventas asociadas quedan con customer_id en NULL.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete customer: %w", mapError(err))
	}
	return nil
}

// AddIdentifier asocia un código de departamento vigente al cliente.
func (r *CustomerRepo) AddIdentifier(ctx context.Context, customerID int64, code string) error {
	query := `INSERT INTO customer_identifiers (customer_id, code) VALUES (?, ?)`
	if _, err := r.q.ExecContext(ctx, query, customerID, code); err != nil {
		return fmt.Errorf("add customer identifier: %w", mapError(err))
	}
	return nil
}

// ListIdentifiers devuelve los códigos vigentes de un cliente.
func (r *CustomerRepo) ListIdentifiers(ctx context.Context, customerID int64) ([]*entity.CustomerIdentifier, error) {
	query := `
		SELECT id, customer_id, code
		FROM customer_identifiers WHERE customer_id = ? ORDER BY code`
	rows, err := r.q.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer identifiers: %w", err)
	}
	defer rows.Close()
	var list []*entity.CustomerIdentifier
	for rows.Next() {
		var ci entity.CustomerIdentifier
		if err := rows.Scan(&ci.ID, &ci.CustomerID, &ci.Code); err != nil {
			return nil, fmt.Errorf("scan customer identifier: %w", err)
		}
		list = append(list, &ci)
	}
	return list, rows.Err()
}

// RemoveIdentifier quita la asociación vigente (no se guarda historial).
func (r *CustomerRepo) RemoveIdentifier(ctx context.Context, customerID int64, code string) error {
	query := `DELETE FROM customer_identifiers WHERE customer_id = ? AND code = ?`
	if _, err := r.q.ExecContext(ctx, query, customerID, code); err != nil {
		return fmt.Errorf("remove customer identifier: %w", mapError(err))
	}
	return nil
}
