package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/puntoventa/inventario-core/internal/application/dto"
	"github.com/puntoventa/inventario-core/internal/domain"
	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
	"github.com/puntoventa/inventario-core/pkg/logger"
)

// UseCase administra el catálogo: productos, categorías y clientes.
// El alta de un producto crea su registro de inventario en cero dentro de la
// misma transacción; desde ahí toda mutación de cantidad pasa por el ledger.
type UseCase struct {
	txRunner repository.TxRunner
	validate *validator.Validate
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(txRunner repository.TxRunner, validate *validator.Validate, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, validate: validate, log: log}
}

// CreateProduct da de alta un producto junto con su inventario en cero.
func (uc *UseCase) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*entity.Product, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	product := &entity.Product{
		Name:       req.Name,
		Barcode:    req.Barcode,
		CategoryID: req.CategoryID,
		CostPrice:  req.CostPrice,
		SellPrice:  req.SellPrice,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		return repos.Inventory.Upsert(ctx, &entity.Inventory{ProductID: product.ID})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("producto creado")
	return product, nil
}

// DeleteProduct elimina un producto del catálogo. Si aparece en líneas de
// venta o compra la FK RESTRICT lo impide y la operación falla.
func (uc *UseCase) DeleteProduct(ctx context.Context, productID int64) error {
	return uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
		}
		return repos.Products.Delete(ctx, productID)
	})
}

// CreateCustomer da de alta un cliente con su identificador de 9 dígitos.
func (uc *UseCase) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*entity.Customer, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	customer := &entity.Customer{Name: req.Name, Phone: req.Phone}
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		return repos.Customers.Create(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("customer_id", customer.ID).Msg("cliente creado")
	return customer, nil
}

// AddCustomerIdentifier asocia un código de departamento vigente.
func (uc *UseCase) AddCustomerIdentifier(ctx context.Context, req dto.AddIdentifierRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		customer, err := repos.Customers.GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return fmt.Errorf("%w: cliente %d", domain.ErrNotFound, req.CustomerID)
		}
		return repos.Customers.AddIdentifier(ctx, req.CustomerID, req.Code)
	})
}

// CreateCategory da de alta una categoría (nombre único).
func (uc *UseCase) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*entity.Category, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	category := &entity.Category{Name: req.Name}
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		return repos.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory elimina una categoría; sus productos quedan sin categoría
// (SET NULL) en lugar de fallar.
func (uc *UseCase) DeleteCategory(ctx context.Context, categoryID int64) error {
	return uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		category, err := repos.Categories.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, categoryID)
		}
		return repos.Categories.Delete(ctx, categoryID)
	})
}
