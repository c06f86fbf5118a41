package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/puntoventa/inventario-core/internal/application/dto"
	"github.com/puntoventa/inventario-core/internal/domain"
	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
	"github.com/puntoventa/inventario-core/pkg/logger"
)

// UseCase es el Ledger Writer: el único componente autorizado a mutar la
// cantidad materializada. Cada operación es una transacción atómica que
// escribe el evento de movimiento y la actualización del caché como una sola
// unidad; tras cualquier falla la base queda exactamente como antes.
//
// Política de stock negativo: rechazo. Una venta o ajuste que llevaría la
// cantidad bajo cero falla con stock insuficiente en lugar de recortarse; el
// CHECK (quantity >= 0) del esquema es el piso duro detrás del pre-chequeo.
type UseCase struct {
	txRunner  repository.TxRunner
	movements repository.MovementRepository
	validate  *validator.Validate
	log       *logger.Logger
}

// NewUseCase construye el Ledger Writer.
func NewUseCase(txRunner repository.TxRunner, movements repository.MovementRepository, validate *validator.Validate, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, movements: movements, validate: validate, log: log}
}

// RecordPurchase registra una compra: persiste cabecera y líneas e incrementa
// el inventario por línea, todo en una transacción.
func (uc *UseCase) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) (*dto.PurchaseReceipt, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	type line struct {
		qty   entity.Quantity
		price int64
		id    int64
	}
	lines := make([]line, 0, len(req.Lines))
	var total int64
	for _, l := range req.Lines {
		qty, err := entity.NewQuantity(l.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if !qty.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad de compra debe ser positiva", domain.ErrInvalidInput)
		}
		total += entity.LineAmount(l.UnitPrice, qty)
		lines = append(lines, line{qty: qty, price: l.UnitPrice, id: l.ProductID})
	}

	purchase := &entity.Purchase{Supplier: req.Supplier, Date: date, TotalAmount: total}
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		items := make([]*entity.PurchaseItem, 0, len(lines))
		for _, l := range lines {
			product, err := repos.Products.GetByID(ctx, l.id)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %d", domain.ErrNotFound, l.id)
			}
			items = append(items, &entity.PurchaseItem{ProductID: l.id, Quantity: l.qty, UnitPrice: l.price})
		}
		if err := repos.Purchases.Create(ctx, purchase, items); err != nil {
			return err
		}
		// Segunda fase de la escritura: el caché materializado, línea a línea.
		for _, l := range lines {
			inv, err := repos.Inventory.Get(ctx, l.id)
			if err != nil {
				return err
			}
			inv.Quantity = inv.Quantity.Add(l.qty)
			if err := repos.Inventory.Upsert(ctx, inv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("purchase_id", purchase.ID).Str("supplier", purchase.Supplier).
		Int64("total", purchase.TotalAmount).Msg("compra registrada")
	return &dto.PurchaseReceipt{
		PurchaseID:  purchase.ID,
		Supplier:    purchase.Supplier,
		Date:        purchase.Date,
		TotalAmount: purchase.TotalAmount,
	}, nil
}

// RecordAdjustment aplica un delta con signo al inventario y persiste el
// evento de ajuste en la misma transacción. Rechaza resultados negativos.
func (uc *UseCase) RecordAdjustment(ctx context.Context, req dto.AdjustmentRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	delta, err := entity.NewQuantity(req.Delta)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if delta.IsZero() {
		return fmt.Errorf("%w: delta de ajuste en cero", domain.ErrInvalidInput)
	}

	err = uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		product, err := repos.Products.GetByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, req.ProductID)
		}
		inv, err := repos.Inventory.Get(ctx, req.ProductID)
		if err != nil {
			return err
		}
		newQty := inv.Quantity.Add(delta)
		if newQty.IsNegative() {
			return fmt.Errorf("%w: producto %d quedaría en %s", domain.ErrInsufficientStock, req.ProductID, newQty)
		}
		adj := &entity.Adjustment{
			ProductID: req.ProductID,
			Quantity:  delta,
			Reason:    req.Reason,
			Date:      time.Now(),
		}
		if err := repos.Adjustments.Create(ctx, adj); err != nil {
			return err
		}
		inv.Quantity = newQty
		return repos.Inventory.Upsert(ctx, inv)
	})
	if err != nil {
		return err
	}

	uc.log.Info().Int64("product_id", req.ProductID).Str("delta", delta.String()).
		Str("reason", req.Reason).Msg("ajuste registrado")
	return nil
}

// RecordCorrection persiste un ajuste documental SIN tocar la cantidad
// materializada. Lo usa el verificador de integridad para cerrar una deriva:
// el delta legitima el valor materializado registrando la diferencia no
// explicada como movimiento auditable, de modo que el historial vuelve a
// cuadrar con el caché sin sobreescrituras silenciosas.
func (uc *UseCase) RecordCorrection(ctx context.Context, productID int64, delta entity.Quantity, reason string) error {
	if delta.IsZero() {
		return nil
	}
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
		}
		return repos.Adjustments.Create(ctx, &entity.Adjustment{
			ProductID: productID,
			Quantity:  delta,
			Reason:    reason,
			Date:      time.Now(),
		})
	})
	if err != nil {
		return err
	}
	uc.log.Warn().Int64("product_id", productID).Str("delta", delta.String()).
		Str("reason", reason).Msg("corrección de integridad registrada")
	return nil
}

// AveragePurchasePrice devuelve el precio promedio de compra de un producto
// (cero si nunca se compró). Útil para reponer al costo histórico real.
func (uc *UseCase) AveragePurchasePrice(ctx context.Context, productID int64) (int64, error) {
	var avg int64
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
		}
		avg, err = repos.Purchases.AveragePrice(ctx, productID)
		return err
	})
	return avg, err
}

// ListSalesByCustomer devuelve los comprobantes de un cliente, más recientes
// primero.
func (uc *UseCase) ListSalesByCustomer(ctx context.Context, customerID int64) ([]dto.SaleReceipt, error) {
	var out []dto.SaleReceipt
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		customer, err := repos.Customers.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return fmt.Errorf("%w: cliente %d", domain.ErrNotFound, customerID)
		}
		sales, err := repos.Sales.ListByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		out = make([]dto.SaleReceipt, 0, len(sales))
		for _, s := range sales {
			out = append(out, dto.SaleReceipt{
				SaleID:      s.ID,
				ReceiptID:   s.ReceiptID,
				CustomerID:  s.CustomerID,
				Date:        s.Date,
				TotalAmount: s.TotalAmount,
				TotalProfit: s.TotalProfit,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetMovementHistory devuelve el historial unificado de movimientos de un
// producto en orden cronológico.
func (uc *UseCase) GetMovementHistory(ctx context.Context, productID int64) ([]dto.MovementDTO, error) {
	movements, err := uc.movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementDTO{
			Kind:      m.Kind,
			RefID:     m.RefID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity.Decimal(),
			Date:      m.Date,
			Detail:    m.Detail,
		})
	}
	return out, nil
}
