package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/puntoventa/inventario-core/internal/application/dto"
	"github.com/puntoventa/inventario-core/internal/domain"
	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
)

// RecordSale registra una venta completa como una transacción: por cada línea
// valida el producto, calcula la utilidad con redondeo individual y
// decrementa el inventario; la cabecera agrega monto y utilidad totales.
// Cualquier falla (producto o cliente inexistente, stock insuficiente)
// revierte la unidad completa: ninguna línea queda aplicada a medias.
func (uc *UseCase) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleReceipt, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	type line struct {
		productID int64
		qty       entity.Quantity
		unitPrice *int64
	}
	lines := make([]line, 0, len(req.Lines))
	for _, l := range req.Lines {
		qty, err := entity.NewQuantity(l.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if !qty.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad de venta debe ser positiva", domain.ErrInvalidInput)
		}
		lines = append(lines, line{productID: l.ProductID, qty: qty, unitPrice: l.UnitPrice})
	}

	sale := &entity.Sale{
		CustomerID: req.CustomerID,
		Date:       date,
		ReceiptID:  uuid.New().String(),
	}
	var receiptLines []dto.SaleReceiptLine

	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		if req.CustomerID != nil {
			customer, err := repos.Customers.GetByID(ctx, *req.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return fmt.Errorf("%w: cliente %d", domain.ErrNotFound, *req.CustomerID)
			}
		}

		items := make([]*entity.SaleItem, 0, len(lines))
		receiptLines = receiptLines[:0]
		sale.TotalAmount, sale.TotalProfit = 0, 0
		for _, l := range lines {
			product, err := repos.Products.GetByID(ctx, l.productID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %d", domain.ErrNotFound, l.productID)
			}
			unitPrice := product.SellPrice
			if l.unitPrice != nil {
				unitPrice = *l.unitPrice
			}
			profit := entity.LineProfit(unitPrice, product.CostPrice, l.qty)
			sale.TotalAmount += entity.LineAmount(unitPrice, l.qty)
			sale.TotalProfit += profit
			items = append(items, &entity.SaleItem{
				ProductID: l.productID,
				Quantity:  l.qty,
				UnitPrice: unitPrice,
				Profit:    profit,
			})
			receiptLines = append(receiptLines, dto.SaleReceiptLine{
				ProductID: l.productID,
				Quantity:  l.qty.Decimal(),
				UnitPrice: unitPrice,
				Profit:    profit,
			})
		}

		// Primera fase: el evento de movimiento (cabecera + líneas).
		if err := repos.Sales.Create(ctx, sale, items); err != nil {
			return err
		}
		// Segunda fase: el caché materializado, con el pre-chequeo de stock.
		for _, it := range items {
			inv, err := repos.Inventory.Get(ctx, it.ProductID)
			if err != nil {
				return err
			}
			newQty := inv.Quantity.Sub(it.Quantity)
			if newQty.IsNegative() {
				return fmt.Errorf("%w: producto %d quedaría en %s", domain.ErrInsufficientStock, it.ProductID, newQty)
			}
			inv.Quantity = newQty
			if err := repos.Inventory.Upsert(ctx, inv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("sale_id", sale.ID).Str("receipt_id", sale.ReceiptID).
		Int64("total", sale.TotalAmount).Int64("profit", sale.TotalProfit).Msg("venta registrada")
	return &dto.SaleReceipt{
		SaleID:      sale.ID,
		ReceiptID:   sale.ReceiptID,
		CustomerID:  sale.CustomerID,
		Date:        sale.Date,
		TotalAmount: sale.TotalAmount,
		TotalProfit: sale.TotalProfit,
		Lines:       receiptLines,
	}, nil
}

// VoidSale anula una venta sin restricción de tiempo: reincrementa el stock
// de cada línea y elimina cabecera y líneas, todo en una transacción. La
// venta anulada desaparece del historial; la anulación queda en el log.
func (uc *UseCase) VoidSale(ctx context.Context, saleID int64) error {
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		sale, err := repos.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %d", domain.ErrNotFound, saleID)
		}
		items, err := repos.Sales.GetItems(ctx, saleID)
		if err != nil {
			return err
		}
		for _, it := range items {
			inv, err := repos.Inventory.Get(ctx, it.ProductID)
			if err != nil {
				return err
			}
			inv.Quantity = inv.Quantity.Add(it.Quantity)
			if err := repos.Inventory.Upsert(ctx, inv); err != nil {
				return err
			}
		}
		return repos.Sales.Delete(ctx, saleID)
	})
	if err != nil {
		return err
	}

	uc.log.Info().Int64("sale_id", saleID).Msg("venta anulada")
	return nil
}
