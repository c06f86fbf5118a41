package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// SaleLineRequest línea de venta entrante. UnitPrice nil usa el precio de
// venta del producto; Quantity viene en punto fijo de 3 decimales.
type SaleLineRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice *int64          `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

// RecordSaleRequest venta completa. Date en cero usa la hora actual.
type RecordSaleRequest struct {
	CustomerID *int64            `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	Date       time.Time         `json:"date"`
	Lines      []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseLineRequest línea de compra entrante.
type PurchaseLineRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice int64           `json:"unit_price" validate:"gte=0"`
}

// RecordPurchaseRequest compra completa a proveedor.
type RecordPurchaseRequest struct {
	Supplier string                `json:"supplier" validate:"required"`
	Date     time.Time             `json:"date"`
	Lines    []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// AdjustmentRequest ajuste manual de inventario (delta con signo).
type AdjustmentRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason" validate:"required"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// SaleReceiptLine línea confirmada de una venta.
type SaleReceiptLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice int64           `json:"unit_price"`
	Profit    int64           `json:"profit"`
}

// SaleReceipt comprobante de una venta confirmada.
type SaleReceipt struct {
	SaleID      int64             `json:"sale_id"`
	ReceiptID   string            `json:"receipt_id"`
	CustomerID  *int64            `json:"customer_id,omitempty"`
	Date        time.Time         `json:"date"`
	TotalAmount int64             `json:"total_amount"`
	TotalProfit int64             `json:"total_profit"`
	Lines       []SaleReceiptLine `json:"lines"`
}

// PurchaseReceipt comprobante de una compra confirmada.
type PurchaseReceipt struct {
	PurchaseID  int64     `json:"purchase_id"`
	Supplier    string    `json:"supplier"`
	Date        time.Time `json:"date"`
	TotalAmount int64     `json:"total_amount"`
}

// MovementDTO un movimiento del historial unificado de un producto.
type MovementDTO struct {
	Kind      string          `json:"kind"` // sale | purchase | adjustment
	RefID     int64           `json:"ref_id"`
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"` // con signo
	Date      time.Time       `json:"date"`
	Detail    string          `json:"detail,omitempty"`
}

// DriftRecord discrepancia reportada por el verificador de integridad.
type DriftRecord struct {
	ProductID int64           `json:"product_id"`
	Expected  decimal.Decimal `json:"expected"`
	Actual    decimal.Decimal `json:"actual"`
}
