package entity

import "time"

// Clases de movimiento de inventario.
const (
	MovementKindSale       = "sale"
	MovementKindPurchase   = "purchase"
	MovementKindAdjustment = "adjustment"
)

// Movement es la vista unificada del historial de movimientos de un producto:
// líneas de venta (cantidad negativa), líneas de compra (positiva) y ajustes
// (con signo). RefID apunta a la venta/compra/ajuste de origen.
type Movement struct {
	Kind      string
	RefID     int64
	ProductID int64
	Quantity  Quantity
	Date      time.Time
	Detail    string // proveedor o razón de ajuste; vacío en ventas
}

// Drift es una discrepancia entre la cantidad materializada y la recalculada
// desde el historial de movimientos.
type Drift struct {
	ProductID int64
	Expected  Quantity
	Actual    Quantity
}
