package entity

import "time"

// Purchase es la cabecera de una compra a proveedor.
type Purchase struct {
	ID          int64
	Supplier    string
	Date        time.Time
	TotalAmount int64
}

// PurchaseItem es una línea de compra (sin utilidad).
type PurchaseItem struct {
	ID         int64
	PurchaseID int64
	ProductID  int64
	Quantity   Quantity
	UnitPrice  int64
}
