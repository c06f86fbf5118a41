package entity

import "time"

// Sale es la cabecera de una venta: totales agregados desde las líneas y un
// receipt id único. CustomerID es opcional (venta sin cliente registrado).
type Sale struct {
	ID          int64
	CustomerID  *int64
	Date        time.Time
	TotalAmount int64
	TotalProfit int64
	ReceiptID   string
}

// SaleItem es una línea de venta. La utilidad se calcula por línea con
// redondeo individual: (precio unitario − costo del producto) × cantidad.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  Quantity
	UnitPrice int64
	Profit    int64
}
