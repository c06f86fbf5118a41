package entity

// Product representa un producto del catálogo. Los precios de costo y venta
// son montos enteros no negativos; el stock vive en Inventory.
type Product struct {
	ID         int64
	Name       string
	Barcode    string // opcional, único cuando existe
	CategoryID *int64 // opcional; SET NULL al borrar la categoría
	CostPrice  int64
	SellPrice  int64
}
