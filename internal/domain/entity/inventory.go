package entity

// Inventory es la cantidad materializada por producto: un caché derivado del
// historial de movimientos, nunca la fuente de verdad. El invariante es
//
//	quantity == Σ compras − Σ ventas no anuladas + Σ ajustes
//
// entre transacciones confirmadas; el verificador de integridad detecta y
// repara cualquier deriva.
type Inventory struct {
	ID        int64
	ProductID int64
	Quantity  Quantity
}
