package repository

import "context"

// LedgerRepos agrupa los repositorios atados a una misma transacción que
// necesita el Ledger Writer, el único componente autorizado a mutar stock.
type LedgerRepos struct {
	Products    ProductRepository
	Categories  CategoryRepository
	Customers   CustomerRepository
	Inventory   InventoryRepository
	Sales       SaleRepository
	Purchases   PurchaseRepository
	Adjustments AdjustmentRepository
}

// TxRunner ejecuta fn dentro de una transacción atómica: commit si fn
// devuelve nil, rollback completo en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos LedgerRepos) error) error
}
