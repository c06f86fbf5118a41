package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
// Cada operación del ledger es una unidad begin/aplicar/commit-o-rollback:
// ningún caller observa una transacción aplicada a medias.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner con el manejador de escritura.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Un error de constraint en cualquier punto aborta la
// unidad completa y restaura el estado previo.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.LedgerRepos) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	repos := repository.LedgerRepos{
		Products:    NewProductRepository(tx),
		Categories:  NewCategoryRepository(tx),
		Customers:   NewCustomerRepository(tx),
		Inventory:   NewInventoryRepository(tx),
		Sales:       NewSaleRepository(tx),
		Purchases:   NewPurchaseRepository(tx),
		Adjustments: NewAdjustmentRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}
