package ledger_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puntoventa/inventario-core/internal/application/catalog"
	"github.com/puntoventa/inventario-core/internal/application/dto"
	"github.com/puntoventa/inventario-core/internal/application/ledger"
	"github.com/puntoventa/inventario-core/internal/domain"
	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/infrastructure/sqlite"
	"github.com/puntoventa/inventario-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// testEnv levanta un almacén SQLite real en un directorio temporal con el
// esquema aplicado, más los casos de uso cableados como en producción.
type testEnv struct {
	db      *sql.DB
	ledger  *ledger.UseCase
	catalog *catalog.UseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "ledger_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	log := logger.New(logger.Config{Env: "development", Level: "error"})
	validate := dto.NewValidator()
	txRunner := sqlite.NewTxRunner(db)
	movements := sqlite.NewMovementRepository(db)

	return &testEnv{
		db:      db,
		ledger:  ledger.NewUseCase(txRunner, movements, validate, log),
		catalog: catalog.NewUseCase(txRunner, validate, log),
	}
}

// seedProduct crea un producto y devuelve su ID.
func (e *testEnv) seedProduct(t *testing.T, name string, cost, sell int64) int64 {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name:      name,
		CostPrice: cost,
		SellPrice: sell,
	})
	require.NoError(t, err)
	return p.ID
}

// seedStock compra n unidades del producto para dejarlo con stock.
func (e *testEnv) seedStock(t *testing.T, productID, units, unitPrice int64) {
	t.Helper()
	_, err := e.ledger.RecordPurchase(context.Background(), dto.RecordPurchaseRequest{
		Supplier: "Proveedor Central",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(units), UnitPrice: unitPrice},
		},
	})
	require.NoError(t, err)
}

// stockOf lee la cantidad materializada directo de la base.
func (e *testEnv) stockOf(t *testing.T, productID int64) string {
	t.Helper()
	inv, err := sqlite.NewInventoryRepository(e.db).Get(context.Background(), productID)
	require.NoError(t, err)
	return inv.Quantity.String()
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// findMovement busca el primer movimiento de una clase dada. Los movimientos
// del mismo segundo empatan en el orden cronológico, así que los tests buscan
// por clase en vez de por posición.
func findMovement(t *testing.T, history []dto.MovementDTO, kind string) dto.MovementDTO {
	t.Helper()
	for _, m := range history {
		if m.Kind == kind {
			return m
		}
	}
	t.Fatalf("no hay movimiento de clase %q en %d movimientos", kind, len(history))
	return dto.MovementDTO{}
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPurchase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)

	receipt, err := env.ledger.RecordPurchase(ctx, dto.RecordPurchaseRequest{
		Supplier: "Proveedor Central",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: productID, Quantity: qty("10.5"), UnitPrice: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1050), receipt.TotalAmount)
	assert.Equal(t, "10.500", env.stockOf(t, productID))

	history, err := env.ledger.GetMovementHistory(ctx, productID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.MovementKindPurchase, history[0].Kind)
	assert.True(t, history[0].Quantity.Equal(qty("10.5")))
	assert.Equal(t, "Proveedor Central", history[0].Detail)
}

func TestRecordPurchaseUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.RecordPurchase(context.Background(), dto.RecordPurchaseRequest{
		Supplier: "Proveedor Central",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: 999, Quantity: qty("1"), UnitPrice: 100},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordPurchaseValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "Azúcar 1kg", 80, 120)

	t.Run("sin líneas", func(t *testing.T) {
		_, err := env.ledger.RecordPurchase(ctx, dto.RecordPurchaseRequest{Supplier: "X"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cantidad no positiva", func(t *testing.T) {
		_, err := env.ledger.RecordPurchase(ctx, dto.RecordPurchaseRequest{
			Supplier: "X",
			Lines:    []dto.PurchaseLineRequest{{ProductID: productID, Quantity: qty("0"), UnitPrice: 80}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("más de 3 decimales", func(t *testing.T) {
		_, err := env.ledger.RecordPurchase(ctx, dto.RecordPurchaseRequest{
			Supplier: "X",
			Lines:    []dto.PurchaseLineRequest{{ProductID: productID, Quantity: qty("1.0005"), UnitPrice: 80}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)
	env.seedStock(t, productID, 20, 100)

	receipt, err := env.ledger.RecordSale(ctx, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: productID, Quantity: qty("6")},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ReceiptID)
	assert.Equal(t, int64(900), receipt.TotalAmount)
	assert.Equal(t, int64(300), receipt.TotalProfit) // (150-100) × 6
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, int64(150), receipt.Lines[0].UnitPrice) // precio del producto
	assert.Equal(t, "14.000", env.stockOf(t, productID))

	history, err := env.ledger.GetMovementHistory(ctx, productID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	sale := findMovement(t, history, entity.MovementKindSale)
	assert.True(t, sale.Quantity.Equal(qty("-6"))) // las ventas llevan signo negativo
}

func TestRecordSaleOverridePrice(t *testing.T) {
	env := newTestEnv(t)
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)
	env.seedStock(t, productID, 10, 100)

	override := int64(130)
	receipt, err := env.ledger.RecordSale(context.Background(), dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: productID, Quantity: qty("2"), UnitPrice: &override},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(260), receipt.TotalAmount)
	assert.Equal(t, int64(60), receipt.TotalProfit) // (130-100) × 2
}

func TestRecordSalePerLineRounding(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedProduct(t, "Queso granel", 100, 151)
	b := env.seedProduct(t, "Jamón granel", 100, 151)
	env.seedStock(t, a, 5, 100)
	env.seedStock(t, b, 5, 100)

	// Cada línea: margen 51 × 0.5 = 25.5, redondeada a 26 por línea.
	// El total es la suma de líneas redondeadas (52), no el total crudo (51).
	receipt, err := env.ledger.RecordSale(context.Background(), dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: a, Quantity: qty("0.5")},
			{ProductID: b, Quantity: qty("0.5")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(26), receipt.Lines[0].Profit)
	assert.Equal(t, int64(26), receipt.Lines[1].Profit)
	assert.Equal(t, int64(52), receipt.TotalProfit)
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.seedProduct(t, "Arroz 1kg", 100, 150)
	b := env.seedProduct(t, "Azúcar 1kg", 80, 120)
	env.seedStock(t, a, 10, 100)
	env.seedStock(t, b, 1, 80)

	// La segunda línea excede el stock: toda la venta debe revertirse,
	// incluida la primera línea ya aplicada.
	_, err := env.ledger.RecordSale(ctx, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: a, Quantity: qty("3")},
			{ProductID: b, Quantity: qty("2")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	assert.Equal(t, "10.000", env.stockOf(t, a))
	assert.Equal(t, "1.000", env.stockOf(t, b))

	var sales int
	require.NoError(t, env.db.QueryRow("SELECT COUNT(*) FROM sales").Scan(&sales))
	assert.Zero(t, sales, "la cabecera de la venta fallida no debe persistir")
}

func TestRecordSaleUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)
	env.seedStock(t, productID, 10, 100)

	missing := int64(404)
	_, err := env.ledger.RecordSale(context.Background(), dto.RecordSaleRequest{
		CustomerID: &missing,
		Lines:      []dto.SaleLineRequest{{ProductID: productID, Quantity: qty("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "10.000", env.stockOf(t, productID))
}

func TestVoidSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)
	env.seedStock(t, productID, 10, 100)

	receipt, err := env.ledger.RecordSale(ctx, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: qty("4")}},
	})
	require.NoError(t, err)
	require.Equal(t, "6.000", env.stockOf(t, productID))

	require.NoError(t, env.ledger.VoidSale(ctx, receipt.SaleID))

	// El stock vuelve exactamente al estado previo y la venta desaparece
	// del historial.
	assert.Equal(t, "10.000", env.stockOf(t, productID))
	history, err := env.ledger.GetMovementHistory(ctx, productID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.MovementKindPurchase, history[0].Kind)

	// Anular dos veces la misma venta falla.
	assert.ErrorIs(t, env.ledger.VoidSale(ctx, receipt.SaleID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordAdjustment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)
	env.seedStock(t, productID, 10, 100)

	require.NoError(t, env.ledger.RecordAdjustment(ctx, dto.AdjustmentRequest{
		ProductID: productID,
		Delta:     qty("-2.5"),
		Reason:    "merma por vencimiento",
	}))
	assert.Equal(t, "7.500", env.stockOf(t, productID))

	history, err := env.ledger.GetMovementHistory(ctx, productID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	adj := findMovement(t, history, entity.MovementKindAdjustment)
	assert.True(t, adj.Quantity.Equal(qty("-2.5")))
	assert.Equal(t, "merma por vencimiento", adj.Detail)
}

func TestRecordAdjustmentRejectsNegativeResult(t *testing.T) {
	env := newTestEnv(t)
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)
	env.seedStock(t, productID, 3, 100)

	err := env.ledger.RecordAdjustment(context.Background(), dto.AdjustmentRequest{
		ProductID: productID,
		Delta:     qty("-5"),
		Reason:    "conteo físico",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "3.000", env.stockOf(t, productID))
}

func TestRecordAdjustmentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)

	t.Run("delta cero", func(t *testing.T) {
		err := env.ledger.RecordAdjustment(ctx, dto.AdjustmentRequest{
			ProductID: productID, Delta: qty("0"), Reason: "nada",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("sin razón", func(t *testing.T) {
		err := env.ledger.RecordAdjustment(ctx, dto.AdjustmentRequest{
			ProductID: productID, Delta: qty("1"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("producto inexistente", func(t *testing.T) {
		err := env.ledger.RecordAdjustment(ctx, dto.AdjustmentRequest{
			ProductID: 999, Delta: qty("1"), Reason: "alta inicial",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestGetMovementHistoryBalancesWithStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)

	env.seedStock(t, productID, 10, 100)
	_, err := env.ledger.RecordSale(ctx, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: qty("2")}},
	})
	require.NoError(t, err)
	require.NoError(t, env.ledger.RecordAdjustment(ctx, dto.AdjustmentRequest{
		ProductID: productID, Delta: qty("-1"), Reason: "rotura",
	}))

	history, err := env.ledger.GetMovementHistory(ctx, productID)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// La suma del historial cuadra con la cantidad materializada.
	total := decimal.Zero
	for _, m := range history {
		total = total.Add(m.Quantity)
	}
	assert.Equal(t, "7.000", total.StringFixed(3))
	assert.Equal(t, "7.000", env.stockOf(t, productID))
}

func TestAveragePurchasePrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)

	// Sin compras: cero.
	avg, err := env.ledger.AveragePurchasePrice(ctx, productID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	env.seedStock(t, productID, 10, 100)
	env.seedStock(t, productID, 10, 120)

	avg, err = env.ledger.AveragePurchasePrice(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(110), avg)

	_, err = env.ledger.AveragePurchasePrice(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSalesByCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	productID := env.seedProduct(t, "Arroz 1kg", 100, 150)
	env.seedStock(t, productID, 20, 100)

	customer, err := env.catalog.CreateCustomer(ctx, dto.CreateCustomerRequest{
		Name: "María Quispe", Phone: "912345678",
	})
	require.NoError(t, err)

	for _, n := range []string{"2", "3"} {
		_, err := env.ledger.RecordSale(ctx, dto.RecordSaleRequest{
			CustomerID: &customer.ID,
			Lines:      []dto.SaleLineRequest{{ProductID: productID, Quantity: qty(n)}},
		})
		require.NoError(t, err)
	}
	// Una venta sin cliente no entra en el listado.
	_, err = env.ledger.RecordSale(ctx, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: qty("1")}},
	})
	require.NoError(t, err)

	receipts, err := env.ledger.ListSalesByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	for _, r := range receipts {
		require.NotNil(t, r.CustomerID)
		assert.Equal(t, customer.ID, *r.CustomerID)
	}

	_, err = env.ledger.ListSalesByCustomer(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
