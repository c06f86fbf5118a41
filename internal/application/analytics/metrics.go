package analytics

import (
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/puntoventa/inventario-core/internal/domain"
	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Parámetros por defecto de las métricas.
const (
	defaultTopLimit  = 10
	defaultThreshold = 10
	defaultAgingDays = 30
)

// Esquemas de parámetros. La validación ocurre antes de tocar la conexión.
type rangeParams struct {
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02"`
}

type topProductsParams struct {
	rangeParams
	Limit int `validate:"gte=1,lte=1000"`
}

type lowStockParams struct {
	Threshold decimal.Decimal
}

type agingParams struct {
	Days int `validate:"gte=0"`
}

// builtinMetrics es la tabla de despacho explícita: una variante por métrica,
// cada una con su esquema de parámetros, consulta pura y columnas de salida.
// Las cantidades viajan en milésimas dentro del SQL y salen como punto fijo
// de 3 decimales; los montos son enteros redondeados por fila.
var builtinMetrics = []Metric{
	{
		Name:        "sales_daily",
		Description: "Ventas agregadas por día (monto y número de ventas) en un rango de fechas.",
		Columns:     []string{"date", "total_sales", "sale_count"},
		build: func(v *validator.Validate, params map[string]any) (string, []any, error) {
			p := rangeParams{StartDate: stringParam(params, "start_date"), EndDate: stringParam(params, "end_date")}
			if err := v.Struct(p); err != nil {
				return "", nil, fmt.Errorf("%w: sales_daily: %v", domain.ErrInvalidInput, err)
			}
			query := `
				SELECT strftime('%Y-%m-%d', date) AS day,
				       SUM(total_amount) AS total_sales,
				       COUNT(*) AS sale_count
				FROM sales
				WHERE date(date) BETWEEN ? AND ?
				GROUP BY day
				ORDER BY day ASC`
			return query, []any{p.StartDate, p.EndDate}, nil
		},
		scan: func(rows *sql.Rows) (Row, error) {
			var day string
			var total, count int64
			if err := rows.Scan(&day, &total, &count); err != nil {
				return nil, err
			}
			return Row{"date": day, "total_sales": total, "sale_count": count}, nil
		},
	},
	{
		Name:        "top_products",
		Description: "Productos más vendidos por cantidad en un rango de fechas.",
		Columns:     []string{"product_id", "name", "total_quantity", "total_revenue"},
		build: func(v *validator.Validate, params map[string]any) (string, []any, error) {
			p := topProductsParams{
				rangeParams: rangeParams{StartDate: stringParam(params, "start_date"), EndDate: stringParam(params, "end_date")},
				Limit:       intParam(params, "limit", defaultTopLimit),
			}
			if err := v.Struct(p); err != nil {
				return "", nil, fmt.Errorf("%w: top_products: %v", domain.ErrInvalidInput, err)
			}
			query := `
				SELECT p.id AS product_id,
				       p.name,
				       SUM(si.quantity) AS total_quantity,
				       SUM(si.quantity * si.price) AS revenue_mils
				FROM products p
				JOIN sale_items si ON p.id = si.product_id
				JOIN sales s ON si.sale_id = s.id
				WHERE date(s.date) BETWEEN ? AND ?
				GROUP BY p.id
				ORDER BY total_quantity DESC
				LIMIT ?`
			return query, []any{p.StartDate, p.EndDate, p.Limit}, nil
		},
		scan: func(rows *sql.Rows) (Row, error) {
			var id, qtyMils, revenueMils int64
			var name string
			if err := rows.Scan(&id, &name, &qtyMils, &revenueMils); err != nil {
				return nil, err
			}
			return Row{
				"product_id":     id,
				"name":           name,
				"total_quantity": entity.QuantityFromMils(qtyMils).Decimal(),
				"total_revenue":  milsToAmount(revenueMils),
			}, nil
		},
	},
	{
		Name:        "low_stock",
		Description: "Productos con cantidad en inventario bajo un umbral.",
		Columns:     []string{"product_id", "name", "quantity"},
		build: func(v *validator.Validate, params map[string]any) (string, []any, error) {
			threshold, err := decimalParam(params, "threshold", decimal.NewFromInt(defaultThreshold))
			if err != nil {
				return "", nil, fmt.Errorf("%w: low_stock: %v", domain.ErrInvalidInput, err)
			}
			if threshold.IsNegative() {
				return "", nil, fmt.Errorf("%w: low_stock: umbral negativo", domain.ErrInvalidInput)
			}
			thresholdQty, err := entity.NewQuantity(threshold)
			if err != nil {
				return "", nil, fmt.Errorf("%w: low_stock: %v", domain.ErrInvalidInput, err)
			}
			query := `
				SELECT p.id AS product_id, p.name, i.quantity
				FROM products p
				JOIN inventory i ON p.id = i.product_id
				WHERE i.quantity < ?
				ORDER BY i.quantity ASC`
			return query, []any{thresholdQty.Mils()}, nil
		},
		scan: func(rows *sql.Rows) (Row, error) {
			var id, qtyMils int64
			var name string
			if err := rows.Scan(&id, &name, &qtyMils); err != nil {
				return nil, err
			}
			return Row{
				"product_id": id,
				"name":       name,
				"quantity":   entity.QuantityFromMils(qtyMils).Decimal(),
			}, nil
		},
	},
	{
		Name:        "inventory_aging",
		Description: "Productos con stock positivo sin ventas en los últimos N días.",
		Columns:     []string{"product_id", "name", "stock_quantity", "last_sold_date"},
		build: func(v *validator.Validate, params map[string]any) (string, []any, error) {
			p := agingParams{Days: intParam(params, "days", defaultAgingDays)}
			if err := v.Struct(p); err != nil {
				return "", nil, fmt.Errorf("%w: inventory_aging: %v", domain.ErrInvalidInput, err)
			}
			// last_sold_date NULL significa que nunca se vendió: se incluye.
			query := `
				SELECT p.id AS product_id,
				       p.name,
				       i.quantity AS stock_quantity,
				       MAX(s.date) AS last_sold_date
				FROM products p
				JOIN inventory i ON p.id = i.product_id
				LEFT JOIN sale_items si ON p.id = si.product_id
				LEFT JOIN sales s ON si.sale_id = s.id
				WHERE i.quantity > 0
				GROUP BY p.id
				HAVING last_sold_date IS NULL
				    OR date(last_sold_date) < date('now', '-' || ? || ' days')
				ORDER BY last_sold_date ASC`
			return query, []any{p.Days}, nil
		},
		scan: func(rows *sql.Rows) (Row, error) {
			var id, qtyMils int64
			var name string
			var lastSold sql.NullString
			if err := rows.Scan(&id, &name, &qtyMils, &lastSold); err != nil {
				return nil, err
			}
			row := Row{
				"product_id":     id,
				"name":           name,
				"stock_quantity": entity.QuantityFromMils(qtyMils).Decimal(),
				"last_sold_date": nil,
			}
			if lastSold.Valid {
				row["last_sold_date"] = lastSold.String
			}
			return row, nil
		},
	},
	{
		Name:        "department_sales",
		Description: "Desempeño de ventas por categoría (departamento) en un rango de fechas.",
		Columns:     []string{"category", "total_sales", "units_sold"},
		build: func(v *validator.Validate, params map[string]any) (string, []any, error) {
			p := rangeParams{StartDate: stringParam(params, "start_date"), EndDate: stringParam(params, "end_date")}
			if err := v.Struct(p); err != nil {
				return "", nil, fmt.Errorf("%w: department_sales: %v", domain.ErrInvalidInput, err)
			}
			query := `
				SELECT COALESCE(c.name, 'Uncategorized') AS category,
				       SUM(si.quantity * si.price) AS revenue_mils,
				       SUM(si.quantity) AS units_mils
				FROM products p
				LEFT JOIN categories c ON p.category_id = c.id
				JOIN sale_items si ON p.id = si.product_id
				JOIN sales s ON si.sale_id = s.id
				WHERE date(s.date) BETWEEN ? AND ?
				GROUP BY c.id
				ORDER BY revenue_mils DESC`
			return query, []any{p.StartDate, p.EndDate}, nil
		},
		scan: func(rows *sql.Rows) (Row, error) {
			var category string
			var revenueMils, unitsMils int64
			if err := rows.Scan(&category, &revenueMils, &unitsMils); err != nil {
				return nil, err
			}
			return Row{
				"category":    category,
				"total_sales": milsToAmount(revenueMils),
				"units_sold":  entity.QuantityFromMils(unitsMils).Decimal(),
			}, nil
		},
	},
}

// milsToAmount convierte un monto acumulado en milésimas (cantidad × precio)
// a entero, redondeando al más cercano.
func milsToAmount(mils int64) int64 {
	return decimal.New(mils, -3).Round(0).IntPart()
}

// ── Extracción de parámetros ──────────────────────────────────────────────────

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intParam(params map[string]any, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

func decimalParam(params map[string]any, key string, def decimal.Decimal) (decimal.Decimal, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	}
	return decimal.Zero, fmt.Errorf("parámetro %s de tipo no soportado %T", key, v)
}
