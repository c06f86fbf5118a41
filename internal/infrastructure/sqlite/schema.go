package sqlite

// Esquema relacional. Las cantidades se guardan en milésimas (INTEGER) para
// que CHECK (quantity >= 0) y las sumas del historial sean exactas; los
// montos son enteros sin subunidades. Acciones FK: RESTRICT para productos
// referenciados por líneas, CASCADE para inventario y códigos de cliente,
// SET NULL para categoría y cliente en sus dependientes.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT,
		phone TEXT NOT NULL UNIQUE
			CHECK (phone GLOB '9[0-9][0-9][0-9][0-9][0-9][0-9][0-9][0-9]')
	)`,
	`CREATE TABLE IF NOT EXISTS customer_identifiers (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		code        TEXT NOT NULL
			CHECK (code GLOB '[1-9][0-9][0-9]' OR code GLOB '[1-9][0-9][0-9][0-9]'),
		UNIQUE (customer_id, code)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		barcode     TEXT UNIQUE,
		category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		cost_price  INTEGER NOT NULL CHECK (cost_price >= 0),
		sell_price  INTEGER NOT NULL CHECK (sell_price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL UNIQUE REFERENCES products(id) ON DELETE CASCADE,
		quantity   INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id  INTEGER REFERENCES customers(id) ON DELETE SET NULL,
		date         TEXT NOT NULL,
		total_amount INTEGER NOT NULL CHECK (total_amount >= 0),
		total_profit INTEGER NOT NULL,
		receipt_id   TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id    INTEGER NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		price      INTEGER NOT NULL CHECK (price >= 0),
		profit     INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		supplier     TEXT NOT NULL,
		date         TEXT NOT NULL,
		total_amount INTEGER NOT NULL CHECK (total_amount >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_items (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		purchase_id INTEGER NOT NULL REFERENCES purchases(id) ON DELETE CASCADE,
		product_id  INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
		quantity    INTEGER NOT NULL CHECK (quantity > 0),
		price       INTEGER NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS adjustments (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
		quantity   INTEGER NOT NULL,
		reason     TEXT NOT NULL,
		date       TEXT NOT NULL
	)`,

	// Índices que respaldan la búsqueda por código de barras y la analítica
	// por rangos de fecha.
	`CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_product ON sale_items(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_sale_product ON sale_items(sale_id, product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date_customer ON sales(date, customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_items_product ON purchase_items(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_adjustments_product ON adjustments(product_id)`,
}
