package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

// Formato de fechas persistidas. Texto ISO para que date() de SQLite y los
// rangos de las métricas operen directo sobre la columna.
const dateLayout = "2006-01-02 15:04:05"

// Open abre el manejador de escritura sobre el almacén embebido en modo WAL.
// WAL es el único árbitro de concurrencia: lectores no bloquean al escritor y
// los escritores serializan en el commit. foreign_keys habilita las acciones
// RESTRICT/CASCADE/SET NULL del esquema.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)",
		url.PathEscape(path),
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir base: %w", err)
	}
	// Un solo escritor lógico: SQLite serializa commits de todas formas y un
	// pool de una conexión evita SQLITE_BUSY entre goroutines del proceso.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping base: %w", err)
	}
	return db, nil
}

// OpenReadOnly abre una conexión estrictamente de solo lectura (mode=ro más
// query_only como cinturón). La usan el motor de analítica y el verificador:
// siempre ven un prefijo confirmado del historial, nunca una transacción en vuelo.
func OpenReadOnly(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)",
		url.PathEscape(path),
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir base solo lectura: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping base solo lectura: %w", err)
	}
	return db, nil
}

// Migrate crea el esquema y los índices si no existen.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migración: %w", err)
		}
	}
	return nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return t, nil
}
