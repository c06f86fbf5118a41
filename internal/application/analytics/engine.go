package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/puntoventa/inventario-core/internal/domain"
	"github.com/puntoventa/inventario-core/pkg/logger"
)

// Row es una fila de resultado de una métrica, con las columnas declaradas
// en su contrato de salida.
type Row map[string]any

// Metric es un contrato nombrado y sin versión: esquema de parámetros
// validado antes de ejecutar, consulta pura y esquema de filas de salida.
// El despacho es una tabla explícita por nombre, no reflexión.
type Metric struct {
	Name        string
	Description string
	Columns     []string
	build       func(v *validator.Validate, params map[string]any) (query string, args []any, err error)
	scan        func(rows *sql.Rows) (Row, error)
}

// Engine ejecuta métricas contra una conexión abierta estrictamente en solo
// lectura: puede fallar con error de validación, pero nunca mutar estado ni
// ver una transacción en vuelo.
type Engine struct {
	db       *sql.DB
	validate *validator.Validate
	registry map[string]Metric
	log      *logger.Logger
}

// NewEngine construye el motor con el registro de métricas integradas.
func NewEngine(readDB *sql.DB, validate *validator.Validate, log *logger.Logger) *Engine {
	registry := make(map[string]Metric, len(builtinMetrics))
	for _, m := range builtinMetrics {
		registry[m.Name] = m
	}
	return &Engine{db: readDB, validate: validate, registry: registry, log: log}
}

// Metrics devuelve los nombres registrados, ordenados.
func (e *Engine) Metrics() []string {
	names := make([]string, 0, len(e.registry))
	for name := range e.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run valida los parámetros contra el esquema de la métrica, ejecuta la
// consulta y devuelve la secuencia ordenada de filas del contrato de salida.
func (e *Engine) Run(ctx context.Context, name string, params map[string]any) ([]Row, error) {
	metric, ok := e.registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: métrica %q", domain.ErrNotFound, name)
	}
	query, args, err := metric.build(e.validate, params)
	if err != nil {
		return nil, err
	}

	e.log.Debug().Str("metric", name).Msg("ejecutando métrica")
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("metric %s: %w", name, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := metric.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("metric %s scan: %w", name, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
