package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/puntoventa/inventario-core/internal/domain"
	"github.com/puntoventa/inventario-core/internal/infrastructure/sqlite"
	"github.com/puntoventa/inventario-core/pkg/logger"
)

const snapshotPrefix = "backup_"

// DefaultInterval intervalo por defecto del ciclo programado de respaldos
// (semanal).
const DefaultInterval = 7 * 24 * time.Hour

// SnapshotDescriptor describe una copia puntual del almacén.
type SnapshotDescriptor struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// Coordinator produce copias consistentes del almacén vivo con la facilidad
// nativa de snapshot (nunca una copia cruda del archivo, que bajo WAL puede
// salir rota) y poda las copias viejas según retención.
type Coordinator struct {
	db        *sql.DB
	dir       string
	retention int
	log       *logger.Logger
}

// NewCoordinator construye el coordinador. retention <= 0 usa 2 (las dos
// últimas copias semanales).
func NewCoordinator(db *sql.DB, dir string, retention int, log *logger.Logger) *Coordinator {
	if retention <= 0 {
		retention = 2
	}
	return &Coordinator{db: db, dir: dir, retention: retention, log: log}
}

// Snapshot crea una copia consistente en destPath; con destPath vacío genera
// un nombre con timestamp dentro del directorio de respaldos. La operación
// convive con escritores activos: el resultado refleja un punto válido de la
// secuencia de commits. Si la copia falla se elimina el archivo parcial.
func (c *Coordinator) Snapshot(ctx context.Context, destPath string) (*SnapshotDescriptor, error) {
	now := time.Now()
	if destPath == "" {
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: crear directorio de respaldos: %v", domain.ErrBackupFailure, err)
		}
		destPath = filepath.Join(c.dir, fmt.Sprintf("%s%s.db", snapshotPrefix, now.Format("20060102_150405")))
	}
	// VACUUM INTO exige que el destino no exista.
	if _, err := os.Stat(destPath); err == nil {
		return nil, fmt.Errorf("%w: destino %s ya existe", domain.ErrBackupFailure, destPath)
	}

	if err := sqlite.SnapshotInto(ctx, c.db, destPath); err != nil {
		_ = os.Remove(destPath)
		return nil, err
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat snapshot: %v", domain.ErrBackupFailure, err)
	}
	desc := &SnapshotDescriptor{
		ID:        uuid.New().String(),
		Path:      destPath,
		CreatedAt: now,
		SizeBytes: info.Size(),
	}
	c.log.Info().Str("path", desc.Path).Int64("size_bytes", desc.SizeBytes).Msg("snapshot creado")
	return desc, nil
}

// Prune elimina los snapshots del directorio de respaldos más allá de la
// retención configurada, conservando los más recientes. Devuelve cuántos
// archivos eliminó.
func (c *Coordinator) Prune(ctx context.Context) (int, error) {
	pattern := filepath.Join(c.dir, snapshotPrefix+"*.db")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("%w: listar snapshots: %v", domain.ErrBackupFailure, err)
	}
	if len(matches) <= c.retention {
		return 0, nil
	}
	// El nombre lleva el timestamp, así que el orden lexicográfico es
	// cronológico: se conservan los últimos.
	sort.Strings(matches)
	removed := 0
	for _, path := range matches[:len(matches)-c.retention] {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := os.Remove(path); err != nil {
			c.log.Error().Err(err).Str("path", path).Msg("no se pudo eliminar snapshot viejo")
			continue
		}
		c.log.Info().Str("path", path).Msg("snapshot viejo eliminado")
		removed++
	}
	return removed, nil
}

// Run ejecuta el ciclo programado de respaldos: en cada tic un snapshot con
// nombre de timestamp más la poda por retención, hasta que ctx se cancele.
// Una falla de snapshot se registra y el ciclo continúa; interval <= 0 usa
// DefaultInterval.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.log.Info().Dur("interval", interval).Int("retention", c.retention).
		Msg("ciclo de respaldos iniciado")
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("ciclo de respaldos detenido")
			return nil
		case <-ticker.C:
			if _, err := c.Snapshot(ctx, ""); err != nil {
				c.log.Error().Err(err).Msg("snapshot programado falló")
				continue
			}
			if _, err := c.Prune(ctx); err != nil {
				c.log.Error().Err(err).Msg("poda programada falló")
			}
		}
	}
}
