package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/domain"
)

// SnapshotInto materializa una copia consistente de la base en destPath
// usando VACUUM INTO, la facilidad nativa de snapshot en línea. A diferencia
// de copiar el archivo (que bajo WAL produce réplicas rotas), el resultado
// refleja un punto válido de la secuencia de commits y los escritores
// concurrentes nunca quedan bloqueados más allá de una página interna.
func SnapshotInto(ctx context.Context, db *sql.DB, destPath string) error {
	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, destPath); err != nil {
		return fmt.Errorf("%w: vacuum into %s: %v", domain.ErrBackupFailure, destPath, err)
	}
	return nil
}
