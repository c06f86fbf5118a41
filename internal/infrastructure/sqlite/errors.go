package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/puntoventa/inventario-core/internal/domain"
	sqlite3 "modernc.org/sqlite"
)

// Códigos extendidos de SQLITE_CONSTRAINT.
const (
	sqliteConstraint           = 19
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// mapError traduce errores del driver a errores de dominio. Cualquier
// SQLITE_CONSTRAINT implica que la transacción dueña hizo rollback completo.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
		case sqliteConstraintCheck, sqliteConstraintForeignKey, sqliteConstraint:
			return fmt.Errorf("%w: %v", domain.ErrConstraintViolation, err)
		}
		if se.Code()&0xff == sqliteConstraint {
			return fmt.Errorf("%w: %v", domain.ErrConstraintViolation, err)
		}
		return err
	}
	// Fallback por si el driver envuelve el error en texto plano.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	}
	if strings.Contains(msg, "constraint failed") {
		return fmt.Errorf("%w: %v", domain.ErrConstraintViolation, err)
	}
	return err
}
