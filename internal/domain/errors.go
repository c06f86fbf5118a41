package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// La taxonomía distingue validación (rechazo antes de cualquier escritura),
// violación de constraint (la transacción dueña hace rollback completo) y
// fallas de respaldo (reintentables, nunca corrompen la base origen).
// ErrDuplicate y ErrInsufficientStock envuelven ErrConstraintViolation, de
// modo que errors.Is los reconoce como miembros de esa clase.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrConstraintViolation = errors.New("violación de constraint")
	ErrDuplicate           = fmt.Errorf("%w: recurso duplicado", ErrConstraintViolation)
	ErrInsufficientStock   = fmt.Errorf("%w: stock insuficiente", ErrConstraintViolation)
	ErrBackupFailure       = errors.New("falla de respaldo")
)
