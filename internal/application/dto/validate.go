package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Formatos de los identificadores que cruzan la frontera de servicio.
var (
	phonePattern    = regexp.MustCompile(`^9\d{8}$`)
	deptCodePattern = regexp.MustCompile(`^[1-9]\d{2,3}$`)
)

// NewValidator construye el validador de structs con las reglas propias del
// dominio: phone9 (identificador de cliente) y deptcode (departamento).
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los registros solo fallan con tipos no-string; los tags se aplican a
	// campos string, así que el error se ignora.
	_ = v.RegisterValidation("phone9", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("deptcode", func(fl validator.FieldLevel) bool {
		return deptCodePattern.MatchString(fl.Field().String())
	})
	return v
}
