package entity

import "time"

// ReasonIntegrityRepair es la razón fija de los ajustes correctivos que
// escribe el verificador de integridad.
const ReasonIntegrityRepair = "integrity-repair"

// Adjustment es un ajuste manual de inventario: delta con signo más razón.
// Como todo evento de movimiento, es inmutable una vez confirmado; las
// correcciones son nuevos ajustes, nunca ediciones.
type Adjustment struct {
	ID        int64
	ProductID int64
	Quantity  Quantity // delta con signo
	Reason    string
	Date      time.Time
}
