package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// quantityExp es la escala fija de las cantidades: exactamente 3 decimales.
// Internamente toda cantidad se maneja en milésimas (int64) para que los
// CHECK de la base y las sumas del historial sean exactos.
const quantityExp = 3

var milsPerUnit = decimal.New(1, quantityExp) // 1000

// Quantity es una cantidad de inventario en punto fijo con 3 decimales.
// Es un valor con signo: los deltas de ajuste pueden ser negativos; la
// no-negatividad del stock materializado se exige donde corresponde.
type Quantity struct {
	mils int64
}

// NewQuantity construye una cantidad desde un decimal. Rechaza valores con
// más de 3 decimales en lugar de redondear en silencio.
func NewQuantity(d decimal.Decimal) (Quantity, error) {
	scaled := d.Mul(milsPerUnit)
	if !scaled.IsInteger() {
		return Quantity{}, fmt.Errorf("cantidad %s excede 3 decimales", d)
	}
	return Quantity{mils: scaled.IntPart()}, nil
}

// ParseQuantity construye una cantidad desde su representación textual.
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("cantidad inválida %q: %w", s, err)
	}
	return NewQuantity(d)
}

// QuantityFromUnits construye una cantidad entera (sin fracción).
func QuantityFromUnits(n int64) Quantity {
	return Quantity{mils: n * 1000}
}

// QuantityFromMils reconstruye una cantidad desde milésimas (formato de la base).
func QuantityFromMils(mils int64) Quantity {
	return Quantity{mils: mils}
}

// Mils devuelve la cantidad en milésimas, tal como se persiste.
func (q Quantity) Mils() int64 { return q.mils }

// Decimal devuelve la cantidad como decimal con escala 3.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.New(q.mils, -quantityExp)
}

func (q Quantity) Add(o Quantity) Quantity { return Quantity{mils: q.mils + o.mils} }
func (q Quantity) Sub(o Quantity) Quantity { return Quantity{mils: q.mils - o.mils} }
func (q Quantity) Neg() Quantity           { return Quantity{mils: -q.mils} }

func (q Quantity) IsZero() bool     { return q.mils == 0 }
func (q Quantity) IsNegative() bool { return q.mils < 0 }
func (q Quantity) IsPositive() bool { return q.mils > 0 }

// LessThan compara cantidades.
func (q Quantity) LessThan(o Quantity) bool { return q.mils < o.mils }

// Equal compara por valor exacto.
func (q Quantity) Equal(o Quantity) bool { return q.mils == o.mils }

// String formatea siempre con 3 decimales (contrato de la frontera de servicio).
func (q Quantity) String() string {
	return q.Decimal().StringFixed(quantityExp)
}

// LineProfit calcula la utilidad de una línea de venta:
// (precio unitario - costo) × cantidad, redondeada por línea al entero más
// cercano. Los montos monetarios son enteros sin subunidades.
func LineProfit(unitPrice, costPrice int64, qty Quantity) int64 {
	margin := decimal.NewFromInt(unitPrice - costPrice)
	return margin.Mul(qty.Decimal()).Round(0).IntPart()
}

// LineAmount calcula el importe de una línea: precio unitario × cantidad,
// con el mismo redondeo individual que la utilidad.
func LineAmount(unitPrice int64, qty Quantity) int64 {
	return decimal.NewFromInt(unitPrice).Mul(qty.Decimal()).Round(0).IntPart()
}
