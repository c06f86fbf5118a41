package integrity

import (
	"context"
	"fmt"

	"github.com/puntoventa/inventario-core/internal/application/dto"
	"github.com/puntoventa/inventario-core/internal/application/ledger"
	"github.com/puntoventa/inventario-core/internal/domain"
	"github.com/puntoventa/inventario-core/internal/domain/entity"
	"github.com/puntoventa/inventario-core/internal/domain/repository"
	"github.com/puntoventa/inventario-core/pkg/logger"
)

// Verifier contrasta la cantidad materializada con la recalculada desde el
// historial de movimientos. Lee por su propia conexión; la reparación
// reentra por el Ledger Writer como ajuste correctivo, nunca como
// sobreescritura silenciosa del caché.
type Verifier struct {
	movements repository.MovementRepository
	writer    *ledger.UseCase
	log       *logger.Logger
}

// NewVerifier construye el verificador.
func NewVerifier(movements repository.MovementRepository, writer *ledger.UseCase, log *logger.Logger) *Verifier {
	return &Verifier{movements: movements, writer: writer, log: log}
}

// Verify recalcula la cantidad esperada por producto y devuelve una fila por
// cada discrepancia (vacío si no hay deriva). Con productID nil revisa todos
// los productos. Sin escrituras intermedias, dos corridas reportan idéntico.
func (v *Verifier) Verify(ctx context.Context, productID *int64) ([]dto.DriftRecord, error) {
	drifts, err := v.movements.ListDrift(ctx, productID)
	if err != nil {
		return nil, err
	}
	records := make([]dto.DriftRecord, 0, len(drifts))
	for _, d := range drifts {
		v.log.Warn().Int64("product_id", d.ProductID).
			Str("expected", d.Expected.String()).Str("actual", d.Actual.String()).
			Msg("deriva de inventario detectada")
		records = append(records, dto.DriftRecord{
			ProductID: d.ProductID,
			Expected:  d.Expected.Decimal(),
			Actual:    d.Actual.Decimal(),
		})
	}
	return records, nil
}

// Repair cierra la deriva de un producto escribiendo un ajuste correctivo con
// razón fija "integrity-repair" a través del Ledger Writer. El delta es
// actual − esperado: documenta la diferencia no explicada como movimiento
// auditable y deja el historial cuadrado con el valor materializado, que se
// conserva como verdad física.
func (v *Verifier) Repair(ctx context.Context, productID int64) error {
	drifts, err := v.movements.ListDrift(ctx, &productID)
	if err != nil {
		return err
	}
	if len(drifts) == 0 {
		return fmt.Errorf("%w: producto %d sin deriva", domain.ErrNotFound, productID)
	}
	d := drifts[0]
	delta := d.Actual.Sub(d.Expected)
	return v.writer.RecordCorrection(ctx, productID, delta, entity.ReasonIntegrityRepair)
}
