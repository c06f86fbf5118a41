package service

import (
	"context"

	"github.com/puntoventa/inventario-core/internal/application/analytics"
	"github.com/puntoventa/inventario-core/internal/application/backup"
	"github.com/puntoventa/inventario-core/internal/application/dto"
	"github.com/puntoventa/inventario-core/internal/application/integrity"
	"github.com/puntoventa/inventario-core/internal/application/ledger"
	"github.com/puntoventa/inventario-core/pkg/slowop"
)

// Service es la fachada que consume la capa de UI (excluida): expone las
// operaciones del ledger, la analítica, el verificador y los respaldos,
// cada una envuelta por el monitor de operaciones lentas. El monitor es
// advisory: mide y advierte, jamás altera el resultado.
type Service struct {
	ledger    *ledger.UseCase
	verifier  *integrity.Verifier
	analytics *analytics.Engine
	backups   *backup.Coordinator
	monitor   *slowop.Monitor
}

// New construye la fachada de servicio.
func New(
	ledgerUC *ledger.UseCase,
	verifier *integrity.Verifier,
	engine *analytics.Engine,
	backups *backup.Coordinator,
	monitor *slowop.Monitor,
) *Service {
	return &Service{
		ledger:    ledgerUC,
		verifier:  verifier,
		analytics: engine,
		backups:   backups,
		monitor:   monitor,
	}
}

// RecordSale registra una venta y devuelve su comprobante.
func (s *Service) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleReceipt, error) {
	var receipt *dto.SaleReceipt
	err := s.monitor.Observe("record_sale", func() error {
		var err error
		receipt, err = s.ledger.RecordSale(ctx, req)
		return err
	})
	return receipt, err
}

// VoidSale anula una venta completa, revirtiendo su efecto en el stock.
func (s *Service) VoidSale(ctx context.Context, saleID int64) error {
	return s.monitor.Observe("void_sale", func() error {
		return s.ledger.VoidSale(ctx, saleID)
	})
}

// RecordPurchase registra una compra a proveedor.
func (s *Service) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) (*dto.PurchaseReceipt, error) {
	var receipt *dto.PurchaseReceipt
	err := s.monitor.Observe("record_purchase", func() error {
		var err error
		receipt, err = s.ledger.RecordPurchase(ctx, req)
		return err
	})
	return receipt, err
}

// AdjustInventory aplica un ajuste manual con delta con signo.
func (s *Service) AdjustInventory(ctx context.Context, req dto.AdjustmentRequest) error {
	return s.monitor.Observe("adjust_inventory", func() error {
		return s.ledger.RecordAdjustment(ctx, req)
	})
}

// GetMovementHistory devuelve el historial de movimientos de un producto.
func (s *Service) GetMovementHistory(ctx context.Context, productID int64) ([]dto.MovementDTO, error) {
	var movements []dto.MovementDTO
	err := s.monitor.Observe("get_movement_history", func() error {
		var err error
		movements, err = s.ledger.GetMovementHistory(ctx, productID)
		return err
	})
	return movements, err
}

// AveragePurchasePrice devuelve el costo promedio histórico de compra.
func (s *Service) AveragePurchasePrice(ctx context.Context, productID int64) (int64, error) {
	var avg int64
	err := s.monitor.Observe("average_purchase_price", func() error {
		var err error
		avg, err = s.ledger.AveragePurchasePrice(ctx, productID)
		return err
	})
	return avg, err
}

// ListCustomerSales devuelve los comprobantes de un cliente, más recientes
// primero.
func (s *Service) ListCustomerSales(ctx context.Context, customerID int64) ([]dto.SaleReceipt, error) {
	var receipts []dto.SaleReceipt
	err := s.monitor.Observe("list_customer_sales", func() error {
		var err error
		receipts, err = s.ledger.ListSalesByCustomer(ctx, customerID)
		return err
	})
	return receipts, err
}

// RunMetric ejecuta una métrica nombrada con sus parámetros.
func (s *Service) RunMetric(ctx context.Context, name string, params map[string]any) ([]analytics.Row, error) {
	var rows []analytics.Row
	err := s.monitor.Observe("run_metric_"+name, func() error {
		var err error
		rows, err = s.analytics.Run(ctx, name, params)
		return err
	})
	return rows, err
}

// VerifyIntegrity reporta derivas entre el caché y el historial.
func (s *Service) VerifyIntegrity(ctx context.Context, productID *int64) ([]dto.DriftRecord, error) {
	var drifts []dto.DriftRecord
	err := s.monitor.Observe("verify_integrity", func() error {
		var err error
		drifts, err = s.verifier.Verify(ctx, productID)
		return err
	})
	return drifts, err
}

// RepairIntegrity cierra la deriva de un producto con un ajuste auditable.
func (s *Service) RepairIntegrity(ctx context.Context, productID int64) error {
	return s.monitor.Observe("repair_integrity", func() error {
		return s.verifier.Repair(ctx, productID)
	})
}

// CreateBackup produce un snapshot consistente del almacén vivo.
func (s *Service) CreateBackup(ctx context.Context, destinationPath string) (*backup.SnapshotDescriptor, error) {
	var desc *backup.SnapshotDescriptor
	err := s.monitor.Observe("create_backup", func() error {
		var err error
		desc, err = s.backups.Snapshot(ctx, destinationPath)
		return err
	})
	return desc, err
}

// PruneBackups poda snapshots más allá de la retención configurada.
func (s *Service) PruneBackups(ctx context.Context) (int, error) {
	var removed int
	err := s.monitor.Observe("prune_backups", func() error {
		var err error
		removed, err = s.backups.Prune(ctx)
		return err
	})
	return removed, err
}
