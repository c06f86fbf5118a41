package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/puntoventa/inventario-core/internal/application/analytics"
	"github.com/puntoventa/inventario-core/internal/application/backup"
	"github.com/puntoventa/inventario-core/internal/application/dto"
	"github.com/puntoventa/inventario-core/internal/application/integrity"
	"github.com/puntoventa/inventario-core/internal/application/ledger"
	"github.com/puntoventa/inventario-core/internal/application/service"
	"github.com/puntoventa/inventario-core/internal/infrastructure/sqlite"
	"github.com/puntoventa/inventario-core/pkg/config"
	"github.com/puntoventa/inventario-core/pkg/logger"
	"github.com/puntoventa/inventario-core/pkg/slowop"
)

const usage = `uso: inventariod <comando> [args]

comandos:
  migrate              aplica el esquema sobre la base configurada
  verify [product-id]  reporta derivas entre caché e historial
  repair <product-id>  cierra la deriva de un producto con un ajuste auditable
  backup [dest]        crea un snapshot consistente del almacén vivo
  prune                poda snapshots más allá de la retención configurada
  schedule             corre el ciclo de respaldos periódicos hasta recibir señal
  metrics              lista las métricas analíticas disponibles
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db", cfg.DB.Path).
		Msg("iniciando herramienta operativa")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if os.Args[1] != "schedule" {
		// Los comandos puntuales no deben colgarse indefinidamente.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
	}

	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén SQLite")
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}
	if os.Args[1] == "migrate" {
		log.Info().Msg("esquema aplicado")
		return
	}

	readDB, err := sqlite.OpenReadOnly(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén en modo lectura")
	}
	defer readDB.Close()

	validate := dto.NewValidator()
	txRunner := sqlite.NewTxRunner(db)
	movements := sqlite.NewMovementRepository(readDB)

	ledgerUC := ledger.NewUseCase(txRunner, movements, validate, log.Named("ledger"))
	verifier := integrity.NewVerifier(movements, ledgerUC, log.Named("integrity"))
	engine := analytics.NewEngine(readDB, validate, log.Named("analytics"))
	backups := backup.NewCoordinator(db, cfg.Backup.Dir, cfg.Backup.Retention, log.Named("backup"))
	monitor := slowop.New(log.Named("slowop"), cfg.SlowOp.Threshold, prometheus.DefaultRegisterer)
	svc := service.New(ledgerUC, verifier, engine, backups, monitor)

	if err := run(ctx, svc, engine, backups, cfg.Backup.Interval, log, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal().Err(err).Str("comando", os.Args[1]).Msg("comando falló")
	}
}

func run(ctx context.Context, svc *service.Service, engine *analytics.Engine, backups *backup.Coordinator, interval time.Duration, log *logger.Logger, cmd string, args []string) error {
	switch cmd {
	case "verify":
		var productID *int64
		if len(args) > 0 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("product-id inválido: %w", err)
			}
			productID = &id
		}
		drifts, err := svc.VerifyIntegrity(ctx, productID)
		if err != nil {
			return err
		}
		if len(drifts) == 0 {
			log.Info().Msg("sin derivas: caché e historial coinciden")
			return nil
		}
		for _, d := range drifts {
			fmt.Printf("producto %d: esperado %s, actual %s\n", d.ProductID, d.Expected, d.Actual)
		}
		return nil

	case "repair":
		if len(args) < 1 {
			return fmt.Errorf("repair requiere un product-id")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("product-id inválido: %w", err)
		}
		return svc.RepairIntegrity(ctx, id)

	case "backup":
		dest := ""
		if len(args) > 0 {
			dest = args[0]
		}
		desc, err := svc.CreateBackup(ctx, dest)
		if err != nil {
			return err
		}
		fmt.Printf("snapshot %s creado en %s (%d bytes)\n", desc.ID, desc.Path, desc.SizeBytes)
		return nil

	case "prune":
		removed, err := svc.PruneBackups(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("eliminados", removed).Msg("poda de snapshots completada")
		return nil

	case "schedule":
		return backups.Run(ctx, interval)

	case "metrics":
		for _, name := range engine.Metrics() {
			fmt.Println(name)
		}
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("comando desconocido: %s", cmd)
	}
}
