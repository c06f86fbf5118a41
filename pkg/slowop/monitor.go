package slowop

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/puntoventa/inventario-core/pkg/logger"
)

// DefaultThreshold umbral por defecto para advertir operaciones lentas.
const DefaultThreshold = 50 * time.Millisecond

// Monitor mide la duración de pared de cualquier operación con el reloj
// monotónico y emite una advertencia estructurada si supera el umbral.
// Es un canal lateral puro: nunca altera el resultado de la operación
// envuelta y su costo es un time.Now y una observación de histograma.
type Monitor struct {
	log       *logger.Logger
	threshold time.Duration
	durations *prometheus.HistogramVec
}

// New construye el monitor. threshold <= 0 usa DefaultThreshold; reg nil
// omite el registro de métricas Prometheus.
func New(log *logger.Logger, threshold time.Duration, reg prometheus.Registerer) *Monitor {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "inventario",
		Name:      "operation_duration_seconds",
		Help:      "Duración de pared de las operaciones del subsistema.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	if reg != nil {
		reg.MustRegister(durations)
	}
	return &Monitor{log: log, threshold: threshold, durations: durations}
}

// Observe ejecuta fn midiendo su duración. La advertencia es solo
// observabilidad: el error de fn se propaga intacto y jamás se aborta la
// operación por lenta.
func (m *Monitor) Observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	m.durations.WithLabelValues(operation).Observe(elapsed.Seconds())
	if elapsed > m.threshold {
		m.log.Warn().
			Str("operation", operation).
			Dur("duration", elapsed).
			Dur("threshold", m.threshold).
			Msg("operación lenta")
	}
	return err
}

// Threshold devuelve el umbral configurado.
func (m *Monitor) Threshold() time.Duration {
	return m.threshold
}
