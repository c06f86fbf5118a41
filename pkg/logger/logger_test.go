package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/puntoventa/inventario-core/pkg/logger"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Writer: &buf})

	log.Info().Msg("ignorado")
	log.Warn().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "ignorado")
	assert.Contains(t, out, "visible")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verboso", Writer: &buf})

	log.Debug().Msg("filtrado")
	log.Info().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "filtrado")
	assert.Contains(t, out, "visible")
}

func TestNamedComponent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Writer: &buf})

	log.Named("backup").Info().Msg("snapshot creado")

	assert.Contains(t, buf.String(), `"component":"backup"`)
}

func TestProductionEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Writer: &buf})

	log.Info().Str("operacion", "venta").Msg("ok")

	out := buf.String()
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"operacion":"venta"`)
}
