package tracer

import (
	"context"
	"testing"

	"cloudnotes-be/internal/config"
	"cloudnotes-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitTracerDisabledIsNoop(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	shutdown := InitTracer(context.Background(), config.TraceConfig{Enabled: false}, logger.NewFromZap(zap.New(core)))

	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "OpenTelemetry tracing is disabled", logs.All()[0].Message)
}

func TestInitTracerEnabledInstallsProvider(t *testing.T) {
	cfg := config.TraceConfig{Enabled: true, Endpoint: "127.0.0.1:4318", ServiceName: "cloudnotes-test"}
	shutdown := InitTracer(context.Background(), cfg, logger.NewNopLogger())

	// Nothing was recorded, so shutdown has no spans to export.
	assert.NoError(t, shutdown(context.Background()))
}
