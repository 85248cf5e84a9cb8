package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbertvdzon/webdemo/internal/config"
)

func TestNewLoggerService_DisabledWithoutLicense(t *testing.T) {
	ls, err := NewLoggerService(config.DefaultObservabilityConfig())
	require.NoError(t, err)
	assert.Nil(t, ls.GetApplication())

	// Shutdown on a disabled service is a no-op.
	ls.Shutdown()
}

func TestNewLogger_Level(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	l := NewLogger(cfg, nil)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	l := zerolog.Nop()
	got := WithTraceContext(l, nil)
	assert.Equal(t, l.GetLevel(), got.GetLevel())
}
