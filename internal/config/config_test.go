package config

import (
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.read_timeout", envKey("WEBDEMO_SERVER__READ_TIMEOUT"))
	assert.Equal(t, "demo.async_delay", envKey("WEBDEMO_DEMO__ASYNC_DELAY"))
	assert.Equal(t, "observability.logging.level", envKey("WEBDEMO_OBSERVABILITY__LOGGING__LEVEL"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Demo.AsyncDelay)
	assert.Equal(t, time.Second, cfg.Demo.StreamInterval)
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "webdemo", cfg.Observability.ServiceName)
	assert.Equal(t, cfg.Primary.Env, cfg.Observability.Environment)
	assert.False(t, cfg.Observability.NewRelic.Enabled())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WEBDEMO_PRIMARY__ENV", "production")
	t.Setenv("WEBDEMO_SERVER__PORT", "9090")
	t.Setenv("WEBDEMO_DEMO__ASYNC_DELAY", "250ms")
	t.Setenv("WEBDEMO_OBSERVABILITY__LOGGING__LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Demo.AsyncDelay)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.IsProduction())
}

func TestFromKoanf_RejectsTimeoutBelowDelay(t *testing.T) {
	k := koanf.New(".")
	require.NoError(t, k.Set("demo.async_delay", "10s"))
	require.NoError(t, k.Set("demo.async_timeout", "1s"))

	_, err := fromKoanf(k)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestObservabilityConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ObservabilityConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *ObservabilityConfig) {}},
		{
			name:    "bad level",
			mutate:  func(c *ObservabilityConfig) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level",
		},
		{
			name:    "bad format",
			mutate:  func(c *ObservabilityConfig) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
		{
			name:    "missing service name",
			mutate:  func(c *ObservabilityConfig) { c.ServiceName = "" },
			wantErr: "service_name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultObservabilityConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
