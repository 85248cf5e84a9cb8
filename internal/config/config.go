// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types and validates that
// required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for every block, so an empty environment still boots.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any config is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix WEBDEMO_. The prefix is removed, the
	rest is lowercased and a double underscore marks nesting:

	  WEBDEMO_SERVER__PORT          -> server.port          -> Config.Server.Port
	  WEBDEMO_DEMO__ASYNC_DELAY     -> demo.async_delay     -> Config.Demo.AsyncDelay
	  WEBDEMO_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level
*/

// EnvPrefix is the prefix shared by every environment variable the service reads.
const EnvPrefix = "WEBDEMO_"

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Demo          DemoConfig           `koanf:"demo" validate:"required"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are parsed from duration strings such as "15s".
type ServerConfig struct {
	Port               string        `koanf:"port" validate:"required"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" validate:"required"`
	BodyLimit          string        `koanf:"body_limit" validate:"required"`
}

// DemoConfig tunes the illustrative async, streaming and upload endpoints.
type DemoConfig struct {
	// AsyncDelay is how long the deferred result worker waits before completing.
	AsyncDelay time.Duration `koanf:"async_delay" validate:"min=0"`

	// AsyncTimeout bounds how long a request waits for a deferred result.
	AsyncTimeout time.Duration `koanf:"async_timeout" validate:"gtfield=AsyncDelay"`

	// StreamInterval is the pause before each pushed chunk and before close.
	StreamInterval time.Duration `koanf:"stream_interval" validate:"min=0"`

	// StreamBuffer is the capacity of the channel between producer and writer.
	StreamBuffer int `koanf:"stream_buffer" validate:"min=1"`

	// UploadMaxMemory is the in-memory part of a parsed multipart form, in bytes.
	UploadMaxMemory int64 `koanf:"upload_max_memory" validate:"min=1"`

	// Workers caps the number of background workers running at once.
	Workers int64 `koanf:"workers" validate:"min=1"`
}

// RateLimitConfig configures the optional in-memory rate limiter.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"required_if=Enabled true"`
	Burst             int     `koanf:"burst"`
}

// DefaultConfig returns the configuration used when no env vars are set.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       60 * time.Second,
			IdleTimeout:        60 * time.Second,
			CORSAllowedOrigins: []string{"*"},
			BodyLimit:          "10M",
		},
		Demo: DemoConfig{
			AsyncDelay:      5 * time.Second,
			AsyncTimeout:    30 * time.Second,
			StreamInterval:  time.Second,
			StreamBuffer:    8,
			UploadMaxMemory: 10 << 20,
			Workers:         64,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig, validates it and fills in the observability block.
//
// Behavior summary:
//   - Loads env vars with prefix WEBDEMO_
//   - Unmarshals into a Config pre-filled with defaults
//   - Validates required config blocks/fields
//   - Sets default observability if missing and forces its service name/environment
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	return fromKoanf(k)
}

// envKey maps WEBDEMO_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	mainConfig := DefaultConfig()

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = "webdemo"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// IsProduction reports whether the service runs with primary.env=production.
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}
