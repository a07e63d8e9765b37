// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for syncsphere-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	Database  DatabaseSection  `koanf:"database"`
	Cache     CacheSection     `koanf:"cache"`
	Auth      AuthSection      `koanf:"auth"`
	Simulator SimulatorSection `koanf:"simulator"`
	Log       LogSection       `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRPS is the per-client sustained request rate.
	// Zero disables rate limiting.
	RateLimitRPS float64 `koanf:"rate_limit_rps"`

	// RateLimitBurst is the per-client burst allowance.
	RateLimitBurst int `koanf:"rate_limit_burst"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// DatabaseSection configures the persistent store.
type DatabaseSection struct {
	// Driver is "postgres" or "sqlite".
	Driver string `koanf:"driver"`

	// DSN is the connection string; a file path (or ":memory:")
	// for SQLite.
	DSN string `koanf:"dsn"`

	MaxOpenConns int `koanf:"max_open_conns"`
}

// CacheSection configures the cache-aside store.
type CacheSection struct {
	// Backend is "redis", "badger", or "memory".
	Backend string `koanf:"backend"`

	// Redis settings, used when backend is "redis".
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// BadgerDir is the on-disk location for the embedded cache;
	// empty selects a purely in-memory Badger instance.
	BadgerDir string `koanf:"badger_dir"`
}

// AuthSection configures token issuance.
type AuthSection struct {
	// Secret is the HMAC signing key for access tokens. Required.
	Secret string `koanf:"secret"`

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`
}

// SimulatorSection tunes the recovery/transfer phase drivers.
type SimulatorSection struct {
	StepDelay     time.Duration `koanf:"step_delay"`
	StepsPerPhase int           `koanf:"steps_per_phase"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
