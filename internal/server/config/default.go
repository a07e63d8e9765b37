// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr       = "127.0.0.1:8080"
	DefaultRateLimitRPS   = 50.0
	DefaultRateLimitBurst = 100
	DefaultReadTimeout    = 15 * time.Second
	DefaultWriteTimeout   = 30 * time.Second

	DefaultDatabaseDriver = "sqlite"
	DefaultDatabaseDSN    = "syncsphere.db"
	DefaultMaxOpenConns   = 25

	DefaultCacheBackend = "memory"
	DefaultRedisAddr    = "127.0.0.1:6379"

	DefaultTokenTTL = 24 * time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:           DefaultHTTPAddr,
				CORSOrigins:    []string{"*"},
				RateLimitRPS:   DefaultRateLimitRPS,
				RateLimitBurst: DefaultRateLimitBurst,
				ReadTimeout:    DefaultReadTimeout,
				WriteTimeout:   DefaultWriteTimeout,
			},
		},
		Database: DatabaseSection{
			Driver:       DefaultDatabaseDriver,
			DSN:          DefaultDatabaseDSN,
			MaxOpenConns: DefaultMaxOpenConns,
		},
		Cache: CacheSection{
			Backend:   DefaultCacheBackend,
			RedisAddr: DefaultRedisAddr,
		},
		Auth: AuthSection{
			TokenTTL: DefaultTokenTTL,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
