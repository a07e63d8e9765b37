// Package config defines the server configuration structure.
package config

import "errors"

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if cfg.Server.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.New("database.driver must be postgres or sqlite")
	}
	if cfg.Database.Driver == "postgres" && cfg.Database.DSN == "" {
		return errors.New("database.dsn is required for postgres")
	}

	switch cfg.Cache.Backend {
	case "redis":
		if cfg.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	case "badger", "memory", "":
	default:
		return errors.New("cache.backend must be redis, badger, or memory")
	}

	if cfg.Auth.Secret == "" {
		return errors.New("auth.secret is required")
	}
	if len(cfg.Auth.Secret) < 32 {
		return errors.New("auth.secret must be at least 32 bytes")
	}

	if cfg.Simulator.StepDelay < 0 {
		return errors.New("simulator.step_delay cannot be negative")
	}
	if cfg.Simulator.StepsPerPhase < 0 {
		return errors.New("simulator.steps_per_phase cannot be negative")
	}

	return nil
}
