// Package storage provides the persistent store for SyncSphere,
// backed by PostgreSQL in production and SQLite in development.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database connection settings.
type Config struct {
	// Driver is "postgres" or "sqlite".
	Driver string

	// DSN is the connection string. For SQLite this is a file path;
	// ":memory:" opens an ephemeral database.
	DSN string

	// MaxOpenConns bounds the connection pool (postgres only).
	MaxOpenConns int

	// Logger receives slow-query and error logs.
	Logger *slog.Logger
}

// Open connects to the configured database and migrates the schema.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = ":memory:"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(cfg.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverPostgres {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
			sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
			sqlDB.SetConnMaxLifetime(time.Hour)
		}
	} else {
		// SQLite allows one writer; pinning the pool to a single
		// connection also keeps :memory: databases alive.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Device{},
		&domain.RecoverySession{},
		&domain.Transfer{},
		&domain.Subscription{},
		&domain.Notification{},
	)
}

// gormSlogger adapts slog to gorm's logger interface. It logs errors
// and slow queries only; per-statement tracing stays off.
type gormSlogger struct {
	logger        *slog.Logger
	slowThreshold time.Duration
}

func newGormLogger(logger *slog.Logger) gormlogger.Interface {
	if logger == nil {
		logger = slog.Default()
	}
	return &gormSlogger{logger: logger, slowThreshold: 200 * time.Millisecond}
}

func (l *gormSlogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l *gormSlogger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormSlogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormSlogger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormSlogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && err != gorm.ErrRecordNotFound:
		sql, rows := fc()
		l.logger.ErrorContext(ctx, "query failed",
			"error", err, "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	case elapsed > l.slowThreshold:
		sql, rows := fc()
		l.logger.WarnContext(ctx, "slow query",
			"sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	}
}
