// Package main provides the entry point for syncsphere-server.
//
// syncsphere-server is the SyncSphere backend: a REST and WebSocket
// API over simulated device data-recovery and phone-to-phone transfer
// sessions, with cache-aside reads and an in-process event bus feeding
// notifications, metrics, and live progress pushes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/Bollo444/SyncSphere-sub004/internal/cache"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/service"
	"github.com/Bollo444/SyncSphere-sub004/internal/events"
	"github.com/Bollo444/SyncSphere-sub004/internal/infra/buildinfo"
	"github.com/Bollo444/SyncSphere-sub004/internal/infra/confloader"
	"github.com/Bollo444/SyncSphere-sub004/internal/infra/shutdown"
	"github.com/Bollo444/SyncSphere-sub004/internal/server/config"
	"github.com/Bollo444/SyncSphere-sub004/internal/server/httpserver"
	"github.com/Bollo444/SyncSphere-sub004/internal/server/httpserver/handler"
	"github.com/Bollo444/SyncSphere-sub004/internal/server/wsserver"
	"github.com/Bollo444/SyncSphere-sub004/internal/storage"
	"github.com/Bollo444/SyncSphere-sub004/internal/telemetry/logger"
	"github.com/Bollo444/SyncSphere-sub004/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("syncsphere-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting syncsphere-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	logConfig(log, cfg)

	// Persistent store.
	db, err := storage.Open(storage.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// Cache-aside store.
	cacheStore, err := initCache(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	bus := events.NewBus(log)
	metrics := metric.NewRegistry()

	svcs := initServices(db, cacheStore, bus, cfg, log)

	// Event consumers: notifications, metrics, and the WebSocket hub
	// each take their own bus subscription.
	consumerCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	notifCh, _ := bus.Subscribe()
	go svcs.Notifications.Run(consumerCtx, notifCh)

	recorderCh, _ := bus.Subscribe()
	go metric.NewRecorder(metrics).Run(consumerCtx, recorderCh)

	hub := wsserver.NewHub(metrics, log)
	hubCh, _ := bus.Subscribe()
	go hub.Run(consumerCtx, hubCh)

	apiHandler := handler.New(handler.Config{
		Auth:             svcs.Auth,
		Users:            svcs.Users,
		Devices:          svcs.Devices,
		Recoveries:       svcs.Recoveries,
		Transfers:        svcs.Transfers,
		Subscriptions:    svcs.Subscriptions,
		Notifications:    svcs.Notifications,
		RecoveryRegistry: svcs.RecoveryRegistry,
		TransferRegistry: svcs.TransferRegistry,
		Metrics:          metrics,
		Logger:           log,
	})
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Handler:        apiHandler,
		AuthService:    svcs.Auth,
		WSHandler:      hub,
		Metrics:        metrics,
		Logger:         log,
		CORSOrigins:    cfg.Server.HTTP.CORSOrigins,
		RateLimitRPS:   cfg.Server.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.Server.HTTP.RateLimitBurst,
		EnableAudit:    true,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router, httpserver.Options{
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
	})

	// Shutdown hooks run in reverse registration order: HTTP first so
	// no new work arrives, then the simulators drain, then the bus and
	// stores close.
	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log)
	shutdownHandler.OnShutdown("database", func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	shutdownHandler.OnShutdown("cache", func(context.Context) error {
		return cacheStore.Close()
	})
	shutdownHandler.OnShutdown("event bus", func(context.Context) error {
		stopConsumers()
		bus.Close()
		return nil
	})
	shutdownHandler.OnShutdown("simulators", func(context.Context) error {
		svcs.Recoveries.Wait()
		svcs.Transfers.Wait()
		return nil
	})
	shutdownHandler.OnShutdown("http server", func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig merges defaults, the optional config file, and
// SYNCSPHERE_* environment variables.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// logConfig logs the effective configuration with secrets masked.
func logConfig(log *slog.Logger, cfg *config.ServerConfig) {
	safe := config.Sanitize(cfg)
	log.Info("configuration loaded",
		"http_addr", safe.Server.HTTP.Addr,
		"database_driver", safe.Database.Driver,
		"database_dsn", safe.Database.DSN,
		"cache_backend", safe.Cache.Backend,
		"auth_secret", safe.Auth.Secret,
		"log_level", safe.Log.Level)
}

// initCache selects the configured cache backend.
func initCache(ctx context.Context, cfg *config.ServerConfig, log *slog.Logger) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisStore(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, log)
	case "badger":
		return cache.NewBadgerStore(cfg.Cache.BadgerDir, log)
	case "memory", "":
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Services holds all initialized services.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Devices       *service.DeviceService
	Recoveries    *service.RecoveryService
	Transfers     *service.TransferService
	Subscriptions *service.SubscriptionService
	Notifications *service.NotificationService

	RecoveryRegistry *service.Registry
	TransferRegistry *service.Registry
}

// initServices wires the repositories into the domain services.
func initServices(db *gorm.DB, cacheStore cache.Store, bus *events.Bus, cfg *config.ServerConfig, log *slog.Logger) *Services {
	userRepo := storage.NewUserRepo(db)

	users := service.NewUserService(userRepo, cacheStore, log)
	auth := service.NewAuthService(userRepo, cacheStore, service.AuthConfig{
		Secret:   []byte(cfg.Auth.Secret),
		TokenTTL: cfg.Auth.TokenTTL,
	}, log)
	devices := service.NewDeviceService(storage.NewDeviceRepo(db), cacheStore, bus, log)

	simOpts := service.SimulatorOptions{
		StepDelay:     cfg.Simulator.StepDelay,
		StepsPerPhase: cfg.Simulator.StepsPerPhase,
	}
	recoveryReg := service.NewRegistry()
	transferReg := service.NewRegistry()
	recoveries := service.NewRecoveryService(
		storage.NewRecoveryRepo(db), devices, cacheStore, bus, recoveryReg, simOpts, log)
	transfers := service.NewTransferService(
		storage.NewTransferRepo(db), devices, cacheStore, bus, transferReg, simOpts, log)

	subscriptions := service.NewSubscriptionService(storage.NewSubscriptionRepo(db), users, log)
	notifications := service.NewNotificationService(storage.NewNotificationRepo(db), log)

	return &Services{
		Auth:             auth,
		Users:            users,
		Devices:          devices,
		Recoveries:       recoveries,
		Transfers:        transfers,
		Subscriptions:    subscriptions,
		Notifications:    notifications,
		RecoveryRegistry: recoveryReg,
		TransferRegistry: transferReg,
	}
}
