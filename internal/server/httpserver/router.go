package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/service"
	"github.com/Bollo444/SyncSphere-sub004/internal/server/httpserver/handler"
	"github.com/Bollo444/SyncSphere-sub004/internal/telemetry/metric"
)

// RouterConfig collects everything the router mounts.
type RouterConfig struct {
	Handler *handler.Handler

	// AuthService backs the bearer-token middleware.
	AuthService *service.AuthService

	// WSHandler serves GET /ws when set. It runs behind the same
	// bearer authentication as the API routes.
	WSHandler http.Handler

	// Metrics enables the request counter/latency middleware.
	Metrics *metric.Registry

	Logger *slog.Logger

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string

	// RateLimitRPS/RateLimitBurst configure the per-client limiter.
	// Zero RPS disables it.
	RateLimitRPS   float64
	RateLimitBurst int

	// EnableAudit turns on per-request audit logging.
	EnableAudit bool
}

// NewRouter assembles the route groups:
//
//   - public: health, readiness, metrics, register, login
//   - api: everything under /api and /ws, bearer-authenticated
//   - admin: /admin/v1, bearer-authenticated plus admin role
func NewRouter(cfg *RouterConfig) http.Handler {
	base := []Middleware{Recover(cfg.Logger), RequestID()}
	if cfg.Metrics != nil {
		base = append(base, Metrics(cfg.Metrics))
	}
	if len(cfg.CORSOrigins) > 0 {
		base = append(base, CORS(cfg.CORSOrigins))
	}
	if cfg.RateLimitRPS > 0 {
		base = append(base, RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	if cfg.EnableAudit {
		base = append(base, Audit(cfg.Logger))
	}

	public := Chain(cfg.Handler, base...)
	api := Chain(cfg.Handler, append(append([]Middleware{}, base...), Auth(cfg.AuthService))...)
	admin := Chain(cfg.Handler, append(append([]Middleware{}, base...), Auth(cfg.AuthService), RequireAdmin())...)

	mux := http.NewServeMux()

	mux.Handle("GET /health", public)
	mux.Handle("GET /ready", public)
	mux.Handle("GET /metrics", public)
	mux.Handle("POST /api/auth/register", public)
	mux.Handle("POST /api/auth/login", public)

	mux.Handle("/api/", api)
	mux.Handle("/admin/v1/", admin)

	if cfg.WSHandler != nil {
		ws := Chain(cfg.WSHandler, append(append([]Middleware{}, base...), Auth(cfg.AuthService))...)
		mux.Handle("GET /ws", ws)
	}

	return mux
}
