package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/service"
	"github.com/Bollo444/SyncSphere-sub004/internal/server/identity"
	"github.com/Bollo444/SyncSphere-sub004/internal/telemetry/logger"
	"github.com/Bollo444/SyncSphere-sub004/internal/telemetry/metric"
)

// Handler routes REST requests to the core services.
type Handler struct {
	auth          *service.AuthService
	users         *service.UserService
	devices       *service.DeviceService
	recoveries    *service.RecoveryService
	transfers     *service.TransferService
	subscriptions *service.SubscriptionService
	notifications *service.NotificationService
	recoveryReg   *service.Registry
	transferReg   *service.Registry
	metrics       *metric.Registry
	logger        *slog.Logger
	startedAt     time.Time
	mux           *http.ServeMux
}

// Config collects the services the handler dispatches to.
type Config struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Devices       *service.DeviceService
	Recoveries    *service.RecoveryService
	Transfers     *service.TransferService
	Subscriptions *service.SubscriptionService
	Notifications *service.NotificationService

	// RecoveryRegistry and TransferRegistry are the in-process scan
	// registries, surfaced on the admin status summary and the
	// active-simulations gauge.
	RecoveryRegistry *service.Registry
	TransferRegistry *service.Registry

	// Metrics serves /metrics when set.
	Metrics *metric.Registry

	Logger *slog.Logger
}

// New creates the API handler and registers its routes.
func New(cfg Config) *Handler {
	h := &Handler{
		auth:          cfg.Auth,
		users:         cfg.Users,
		devices:       cfg.Devices,
		recoveries:    cfg.Recoveries,
		transfers:     cfg.Transfers,
		subscriptions: cfg.Subscriptions,
		notifications: cfg.Notifications,
		recoveryReg:   cfg.RecoveryRegistry,
		transferReg:   cfg.TransferRegistry,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		startedAt:     time.Now(),
		mux:           http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	// Health and metrics (no auth; the router keeps auth off these).
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics.Handler())
	}

	// Auth.
	h.mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	h.mux.HandleFunc("POST /api/auth/login", h.handleLogin)

	// Devices.
	h.mux.HandleFunc("GET /api/devices", h.handleListDevices)
	h.mux.HandleFunc("POST /api/devices", h.handleRegisterDevice)
	h.mux.HandleFunc("GET /api/devices/{id}", h.handleGetDevice)
	h.mux.HandleFunc("PUT /api/devices/{id}", h.handleUpdateDevice)
	h.mux.HandleFunc("DELETE /api/devices/{id}", h.handleDeleteDevice)
	h.mux.HandleFunc("POST /api/devices/{id}/connect", h.handleConnectDevice)
	h.mux.HandleFunc("POST /api/devices/{id}/disconnect", h.handleDisconnectDevice)

	// Recovery sessions.
	h.mux.HandleFunc("GET /api/recovery", h.handleListRecoveries)
	h.mux.HandleFunc("POST /api/recovery", h.handleStartRecovery)
	h.mux.HandleFunc("GET /api/recovery/{id}", h.handleGetRecovery)
	h.mux.HandleFunc("POST /api/recovery/{id}/pause", h.handlePauseRecovery)
	h.mux.HandleFunc("POST /api/recovery/{id}/resume", h.handleResumeRecovery)
	h.mux.HandleFunc("POST /api/recovery/{id}/cancel", h.handleCancelRecovery)

	// Transfers.
	h.mux.HandleFunc("GET /api/transfers", h.handleListTransfers)
	h.mux.HandleFunc("POST /api/transfers", h.handleStartTransfer)
	h.mux.HandleFunc("GET /api/transfers/{id}", h.handleGetTransfer)
	h.mux.HandleFunc("POST /api/transfers/{id}/pause", h.handlePauseTransfer)
	h.mux.HandleFunc("POST /api/transfers/{id}/resume", h.handleResumeTransfer)
	h.mux.HandleFunc("POST /api/transfers/{id}/cancel", h.handleCancelTransfer)

	// Profile.
	h.mux.HandleFunc("GET /api/users/me", h.handleGetProfile)
	h.mux.HandleFunc("PUT /api/users/me", h.handleUpdateProfile)

	// Subscriptions.
	h.mux.HandleFunc("GET /api/subscriptions", h.handleListSubscriptions)
	h.mux.HandleFunc("POST /api/subscriptions", h.handleSubscribe)
	h.mux.HandleFunc("DELETE /api/subscriptions", h.handleCancelSubscription)

	// Notifications.
	h.mux.HandleFunc("GET /api/notifications", h.handleListNotifications)
	h.mux.HandleFunc("POST /api/notifications/{id}/read", h.handleMarkNotificationRead)
	h.mux.HandleFunc("POST /api/notifications/read-all", h.handleMarkAllNotificationsRead)

	// Admin.
	h.mux.HandleFunc("GET /admin/v1/status/summary", h.handleAdminStatus)
	h.mux.HandleFunc("GET /admin/v1/users", h.handleAdminListUsers)
	h.mux.HandleFunc("POST /admin/v1/users/{id}/deactivate", h.handleAdminDeactivateUser)
	h.mux.HandleFunc("POST /admin/v1/users/{id}/activate", h.handleAdminActivateUser)
}

// caller returns the authenticated identity; a missing identity means
// the router let an unauthenticated request through to a protected
// route, which is answered with 401 rather than a panic.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, r, http.StatusUnauthorized, domain.ErrTokenInvalid.Code, "authentication required", nil)
	}
	return id, ok
}

// decode unmarshals the request body into v.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body", nil)
		return false
	}
	return true
}

// writeJSON writes a success envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.Error("encoding response failed", "error", err)
	}
}

// writeError writes an error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message, details))
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		h.writeError(w, r, errorCodeToHTTPStatus(code), code, err.Error(), nil)
		return
	}
	h.logger.ErrorContext(r.Context(), "internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError,
		domain.ErrInternalServer.Code, "internal server error", nil)
}

// errorCodeToHTTPStatus maps SS-<AREA>-<NNNN> codes to HTTP statuses by
// their numeric suffix.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"), strings.HasSuffix(code, "-4041"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"), strings.HasSuffix(code, "-4091"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"),
		strings.HasSuffix(code, "-4012"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4030"), strings.HasSuffix(code, "-4031"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"),
		strings.HasSuffix(code, "-4002"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "SS-ARG-"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getRequestID extracts the request ID stamped by the middleware.
func getRequestID(r *http.Request) string {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

// pageParams parses limit/offset query parameters.
func pageParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		offset = v
	}
	return limit, offset
}
