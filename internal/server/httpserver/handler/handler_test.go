package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bollo444/SyncSphere-sub004/internal/cache"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/service"
	"github.com/Bollo444/SyncSphere-sub004/internal/events"
	"github.com/Bollo444/SyncSphere-sub004/internal/server/httpserver"
	"github.com/Bollo444/SyncSphere-sub004/internal/server/httpserver/handler"
	"github.com/Bollo444/SyncSphere-sub004/internal/storage"
	"github.com/Bollo444/SyncSphere-sub004/internal/telemetry/metric"
)

// envelope mirrors the response wrapper for decoding in tests.
type envelope struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

type env struct {
	t     *testing.T
	srv   *httptest.Server
	users *storage.UserRepo
}

// newEnv stands up the full API stack on an in-memory database. The
// simulators run with millisecond pacing so sessions finish quickly.
func newEnv(t *testing.T) *env {
	return newEnvWithSim(t, service.SimulatorOptions{
		StepsPerPhase: 1,
		StepDelay:     time.Millisecond,
	})
}

func newEnvWithSim(t *testing.T, simOpts service.SimulatorOptions) *env {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := storage.Open(storage.Config{Driver: storage.DriverSQLite, Logger: log})
	require.NoError(t, err)

	store := cache.NewMemoryStore()
	bus := events.NewBus(log)
	t.Cleanup(bus.Close)

	userRepo := storage.NewUserRepo(db)
	auth := service.NewAuthService(userRepo, store, service.AuthConfig{
		Secret:   []byte("handler-test-secret"),
		TokenTTL: time.Hour,
	}, log)
	users := service.NewUserService(userRepo, store, log)
	devices := service.NewDeviceService(storage.NewDeviceRepo(db), store, bus, log)

	recoveryReg := service.NewRegistry()
	transferReg := service.NewRegistry()
	recoveries := service.NewRecoveryService(storage.NewRecoveryRepo(db), devices, store, bus, recoveryReg, simOpts, log)
	transfers := service.NewTransferService(storage.NewTransferRepo(db), devices, store, bus, transferReg, simOpts, log)
	t.Cleanup(recoveries.Wait)
	t.Cleanup(transfers.Wait)

	subscriptions := service.NewSubscriptionService(storage.NewSubscriptionRepo(db), users, log)
	notifications := service.NewNotificationService(storage.NewNotificationRepo(db), log)

	ctx, cancel := context.WithCancel(context.Background())
	ch, unsubscribe := bus.Subscribe()
	go notifications.Run(ctx, ch)
	t.Cleanup(func() {
		cancel()
		unsubscribe()
	})

	h := handler.New(handler.Config{
		Auth:             auth,
		Users:            users,
		Devices:          devices,
		Recoveries:       recoveries,
		Transfers:        transfers,
		Subscriptions:    subscriptions,
		Notifications:    notifications,
		RecoveryRegistry: recoveryReg,
		TransferRegistry: transferReg,
		Metrics:          metric.NewRegistry(),
		Logger:           log,
	})
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Handler:     h,
		AuthService: auth,
		Logger:      log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &env{t: t, srv: srv, users: userRepo}
}

// request issues one API call and decodes the response envelope.
func (e *env) request(method, path, token string, body any) (int, envelope) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(e.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.srv.Client().Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	var wrapped envelope
	require.NoError(e.t, json.NewDecoder(resp.Body).Decode(&wrapped))
	return resp.StatusCode, wrapped
}

// signup registers an account and returns its bearer token.
func (e *env) signup(email string) string {
	e.t.Helper()
	creds := map[string]string{"email": email, "password": "a-sufficiently-long-pw"}

	status, _ := e.request(http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(e.t, http.StatusCreated, status)

	status, body := e.request(http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(e.t, http.StatusOK, status)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(e.t, json.Unmarshal(body.Data, &login))
	require.NotEmpty(e.t, login.Token)
	return login.Token
}

// connectedDevice registers a device and brings it online.
func (e *env) connectedDevice(token, name string) string {
	e.t.Helper()

	status, body := e.request(http.MethodPost, "/api/devices", token, map[string]string{
		"name":        name,
		"device_type": "ios",
		"model":       "iPhone 13",
	})
	require.Equal(e.t, http.StatusCreated, status)

	var device domain.Device
	require.NoError(e.t, json.Unmarshal(body.Data, &device))

	status, _ = e.request(http.MethodPost, "/api/devices/"+device.ID+"/connect", token, nil)
	require.Equal(e.t, http.StatusOK, status)
	return device.ID
}

// waitForSession polls a session resource until it reaches the wanted
// status.
func (e *env) waitForSession(path, token string, want domain.SessionStatus) {
	e.t.Helper()
	require.Eventually(e.t, func() bool {
		status, body := e.request(http.MethodGet, path, token, nil)
		if status != http.StatusOK {
			return false
		}
		var session struct {
			Status domain.SessionStatus `json:"status"`
		}
		if err := json.Unmarshal(body.Data, &session); err != nil {
			return false
		}
		return session.Status == want
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRegisterLoginAndProfile(t *testing.T) {
	e := newEnv(t)
	token := e.signup("carol@example.com")

	status, body := e.request(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body.Code)
	assert.NotEmpty(t, body.RequestID)

	var user domain.User
	require.NoError(t, json.Unmarshal(body.Data, &user))
	assert.Equal(t, "carol@example.com", user.Email)
	assert.Empty(t, user.PasswordHash, "hashes never leave the API")

	status, body = e.request(http.MethodPut, "/api/users/me", token, map[string]string{
		"first_name": "Carol",
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &user))
	assert.Equal(t, "Carol", user.FirstName)
}

func TestAuthenticationRequired(t *testing.T) {
	e := newEnv(t)

	status, body := e.request(http.MethodGet, "/api/devices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, domain.ErrTokenInvalid.Code, body.Code)

	status, _ = e.request(http.MethodGet, "/api/devices", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestDeviceLifecycle(t *testing.T) {
	e := newEnv(t)
	token := e.signup("dev@example.com")

	status, body := e.request(http.MethodPost, "/api/devices", token, map[string]string{
		"name":        "Work Phone",
		"device_type": "android",
	})
	require.Equal(t, http.StatusCreated, status)
	var device domain.Device
	require.NoError(t, json.Unmarshal(body.Data, &device))
	assert.Equal(t, domain.DeviceDisconnected, device.Status)

	status, body = e.request(http.MethodPost, "/api/devices/"+device.ID+"/connect", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &device))
	assert.Equal(t, domain.DeviceConnected, device.Status)
	assert.NotEmpty(t, device.ConnectionID)

	status, body = e.request(http.MethodGet, "/api/devices", token, nil)
	require.Equal(t, http.StatusOK, status)
	var list []domain.Device
	require.NoError(t, json.Unmarshal(body.Data, &list))
	assert.Len(t, list, 1)

	status, _ = e.request(http.MethodPost, "/api/devices/"+device.ID+"/disconnect", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = e.request(http.MethodDelete, "/api/devices/"+device.ID, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = e.request(http.MethodGet, "/api/devices/"+device.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, domain.ErrDeviceNotFound.Code, body.Code)
}

func TestRecoveryRunsToCompletion(t *testing.T) {
	e := newEnv(t)
	token := e.signup("recover@example.com")
	deviceID := e.connectedDevice(token, "Old Phone")

	status, body := e.request(http.MethodPost, "/api/recovery", token, map[string]any{
		"device_id":     deviceID,
		"recovery_type": "deleted_files",
		"options":       map[string]any{"deep_scan": true},
	})
	require.Equal(t, http.StatusCreated, status)

	var session domain.RecoverySession
	require.NoError(t, json.Unmarshal(body.Data, &session))
	assert.Equal(t, domain.StatusPending, session.Status)

	e.waitForSession("/api/recovery/"+session.ID, token, domain.StatusCompleted)

	status, body = e.request(http.MethodGet, "/api/recovery/"+session.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &session))
	assert.Equal(t, 100, session.Progress)
}

func TestRecoveryRequiresConnectedDevice(t *testing.T) {
	e := newEnv(t)
	token := e.signup("offline@example.com")

	status, body := e.request(http.MethodPost, "/api/devices", token, map[string]string{
		"name":        "Offline Phone",
		"device_type": "ios",
	})
	require.Equal(t, http.StatusCreated, status)
	var device domain.Device
	require.NoError(t, json.Unmarshal(body.Data, &device))

	status, body = e.request(http.MethodPost, "/api/recovery", token, map[string]string{
		"device_id":     device.ID,
		"recovery_type": "deleted_files",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body.Message, "Device must be connected to start recovery")
}

func TestRecoveryUnknownDevice(t *testing.T) {
	e := newEnv(t)
	token := e.signup("ghost@example.com")

	status, body := e.request(http.MethodPost, "/api/recovery", token, map[string]string{
		"device_id":     "dev_does_not_exist",
		"recovery_type": "deleted_files",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, domain.ErrDeviceNotFound.Code, body.Code)
}

func TestRecoveryCancelAndResume(t *testing.T) {
	e := newEnvWithSim(t, service.SimulatorOptions{
		StepsPerPhase: 5,
		StepDelay:     50 * time.Millisecond,
	})
	token := e.signup("restart@example.com")
	deviceID := e.connectedDevice(token, "Slow Phone")

	status, body := e.request(http.MethodPost, "/api/recovery", token, map[string]string{
		"device_id":     deviceID,
		"recovery_type": "formatted_drive",
	})
	require.Equal(t, http.StatusCreated, status)
	var session domain.RecoverySession
	require.NoError(t, json.Unmarshal(body.Data, &session))

	status, _ = e.request(http.MethodPost, "/api/recovery/"+session.ID+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = e.request(http.MethodGet, "/api/recovery/"+session.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &session))
	assert.Equal(t, domain.StatusCancelled, session.Status)

	// Cancelled sessions restart from the beginning.
	status, body = e.request(http.MethodPost, "/api/recovery/"+session.ID+"/resume", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &session))
	assert.Equal(t, domain.StatusPending, session.Status)
	assert.Equal(t, 0, session.Progress)

	e.waitForSession("/api/recovery/"+session.ID, token, domain.StatusCompleted)
}

func TestTransferRunsToCompletion(t *testing.T) {
	e := newEnv(t)
	token := e.signup("mover@example.com")
	sourceID := e.connectedDevice(token, "Old Phone")
	targetID := e.connectedDevice(token, "New Phone")

	status, body := e.request(http.MethodPost, "/api/transfers", token, map[string]any{
		"source_device_id": sourceID,
		"target_device_id": targetID,
		"transfer_type":    "selective",
		"data_types":       []string{"photos", "contacts"},
	})
	require.Equal(t, http.StatusCreated, status)

	var transfer domain.Transfer
	require.NoError(t, json.Unmarshal(body.Data, &transfer))
	assert.Equal(t, domain.StatusPending, transfer.Status)

	e.waitForSession("/api/transfers/"+transfer.ID, token, domain.StatusCompleted)
}

func TestTransferRejectsSameDevice(t *testing.T) {
	e := newEnv(t)
	token := e.signup("loop@example.com")
	deviceID := e.connectedDevice(token, "Only Phone")

	status, _ := e.request(http.MethodPost, "/api/transfers", token, map[string]string{
		"source_device_id": deviceID,
		"target_device_id": deviceID,
		"transfer_type":    "full",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSessionsAreOwnerScoped(t *testing.T) {
	e := newEnv(t)
	owner := e.signup("owner@example.com")
	other := e.signup("other@example.com")
	deviceID := e.connectedDevice(owner, "Private Phone")

	status, body := e.request(http.MethodPost, "/api/recovery", owner, map[string]string{
		"device_id":     deviceID,
		"recovery_type": "deleted_files",
	})
	require.Equal(t, http.StatusCreated, status)
	var session domain.RecoverySession
	require.NoError(t, json.Unmarshal(body.Data, &session))

	// A stranger sees 404, not 403, so resource IDs leak nothing.
	status, _ = e.request(http.MethodGet, "/api/recovery/"+session.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = e.request(http.MethodGet, "/api/devices/"+deviceID, other, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSubscriptionFlow(t *testing.T) {
	e := newEnv(t)
	token := e.signup("subscriber@example.com")

	status, body := e.request(http.MethodPost, "/api/subscriptions", token, map[string]string{
		"tier": "pro",
	})
	require.Equal(t, http.StatusCreated, status)

	var sub domain.Subscription
	require.NoError(t, json.Unmarshal(body.Data, &sub))
	assert.Equal(t, domain.TierPro, sub.Tier)

	status, body = e.request(http.MethodGet, "/api/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, status)
	var overview struct {
		Current *domain.Subscription  `json:"current"`
		History []domain.Subscription `json:"history"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &overview))
	require.NotNil(t, overview.Current)
	assert.Equal(t, domain.TierPro, overview.Current.Tier)

	status, _ = e.request(http.MethodDelete, "/api/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = e.request(http.MethodGet, "/api/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &overview))
	assert.Nil(t, overview.Current)
	assert.NotEmpty(t, overview.History)
}

func TestNotificationsFromCompletedRecovery(t *testing.T) {
	e := newEnv(t)
	token := e.signup("notified@example.com")
	deviceID := e.connectedDevice(token, "Phone")

	status, body := e.request(http.MethodPost, "/api/recovery", token, map[string]string{
		"device_id":     deviceID,
		"recovery_type": "deleted_files",
	})
	require.Equal(t, http.StatusCreated, status)
	var session domain.RecoverySession
	require.NoError(t, json.Unmarshal(body.Data, &session))

	e.waitForSession("/api/recovery/"+session.ID, token, domain.StatusCompleted)

	// The notification consumer runs off the event bus; give it a
	// moment to observe the completion event.
	require.Eventually(t, func() bool {
		status, body := e.request(http.MethodGet, "/api/notifications?unread_only=true", token, nil)
		if status != http.StatusOK {
			return false
		}
		var list struct {
			Total int64 `json:"total"`
		}
		if err := json.Unmarshal(body.Data, &list); err != nil {
			return false
		}
		return list.Total > 0
	}, 5*time.Second, 10*time.Millisecond)

	status, body = e.request(http.MethodPost, "/api/notifications/read-all", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = e.request(http.MethodGet, "/api/notifications?unread_only=true", token, nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &list))
	assert.Zero(t, list.Total)
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	e := newEnv(t)
	token := e.signup("plain@example.com")

	status, _ := e.request(http.MethodGet, "/admin/v1/users", token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.request(http.MethodGet, "/admin/v1/status/summary", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAdminUserManagement(t *testing.T) {
	e := newEnv(t)
	e.signup("root@example.com")
	victim := "victim@example.com"
	e.signup(victim)

	// Promote through the repository; role changes have no API surface.
	ctx := context.Background()
	admin, err := e.users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	admin.Role = domain.RoleAdmin
	require.NoError(t, e.users.Update(ctx, admin))

	status, body := e.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "root@example.com", "password": "a-sufficiently-long-pw",
	})
	require.Equal(t, http.StatusOK, status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &login))
	adminToken := login.Token

	status, body = e.request(http.MethodGet, "/admin/v1/users", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &list))
	assert.Equal(t, int64(2), list.Total)

	status, body = e.request(http.MethodGet, "/admin/v1/status/summary", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var summary struct {
		GoVersion string `json:"go_version"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &summary))
	assert.NotEmpty(t, summary.GoVersion)

	victimUser, err := e.users.GetByEmail(ctx, victim)
	require.NoError(t, err)
	status, _ = e.request(http.MethodPost, "/admin/v1/users/"+victimUser.ID+"/deactivate", adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = e.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": victim, "password": "a-sufficiently-long-pw",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, domain.ErrUserInactive.Code, body.Code)
}

func TestMalformedBodyRejected(t *testing.T) {
	e := newEnv(t)

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/api/auth/register",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Error-Code"))
}

func TestHealthAndReady(t *testing.T) {
	e := newEnv(t)

	status, body := e.request(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body.Code)

	status, _ = e.request(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
