package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Bollo444/SyncSphere-sub004/internal/cache"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/events"
)

// RecoveryRepository defines the storage interface for recovery sessions.
type RecoveryRepository interface {
	// Create creates a new session in storage.
	Create(ctx context.Context, s *domain.RecoverySession) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*domain.RecoverySession, error)

	// ListByUser retrieves a user's sessions, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.RecoverySession, int64, error)

	// CountActiveByUser counts pending and in_progress sessions.
	CountActiveByUser(ctx context.Context, userID string) (int, error)

	// UpdateStatus conditionally transitions a session's status.
	UpdateStatus(ctx context.Context, id string, to domain.SessionStatus, from ...domain.SessionStatus) error

	// UpdateProgress records a progress step (forward-only).
	UpdateProgress(ctx context.Context, id string, progress int, phase domain.RecoveryPhase) error

	// Restart rewinds a cancelled session for a fresh driver run.
	Restart(ctx context.Context, id string) error

	// Complete marks a session completed with its file accounting.
	Complete(ctx context.Context, id string, total, recovered, failed int, results domain.JSONMap) error

	// Fail marks a session failed with the captured message.
	Fail(ctx context.Context, id, message string) error
}

// DeviceReader is the slice of DeviceService the simulators need.
type DeviceReader interface {
	// GetOwned retrieves a device, enforcing ownership.
	GetOwned(ctx context.Context, userID, deviceID string) (*domain.Device, error)
}

// Simulation pacing defaults. Three phases, five steps per phase,
// half a second per step.
const (
	DefaultStepsPerPhase = 5
	DefaultStepDelay     = 500 * time.Millisecond

	recoveryCacheTTL = 5 * time.Minute
)

// SimulatorOptions tune the phase drivers. Zero values select defaults.
type SimulatorOptions struct {
	StepsPerPhase int
	StepDelay     time.Duration
	Scheduler     Scheduler
}

func (o SimulatorOptions) withDefaults() SimulatorOptions {
	if o.StepsPerPhase <= 0 {
		o.StepsPerPhase = DefaultStepsPerPhase
	}
	if o.StepDelay <= 0 {
		o.StepDelay = DefaultStepDelay
	}
	if o.Scheduler == nil {
		o.Scheduler = TimerScheduler{}
	}
	return o
}

// RecoveryService drives simulated data-recovery sessions.
type RecoveryService struct {
	sessions RecoveryRepository
	devices  DeviceReader
	cache    cache.Store
	bus      events.Publisher
	registry *Registry
	opts     SimulatorOptions
	logger   *slog.Logger

	wg sync.WaitGroup
}

// NewRecoveryService creates a RecoveryService.
func NewRecoveryService(
	sessions RecoveryRepository,
	devices DeviceReader,
	cacheStore cache.Store,
	bus events.Publisher,
	registry *Registry,
	opts SimulatorOptions,
	logger *slog.Logger,
) *RecoveryService {
	return &RecoveryService{
		sessions: sessions,
		devices:  devices,
		cache:    cacheStore,
		bus:      bus,
		registry: registry,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// Wait blocks until all running phase drivers have returned. Used for
// clean shutdown and leak-free tests.
func (s *RecoveryService) Wait() {
	s.wg.Wait()
}

// StartRecoveryRequest contains parameters for starting a recovery.
type StartRecoveryRequest struct {
	UserID       string
	DeviceID     string
	RecoveryType domain.RecoveryType
	Options      domain.JSONMap // optional scan options, recorded on the session
}

// Start validates ownership, connectivity, and the per-user concurrency
// cap, persists a pending session, and launches the phase driver
// without blocking the caller.
func (s *RecoveryService) Start(ctx context.Context, req *StartRecoveryRequest) (*domain.RecoverySession, error) {
	if req.UserID == "" {
		return nil, domain.ErrMissingArgument.WithDetails("user_id is required")
	}
	if req.DeviceID == "" {
		return nil, domain.ErrMissingArgument.WithDetails("device_id is required")
	}
	if !req.RecoveryType.Valid() {
		return nil, domain.ErrRecoveryValidation.WithDetails("unknown recovery_type: " + string(req.RecoveryType))
	}

	device, err := s.devices.GetOwned(ctx, req.UserID, req.DeviceID)
	if err != nil {
		return nil, err
	}
	if !device.Connected() {
		return nil, domain.ErrDeviceNotConnected
	}

	active, err := s.sessions.CountActiveByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if active >= domain.MaxConcurrentRecoveries {
		return nil, domain.ErrRecoveryLimitExceeded.WithDetails(
			fmt.Sprintf("limit is %d concurrent sessions", domain.MaxConcurrentRecoveries))
	}

	session, err := domain.NewRecoverySession(req.UserID, req.DeviceID, req.RecoveryType)
	if err != nil {
		return nil, err
	}
	if len(req.Options) > 0 {
		session.ScanResults = domain.JSONMap{"options": map[string]any(req.Options)}
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.launch(session)
	return session, nil
}

// launch registers the session and starts its phase driver.
func (s *RecoveryService) launch(session *domain.RecoverySession) {
	simCtx, cancel := context.WithCancel(context.Background())
	handle, ok := s.registry.Register(session.ID, cancel)
	if !ok {
		cancel()
		s.logger.Warn("recovery already running, driver not launched", "recovery_id", session.ID)
		return
	}

	s.logger.Info("recovery started",
		"recovery_id", session.ID, "user_id", session.UserID,
		"device_id", session.DeviceID, "recovery_type", session.RecoveryType)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(simCtx, handle, session)
	}()
}

// run drives the three recovery phases. It exits early when paused
// (leaving status and registry entry intact for a later cancel) and
// when cancelled (the cancel operation owns the status transition).
func (s *RecoveryService) run(ctx context.Context, handle *ScanHandle, session *domain.RecoverySession) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(session, fmt.Sprintf("simulation panic: %v", r))
		}
	}()

	if err := s.sessions.UpdateStatus(ctx, session.ID, domain.StatusInProgress, domain.StatusPending); err != nil {
		s.fail(session, err.Error())
		return
	}
	s.cache.Delete(ctx, cache.RecoveryKey(session.ID))

	for _, phase := range domain.RecoveryPhases {
		handle.SetPhase(string(phase))
		lo, hi := domain.PhaseBand(phase)

		for step := 1; step <= s.opts.StepsPerPhase; step++ {
			if handle.Paused() {
				s.logger.Info("recovery paused", "recovery_id", session.ID, "phase", phase)
				return
			}
			if err := s.opts.Scheduler.Wait(ctx, s.opts.StepDelay); err != nil {
				// Cancelled; the cancel operation has already
				// transitioned the session and cleared the registry.
				s.logger.Info("recovery cancelled", "recovery_id", session.ID, "phase", phase)
				return
			}

			progress := lo + (hi-lo)*step/s.opts.StepsPerPhase
			if err := s.sessions.UpdateProgress(ctx, session.ID, progress, phase); err != nil {
				s.fail(session, err.Error())
				return
			}
			s.cache.Delete(ctx, cache.RecoveryKey(session.ID))
			s.bus.Publish(events.Event{
				Kind:   events.RecoveryProgress,
				UserID: session.UserID,
				Payload: map[string]any{
					"recovery_id": session.ID,
					"device_id":   session.DeviceID,
					"progress":    progress,
					"phase":       string(phase),
				},
			})
		}
	}

	s.complete(session)
}

// complete finalizes a successful run with simulated file accounting.
func (s *RecoveryService) complete(session *domain.RecoverySession) {
	ctx := context.Background()

	total := 200 + rand.IntN(1800)
	recovered := total * (80 + rand.IntN(19)) / 100 // 80-98% recovered
	failed := rand.IntN(total - recovered + 1)
	results := domain.JSONMap{
		"recovery_type": string(session.RecoveryType),
		"duration_ms":   time.Since(handleStart(s.registry, session.ID)).Milliseconds(),
	}

	if err := s.sessions.Complete(ctx, session.ID, total, recovered, failed, results); err != nil {
		s.fail(session, err.Error())
		return
	}
	s.registry.Remove(session.ID)
	s.cache.Delete(ctx, cache.RecoveryKey(session.ID))

	rate := float64(recovered) / float64(total)
	s.logger.Info("recovery completed",
		"recovery_id", session.ID, "total_files", total,
		"recovered_files", recovered, "success_rate", rate)
	s.bus.Publish(events.Event{
		Kind:   events.RecoveryCompleted,
		UserID: session.UserID,
		Payload: map[string]any{
			"recovery_id":     session.ID,
			"user_id":         session.UserID,
			"success_rate":    rate,
			"total_files":     total,
			"recovered_files": recovered,
			"failed_files":    failed,
		},
	})
}

// handleStart returns the registered start time, or now when the
// handle is already gone.
func handleStart(r *Registry, id string) time.Time {
	if h, ok := r.Lookup(id); ok {
		return h.StartedAt()
	}
	return time.Now()
}

// fail records a simulation failure. Failures never crash the process.
func (s *RecoveryService) fail(session *domain.RecoverySession, message string) {
	ctx := context.Background()
	if err := s.sessions.Fail(ctx, session.ID, message); err != nil {
		s.logger.Error("recording recovery failure failed",
			"recovery_id", session.ID, "error", err)
	}
	s.registry.Remove(session.ID)
	s.cache.Delete(ctx, cache.RecoveryKey(session.ID))

	s.logger.Error("recovery failed", "recovery_id", session.ID, "error", message)
	s.bus.Publish(events.Event{
		Kind:   events.RecoveryFailed,
		UserID: session.UserID,
		Payload: map[string]any{
			"recovery_id": session.ID,
			"error":       message,
		},
	})
}

// Get retrieves a session by ID, enforcing ownership. Reads go through
// the cache-aside path.
func (s *RecoveryService) Get(ctx context.Context, userID, id string) (*domain.RecoverySession, error) {
	if cached, ok := cache.GetJSON[*domain.RecoverySession](ctx, s.cache, cache.RecoveryKey(id)); ok {
		if !cached.OwnedBy(userID) {
			return nil, domain.ErrRecoveryNotFound
		}
		return cached, nil
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.OwnedBy(userID) {
		return nil, domain.ErrRecoveryNotFound
	}
	cache.SetJSON(ctx, s.cache, cache.RecoveryKey(id), session, recoveryCacheTTL)
	return session, nil
}

// List retrieves a user's sessions, newest first.
func (s *RecoveryService) List(ctx context.Context, userID string, limit, offset int) ([]*domain.RecoverySession, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.sessions.ListByUser(ctx, userID, limit, offset)
}

// Pause asks a running simulation to stop at its next step boundary.
// Only in_progress sessions may be paused.
func (s *RecoveryService) Pause(ctx context.Context, userID, id string) error {
	session, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if !session.Status.CanPause() {
		return domain.ErrRecoveryInvalidState.WithDetails(
			"only in_progress sessions can be paused, session is " + string(session.Status))
	}

	handle, ok := s.registry.Lookup(id)
	if !ok {
		// The driver is not running in this process (e.g. restart).
		return domain.ErrRecoveryInvalidState.WithDetails("no active simulation for session")
	}
	handle.Pause()
	s.cache.Delete(ctx, cache.RecoveryKey(id))
	s.logger.Info("recovery pause requested", "recovery_id", id)
	return nil
}

// Resume restarts a cancelled session's simulation from the first
// phase. Progress is rewound to zero rather than continued from the
// saved offset.
func (s *RecoveryService) Resume(ctx context.Context, userID, id string) (*domain.RecoverySession, error) {
	session, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanResume() {
		return nil, domain.ErrRecoveryInvalidState.WithDetails(
			"only cancelled sessions can be resumed, session is " + string(session.Status))
	}

	active, err := s.sessions.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active >= domain.MaxConcurrentRecoveries {
		return nil, domain.ErrRecoveryLimitExceeded
	}

	if err := s.sessions.Restart(ctx, id); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cache.RecoveryKey(id))

	session.Status = domain.StatusPending
	session.Progress = 0
	session.CurrentPhase = ""
	session.ErrorMessage = ""
	s.launch(session)
	return session, nil
}

// Cancel transitions a pending or in_progress session to cancelled and
// stops its driver.
func (s *RecoveryService) Cancel(ctx context.Context, userID, id string) error {
	session, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if !session.Status.CanCancel() {
		return domain.ErrRecoveryInvalidState.WithDetails(
			"only pending or in_progress sessions can be cancelled, session is " + string(session.Status))
	}

	if err := s.sessions.UpdateStatus(ctx, id, domain.StatusCancelled,
		domain.StatusPending, domain.StatusInProgress); err != nil {
		return err
	}
	if handle, ok := s.registry.Lookup(id); ok {
		handle.Cancel()
		s.registry.Remove(id)
	}
	s.cache.Delete(ctx, cache.RecoveryKey(id))
	s.logger.Info("recovery cancelled by user", "recovery_id", id, "user_id", userID)
	return nil
}

// normalizePage clamps list pagination. Default page size 20, max 100.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
