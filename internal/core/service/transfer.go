package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/Bollo444/SyncSphere-sub004/internal/cache"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/events"
)

// TransferRepository defines the storage interface for transfers.
type TransferRepository interface {
	Create(ctx context.Context, t *domain.Transfer) error
	Get(ctx context.Context, id string) (*domain.Transfer, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transfer, int64, error)
	CountActiveByUser(ctx context.Context, userID string) (int, error)
	UpdateStatus(ctx context.Context, id string, to domain.SessionStatus, from ...domain.SessionStatus) error
	UpdateProgress(ctx context.Context, id string, progress int, phase domain.TransferPhase) error
	Restart(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, total, transferred, failed int) error
	Fail(ctx context.Context, id, message string) error
}

const transferCacheTTL = recoveryCacheTTL

// TransferService drives simulated phone-to-phone transfers. It
// mirrors the recovery simulator over the transfer phase bands.
type TransferService struct {
	transfers TransferRepository
	devices   DeviceReader
	cache     cache.Store
	bus       events.Publisher
	registry  *Registry
	opts      SimulatorOptions
	logger    *slog.Logger

	wg sync.WaitGroup
}

// NewTransferService creates a TransferService.
func NewTransferService(
	transfers TransferRepository,
	devices DeviceReader,
	cacheStore cache.Store,
	bus events.Publisher,
	registry *Registry,
	opts SimulatorOptions,
	logger *slog.Logger,
) *TransferService {
	return &TransferService{
		transfers: transfers,
		devices:   devices,
		cache:     cacheStore,
		bus:       bus,
		registry:  registry,
		opts:      opts.withDefaults(),
		logger:    logger,
	}
}

// Wait blocks until all running transfer drivers have returned.
func (s *TransferService) Wait() {
	s.wg.Wait()
}

// StartTransferRequest contains parameters for starting a transfer.
type StartTransferRequest struct {
	UserID         string
	SourceDeviceID string
	TargetDeviceID string
	TransferType   domain.TransferType
	DataTypes      []string // for selective transfers
}

// Start validates both devices, enforces the concurrency cap, persists
// a pending transfer, and launches the phase driver.
func (s *TransferService) Start(ctx context.Context, req *StartTransferRequest) (*domain.Transfer, error) {
	if req.UserID == "" {
		return nil, domain.ErrMissingArgument.WithDetails("user_id is required")
	}

	transfer, err := domain.NewTransfer(req.UserID, req.SourceDeviceID, req.TargetDeviceID, req.TransferType)
	if err != nil {
		return nil, err
	}
	transfer.DataTypes = req.DataTypes
	if err := transfer.Validate(); err != nil {
		return nil, err
	}
	if transfer.TransferType == domain.TransferSelective && len(transfer.DataTypes) == 0 {
		return nil, domain.ErrTransferValidation.WithDetails("selective transfers require data_types")
	}

	// Both endpoints must be owned and connected.
	for _, deviceID := range []string{req.SourceDeviceID, req.TargetDeviceID} {
		device, err := s.devices.GetOwned(ctx, req.UserID, deviceID)
		if err != nil {
			return nil, err
		}
		if !device.Connected() {
			return nil, domain.ErrDeviceNotConnected.WithDetails("device " + deviceID + " is not connected")
		}
	}

	active, err := s.transfers.CountActiveByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if active >= domain.MaxConcurrentTransfers {
		return nil, domain.ErrTransferLimitExceeded.WithDetails(
			fmt.Sprintf("limit is %d concurrent transfers", domain.MaxConcurrentTransfers))
	}

	if err := s.transfers.Create(ctx, transfer); err != nil {
		return nil, err
	}

	s.launch(transfer)
	return transfer, nil
}

func (s *TransferService) launch(transfer *domain.Transfer) {
	simCtx, cancel := context.WithCancel(context.Background())
	handle, ok := s.registry.Register(transfer.ID, cancel)
	if !ok {
		cancel()
		s.logger.Warn("transfer already running, driver not launched", "transfer_id", transfer.ID)
		return
	}

	s.logger.Info("transfer started",
		"transfer_id", transfer.ID, "user_id", transfer.UserID,
		"source_device_id", transfer.SourceDeviceID,
		"target_device_id", transfer.TargetDeviceID,
		"transfer_type", transfer.TransferType)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(simCtx, handle, transfer)
	}()
}

func (s *TransferService) run(ctx context.Context, handle *ScanHandle, transfer *domain.Transfer) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(transfer, fmt.Sprintf("simulation panic: %v", r))
		}
	}()

	if err := s.transfers.UpdateStatus(ctx, transfer.ID, domain.StatusInProgress, domain.StatusPending); err != nil {
		s.fail(transfer, err.Error())
		return
	}
	s.cache.Delete(ctx, cache.TransferKey(transfer.ID))

	for _, phase := range domain.TransferPhases {
		handle.SetPhase(string(phase))
		lo, hi := domain.TransferPhaseBand(phase)

		for step := 1; step <= s.opts.StepsPerPhase; step++ {
			if handle.Paused() {
				s.logger.Info("transfer paused", "transfer_id", transfer.ID, "phase", phase)
				return
			}
			if err := s.opts.Scheduler.Wait(ctx, s.opts.StepDelay); err != nil {
				s.logger.Info("transfer cancelled", "transfer_id", transfer.ID, "phase", phase)
				return
			}

			progress := lo + (hi-lo)*step/s.opts.StepsPerPhase
			if err := s.transfers.UpdateProgress(ctx, transfer.ID, progress, phase); err != nil {
				s.fail(transfer, err.Error())
				return
			}
			s.cache.Delete(ctx, cache.TransferKey(transfer.ID))
			s.bus.Publish(events.Event{
				Kind:   events.TransferProgress,
				UserID: transfer.UserID,
				Payload: map[string]any{
					"transfer_id": transfer.ID,
					"progress":    progress,
					"phase":       string(phase),
				},
			})
		}
	}

	s.complete(transfer)
}

func (s *TransferService) complete(transfer *domain.Transfer) {
	ctx := context.Background()

	total := 500 + rand.IntN(4500)
	transferred := total * (90 + rand.IntN(10)) / 100 // 90-99% transferred
	failed := rand.IntN(total - transferred + 1)

	if err := s.transfers.Complete(ctx, transfer.ID, total, transferred, failed); err != nil {
		s.fail(transfer, err.Error())
		return
	}
	s.registry.Remove(transfer.ID)
	s.cache.Delete(ctx, cache.TransferKey(transfer.ID))

	rate := float64(transferred) / float64(total)
	s.logger.Info("transfer completed",
		"transfer_id", transfer.ID, "total_items", total,
		"transferred_items", transferred, "success_rate", rate)
	s.bus.Publish(events.Event{
		Kind:   events.TransferCompleted,
		UserID: transfer.UserID,
		Payload: map[string]any{
			"transfer_id":       transfer.ID,
			"user_id":           transfer.UserID,
			"success_rate":      rate,
			"total_items":       total,
			"transferred_items": transferred,
			"failed_items":      failed,
		},
	})
}

func (s *TransferService) fail(transfer *domain.Transfer, message string) {
	ctx := context.Background()
	if err := s.transfers.Fail(ctx, transfer.ID, message); err != nil {
		s.logger.Error("recording transfer failure failed",
			"transfer_id", transfer.ID, "error", err)
	}
	s.registry.Remove(transfer.ID)
	s.cache.Delete(ctx, cache.TransferKey(transfer.ID))

	s.logger.Error("transfer failed", "transfer_id", transfer.ID, "error", message)
	s.bus.Publish(events.Event{
		Kind:   events.TransferFailed,
		UserID: transfer.UserID,
		Payload: map[string]any{
			"transfer_id": transfer.ID,
			"error":       message,
		},
	})
}

// Get retrieves a transfer by ID, enforcing ownership.
func (s *TransferService) Get(ctx context.Context, userID, id string) (*domain.Transfer, error) {
	if cached, ok := cache.GetJSON[*domain.Transfer](ctx, s.cache, cache.TransferKey(id)); ok {
		if !cached.OwnedBy(userID) {
			return nil, domain.ErrTransferNotFound
		}
		return cached, nil
	}

	transfer, err := s.transfers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transfer.OwnedBy(userID) {
		return nil, domain.ErrTransferNotFound
	}
	cache.SetJSON(ctx, s.cache, cache.TransferKey(id), transfer, transferCacheTTL)
	return transfer, nil
}

// List retrieves a user's transfers, newest first.
func (s *TransferService) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Transfer, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.transfers.ListByUser(ctx, userID, limit, offset)
}

// Pause asks a running transfer to stop at its next step boundary.
func (s *TransferService) Pause(ctx context.Context, userID, id string) error {
	transfer, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if !transfer.Status.CanPause() {
		return domain.ErrTransferInvalidState.WithDetails(
			"only in_progress transfers can be paused, transfer is " + string(transfer.Status))
	}

	handle, ok := s.registry.Lookup(id)
	if !ok {
		return domain.ErrTransferInvalidState.WithDetails("no active simulation for transfer")
	}
	handle.Pause()
	s.cache.Delete(ctx, cache.TransferKey(id))
	s.logger.Info("transfer pause requested", "transfer_id", id)
	return nil
}

// Resume restarts a cancelled transfer from the first phase.
func (s *TransferService) Resume(ctx context.Context, userID, id string) (*domain.Transfer, error) {
	transfer, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !transfer.Status.CanResume() {
		return nil, domain.ErrTransferInvalidState.WithDetails(
			"only cancelled transfers can be resumed, transfer is " + string(transfer.Status))
	}

	active, err := s.transfers.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active >= domain.MaxConcurrentTransfers {
		return nil, domain.ErrTransferLimitExceeded
	}

	if err := s.transfers.Restart(ctx, id); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cache.TransferKey(id))

	transfer.Status = domain.StatusPending
	transfer.Progress = 0
	transfer.CurrentPhase = ""
	transfer.ErrorMessage = ""
	s.launch(transfer)
	return transfer, nil
}

// Cancel transitions a pending or in_progress transfer to cancelled.
func (s *TransferService) Cancel(ctx context.Context, userID, id string) error {
	transfer, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if !transfer.Status.CanCancel() {
		return domain.ErrTransferInvalidState.WithDetails(
			"only pending or in_progress transfers can be cancelled, transfer is " + string(transfer.Status))
	}

	if err := s.transfers.UpdateStatus(ctx, id, domain.StatusCancelled,
		domain.StatusPending, domain.StatusInProgress); err != nil {
		return err
	}
	if handle, ok := s.registry.Lookup(id); ok {
		handle.Cancel()
		s.registry.Remove(id)
	}
	s.cache.Delete(ctx, cache.TransferKey(id))
	s.logger.Info("transfer cancelled by user", "transfer_id", id, "user_id", userID)
	return nil
}
