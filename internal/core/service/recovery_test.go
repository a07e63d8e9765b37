package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
	"github.com/Bollo444/SyncSphere-sub004/internal/events"
)

const testUserID = "ssus-01hzvjam5c3qk8w2xt9e4rfgnd"

func newRecoveryHarness(t *testing.T, sched Scheduler) (*RecoveryService, *fakeRecoveries, *fakeDevices, *capturePublisher) {
	t.Helper()
	sessions := newFakeRecoveries()
	devices := newFakeDevices()
	pub := &capturePublisher{}
	svc := NewRecoveryService(sessions, devices, newMemCache(), pub, NewRegistry(),
		SimulatorOptions{Scheduler: sched}, discardLogger())
	return svc, sessions, devices, pub
}

func waitForStatus(t *testing.T, get func() (domain.SessionStatus, error), want domain.SessionStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		status, err := get()
		return err == nil && status == want
	}, 5*time.Second, time.Millisecond)
}

func TestStartRecoveryRunsToCompletion(t *testing.T) {
	svc, sessions, devices, pub := newRecoveryHarness(t, instantScheduler{})
	device := connectedDevice(t, devices, testUserID)

	session, err := svc.Start(context.Background(), &StartRecoveryRequest{
		UserID:       testUserID,
		DeviceID:     device.ID,
		RecoveryType: domain.RecoveryDeletedFiles,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, session.Status)

	svc.Wait()

	got, err := sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.LessOrEqual(t, got.RecoveredFiles+got.FailedFiles, got.TotalFiles)
	assert.Positive(t, got.TotalFiles)
	assert.InDelta(t, float64(got.RecoveredFiles)/float64(got.TotalFiles), got.SuccessRate(), 1e-9)

	// The registry entry is cleared on completion.
	assert.Zero(t, svc.registry.Count())

	completed := pub.byKind(events.RecoveryCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, session.ID, completed[0].Payload["recovery_id"])
	assert.Equal(t, got.SuccessRate(), completed[0].Payload["success_rate"])
}

func TestRecoveryProgressBoundsAndMonotonicity(t *testing.T) {
	svc, sessions, devices, _ := newRecoveryHarness(t, instantScheduler{})
	device := connectedDevice(t, devices, testUserID)

	session, err := svc.Start(context.Background(), &StartRecoveryRequest{
		UserID:       testUserID,
		DeviceID:     device.ID,
		RecoveryType: domain.RecoveryFormattedDrive,
	})
	require.NoError(t, err)
	svc.Wait()

	history := sessions.progressHistory(session.ID)
	require.NotEmpty(t, history)
	prev := 0
	for _, p := range history {
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
		assert.GreaterOrEqual(t, p, prev, "progress must be non-decreasing")
		prev = p
	}
	assert.Equal(t, 100, history[len(history)-1])
}

func TestStartRecoveryRejectsDisconnectedDevice(t *testing.T) {
	svc, sessions, devices, _ := newRecoveryHarness(t, instantScheduler{})
	device, err := domain.NewDevice(testUserID, "Old Phone", "smartphone", "Pixel 4", "")
	require.NoError(t, err)
	devices.add(device) // disconnected by default

	_, err = svc.Start(context.Background(), &StartRecoveryRequest{
		UserID:       testUserID,
		DeviceID:     device.ID,
		RecoveryType: domain.RecoveryDeletedFiles,
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrDeviceNotConnected.Code))
	assert.Contains(t, err.Error(), "Device must be connected to start recovery")

	// No session was persisted.
	assert.Zero(t, sessions.count())
}

func TestStartRecoveryEnforcesConcurrencyCap(t *testing.T) {
	gate := newGateScheduler()
	svc, _, devices, _ := newRecoveryHarness(t, gate)
	device := connectedDevice(t, devices, testUserID)

	ctx := context.Background()
	var started []*domain.RecoverySession
	for i := 0; i < domain.MaxConcurrentRecoveries; i++ {
		s, err := svc.Start(ctx, &StartRecoveryRequest{
			UserID:       testUserID,
			DeviceID:     device.ID,
			RecoveryType: domain.RecoveryDeletedFiles,
		})
		require.NoError(t, err)
		started = append(started, s)
	}

	_, err := svc.Start(ctx, &StartRecoveryRequest{
		UserID:       testUserID,
		DeviceID:     device.ID,
		RecoveryType: domain.RecoveryDeletedFiles,
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrRecoveryLimitExceeded.Code))

	// Another user is unaffected by this user's cap.
	otherDevice := connectedDevice(t, devices, "ssus-other")
	other, err := svc.Start(ctx, &StartRecoveryRequest{
		UserID:       "ssus-other",
		DeviceID:     otherDevice.ID,
		RecoveryType: domain.RecoveryDeletedFiles,
	})
	require.NoError(t, err)

	for _, s := range started {
		require.NoError(t, svc.Cancel(ctx, testUserID, s.ID))
	}
	require.NoError(t, svc.Cancel(ctx, "ssus-other", other.ID))
	svc.Wait()
}

func TestCancelRecovery(t *testing.T) {
	gate := newGateScheduler()
	svc, sessions, devices, _ := newRecoveryHarness(t, gate)
	device := connectedDevice(t, devices, testUserID)
	ctx := context.Background()

	session, err := svc.Start(ctx, &StartRecoveryRequest{
		UserID:       testUserID,
		DeviceID:     device.ID,
		RecoveryType: domain.RecoveryVirusAttack,
	})
	require.NoError(t, err)

	waitForStatus(t, func() (domain.SessionStatus, error) {
		s, err := sessions.Get(ctx, session.ID)
		if err != nil {
			return "", err
		}
		return s.Status, nil
	}, domain.StatusInProgress)

	require.NoError(t, svc.Cancel(ctx, testUserID, session.ID))
	svc.Wait()

	got, err := sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Zero(t, svc.registry.Count(), "cancel removes the registry entry")

	// Cancelling a terminal session is rejected.
	err = svc.Cancel(ctx, testUserID, session.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrRecoveryInvalidState.Code))
}

func TestPauseRecovery(t *testing.T) {
	gate := newGateScheduler()
	svc, sessions, devices, _ := newRecoveryHarness(t, gate)
	device := connectedDevice(t, devices, testUserID)
	ctx := context.Background()

	session, err := svc.Start(ctx, &StartRecoveryRequest{
		UserID:       testUserID,
		DeviceID:     device.ID,
		RecoveryType: domain.RecoveryCorruptedFiles,
	})
	require.NoError(t, err)

	waitForStatus(t, func() (domain.SessionStatus, error) {
		s, err := sessions.Get(ctx, session.ID)
		if err != nil {
			return "", err
		}
		return s.Status, nil
	}, domain.StatusInProgress)

	require.NoError(t, svc.Pause(ctx, testUserID, session.ID))
	gate.tick() // release the in-flight step; the loop exits at the next check
	svc.Wait()

	// The paused loop leaves status as-is and keeps the registry entry.
	got, err := sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, 1, svc.registry.Count())

	// Cleanup: cancel the paused session.
	require.NoError(t, svc.Cancel(ctx, testUserID, session.ID))
}

func TestPauseRejectsNonRunningSession(t *testing.T) {
	svc, sessions, _, _ := newRecoveryHarness(t, instantScheduler{})
	ctx := context.Background()

	session, err := domain.NewRecoverySession(testUserID, "ssdv-x", domain.RecoveryDeletedFiles)
	require.NoError(t, err)
	session.Status = domain.StatusCompleted
	require.NoError(t, sessions.Create(ctx, session))

	err = svc.Pause(ctx, testUserID, session.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrRecoveryInvalidState.Code))
}

func TestResumeRestartsCancelledSessionFromScratch(t *testing.T) {
	gate := newGateScheduler()
	svc, sessions, devices, _ := newRecoveryHarness(t, gate)
	device := connectedDevice(t, devices, testUserID)
	ctx := context.Background()

	session, err := svc.Start(ctx, &StartRecoveryRequest{
		UserID:       testUserID,
		DeviceID:     device.ID,
		RecoveryType: domain.RecoverySystemCrash,
	})
	require.NoError(t, err)

	// Let the driver record a couple of steps, then cancel.
	waitForStatus(t, func() (domain.SessionStatus, error) {
		s, err := sessions.Get(ctx, session.ID)
		if err != nil {
			return "", err
		}
		return s.Status, nil
	}, domain.StatusInProgress)
	gate.tick()
	gate.tick()
	require.NoError(t, svc.Cancel(ctx, testUserID, session.ID))
	svc.Wait()

	before, err := sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, before.Status)
	require.Positive(t, before.Progress)

	// Resume re-runs the whole simulation; swap in an instant scheduler
	// so it completes.
	svc.opts.Scheduler = instantScheduler{}
	resumed, err := svc.Resume(ctx, testUserID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resumed.Status)
	assert.Zero(t, resumed.Progress, "resume rewinds to the first phase")
	svc.Wait()

	got, err := sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestResumeRejectsNonCancelledSession(t *testing.T) {
	svc, _, devices, _ := newRecoveryHarness(t, instantScheduler{})
	device := connectedDevice(t, devices, testUserID)
	ctx := context.Background()

	session, err := svc.Start(ctx, &StartRecoveryRequest{
		UserID:       testUserID,
		DeviceID:     device.ID,
		RecoveryType: domain.RecoveryDeletedFiles,
	})
	require.NoError(t, err)
	svc.Wait()

	_, err = svc.Resume(ctx, testUserID, session.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrRecoveryInvalidState.Code))
}

func TestRecoveryOwnershipEnforced(t *testing.T) {
	svc, _, devices, _ := newRecoveryHarness(t, instantScheduler{})
	device := connectedDevice(t, devices, testUserID)
	ctx := context.Background()

	session, err := svc.Start(ctx, &StartRecoveryRequest{
		UserID:       testUserID,
		DeviceID:     device.ID,
		RecoveryType: domain.RecoveryDeletedFiles,
	})
	require.NoError(t, err)
	svc.Wait()

	_, err = svc.Get(ctx, "ssus-intruder", session.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrRecoveryNotFound.Code),
		"foreign sessions read as not found")

	err = svc.Cancel(ctx, "ssus-intruder", session.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrRecoveryNotFound.Code))
}

func TestStartRecoveryValidation(t *testing.T) {
	svc, _, devices, _ := newRecoveryHarness(t, instantScheduler{})
	device := connectedDevice(t, devices, testUserID)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *StartRecoveryRequest
		code string
	}{
		{
			name: "missing user",
			req:  &StartRecoveryRequest{DeviceID: device.ID, RecoveryType: domain.RecoveryDeletedFiles},
			code: domain.ErrMissingArgument.Code,
		},
		{
			name: "missing device",
			req:  &StartRecoveryRequest{UserID: testUserID, RecoveryType: domain.RecoveryDeletedFiles},
			code: domain.ErrMissingArgument.Code,
		},
		{
			name: "unknown recovery type",
			req:  &StartRecoveryRequest{UserID: testUserID, DeviceID: device.ID, RecoveryType: "time_travel"},
			code: domain.ErrRecoveryValidation.Code,
		},
		{
			name: "unknown device",
			req:  &StartRecoveryRequest{UserID: testUserID, DeviceID: "ssdv-missing", RecoveryType: domain.RecoveryDeletedFiles},
			code: domain.ErrDeviceNotFound.Code,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Start(ctx, tt.req)
			assert.True(t, domain.IsDomainError(err, tt.code), "got %v", err)
		})
	}
}
