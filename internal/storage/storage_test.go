// Package storage provides the persistent store for SyncSphere.
package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(Config{
		Driver: DriverSQLite,
		DSN:    ":memory:",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return db
}

func testUser(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()
	u, err := domain.NewUser("owner@example.com")
	require.NoError(t, err)
	u.PasswordHash = "$2a$10$notarealhashnotarealhashnotarealhashnotarealha"
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))
	return u
}

func testDevice(t *testing.T, db *gorm.DB, userID string) *domain.Device {
	t.Helper()
	d, err := domain.NewDevice(userID, "My Phone", "smartphone", "Pixel 9", "SN-0001")
	require.NoError(t, err)
	require.NoError(t, NewDeviceRepo(db).Create(context.Background(), d))
	return d
}

func TestRecoveryStatusTransitions(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := testUser(t, db)
	d := testDevice(t, db, u.ID)
	repo := NewRecoveryRepo(db)

	s, err := domain.NewRecoverySession(u.ID, d.ID, domain.RecoveryDeletedFiles)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))

	// pending -> in_progress succeeds.
	require.NoError(t, repo.UpdateStatus(ctx, s.ID, domain.StatusInProgress, domain.StatusPending))

	// pending -> in_progress again loses the conditional update.
	err = repo.UpdateStatus(ctx, s.ID, domain.StatusInProgress, domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrRecoveryInvalidState)

	// Complete from in_progress.
	require.NoError(t, repo.Complete(ctx, s.ID, 100, 90, 10, domain.JSONMap{"note": "ok"}))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, 90, got.RecoveredFiles)
	assert.NotNil(t, got.CompletedAt)
	assert.Equal(t, "ok", got.ScanResults["note"])

	// A terminal session cannot be completed or cancelled again.
	assert.ErrorIs(t, repo.Complete(ctx, s.ID, 1, 1, 0, nil), domain.ErrRecoveryInvalidState)
	assert.ErrorIs(t,
		repo.UpdateStatus(ctx, s.ID, domain.StatusCancelled, domain.StatusPending, domain.StatusInProgress),
		domain.ErrRecoveryInvalidState)
}

func TestRecoveryProgressIsMonotonic(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := testUser(t, db)
	d := testDevice(t, db, u.ID)
	repo := NewRecoveryRepo(db)

	s, err := domain.NewRecoverySession(u.ID, d.ID, domain.RecoveryCorruptedFiles)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.UpdateProgress(ctx, s.ID, 40, domain.PhaseAnalyzing))
	// A stale driver step must not roll progress back.
	require.NoError(t, repo.UpdateProgress(ctx, s.ID, 10, domain.PhaseScanning))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Progress)
	assert.Equal(t, domain.PhaseAnalyzing, got.CurrentPhase)
}

func TestRecoveryRestartOnlyFromCancelled(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := testUser(t, db)
	d := testDevice(t, db, u.ID)
	repo := NewRecoveryRepo(db)

	s, err := domain.NewRecoverySession(u.ID, d.ID, domain.RecoverySystemCrash)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))

	assert.ErrorIs(t, repo.Restart(ctx, s.ID), domain.ErrRecoveryInvalidState)

	require.NoError(t, repo.UpdateStatus(ctx, s.ID, domain.StatusInProgress, domain.StatusPending))
	require.NoError(t, repo.UpdateProgress(ctx, s.ID, 55, domain.PhaseRecovering))
	require.NoError(t, repo.UpdateStatus(ctx, s.ID, domain.StatusCancelled,
		domain.StatusPending, domain.StatusInProgress))

	require.NoError(t, repo.Restart(ctx, s.ID))
	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, 0, got.Progress)
}

func TestCountActiveByUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := testUser(t, db)
	d := testDevice(t, db, u.ID)
	repo := NewRecoveryRepo(db)

	for _, status := range []domain.SessionStatus{
		domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted,
	} {
		s, err := domain.NewRecoverySession(u.ID, d.ID, domain.RecoveryDeletedFiles)
		require.NoError(t, err)
		s.Status = status
		require.NoError(t, repo.Create(ctx, s))
	}

	n, err := repo.CountActiveByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "completed sessions do not count against the cap")
}

func TestRecoveryListByUserPagination(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := testUser(t, db)
	d := testDevice(t, db, u.ID)
	repo := NewRecoveryRepo(db)

	for i := 0; i < 5; i++ {
		s, err := domain.NewRecoverySession(u.ID, d.ID, domain.RecoveryDeletedFiles)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, s))
	}

	items, total, err := repo.ListByUser(ctx, u.ID, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, items, 2)

	items, _, err = repo.ListByUser(ctx, u.ID, 10, 4)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// Another user sees nothing.
	items, total, err = repo.ListByUser(ctx, "ssus-other", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestDeviceLookupByConnectionID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := testUser(t, db)
	d := testDevice(t, db, u.ID)
	repo := NewDeviceRepo(db)

	require.NoError(t, repo.UpdateStatus(ctx, d.ID, domain.DeviceConnected, "conn-abc123"))

	got, err := repo.GetByConnectionID(ctx, "conn-abc123")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, domain.DeviceConnected, got.Status)
	assert.NotNil(t, got.LastSeenAt)

	_, err = repo.GetByConnectionID(ctx, "conn-missing")
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
}

func TestUserEmailLookupIsCaseInsensitive(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := testUser(t, db)
	repo := NewUserRepo(db)

	got, err := repo.GetByEmail(ctx, "OWNER@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestNotificationMarkRead(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	u := testUser(t, db)
	repo := NewNotificationRepo(db)

	n, err := domain.NewNotification(u.ID, domain.NotifyRecoveryCompleted,
		"Recovery complete", "Recovered 90 of 100 files", domain.JSONMap{"recovery_id": "ssrc-x"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, n))

	// Wrong owner cannot acknowledge.
	assert.ErrorIs(t, repo.MarkRead(ctx, n.ID, "ssus-other"), domain.ErrNotificationNotFound)

	require.NoError(t, repo.MarkRead(ctx, n.ID, u.ID))
	// Already read.
	assert.ErrorIs(t, repo.MarkRead(ctx, n.ID, u.ID), domain.ErrNotificationNotFound)

	items, total, err := repo.ListByUser(ctx, u.ID, true, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}
