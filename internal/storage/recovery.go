// Package storage provides the persistent store for SyncSphere.
package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// RecoveryRepo persists recovery sessions. Status transitions are
// single-row conditional updates so that concurrent drivers cannot
// resurrect a terminal session.
type RecoveryRepo struct {
	db *gorm.DB
}

// NewRecoveryRepo creates a recovery repository.
func NewRecoveryRepo(db *gorm.DB) *RecoveryRepo {
	return &RecoveryRepo{db: db}
}

// Create persists a new session.
func (r *RecoveryRepo) Create(ctx context.Context, s *domain.RecoverySession) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Get retrieves a session by ID.
func (r *RecoveryRepo) Get(ctx context.Context, id string) (*domain.RecoverySession, error) {
	var s domain.RecoverySession
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecoveryNotFound
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return &s, nil
}

// ListByUser retrieves a user's sessions, newest first.
func (r *RecoveryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.RecoverySession, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.RecoverySession{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.ErrStorageError.WithCause(err)
	}

	var items []*domain.RecoverySession
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, domain.ErrStorageError.WithCause(err)
	}
	return items, total, nil
}

// CountActiveByUser counts a user's pending and in_progress sessions.
func (r *RecoveryRepo) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RecoverySession{}).
		Where("user_id = ? AND status IN ?", userID,
			[]domain.SessionStatus{domain.StatusPending, domain.StatusInProgress}).
		Count(&count).Error
	if err != nil {
		return 0, domain.ErrStorageError.WithCause(err)
	}
	return int(count), nil
}

// UpdateStatus transitions a session from any of the allowed statuses.
// Returns ErrRecoveryInvalidState when the row is no longer in one of
// them (lost race with another transition).
func (r *RecoveryRepo) UpdateStatus(ctx context.Context, id string, to domain.SessionStatus, from ...domain.SessionStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.RecoverySession{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecoveryInvalidState
	}
	return nil
}

// UpdateProgress records a progress step. Progress only moves forward:
// the conditional guard keeps a stale driver from rolling it back.
func (r *RecoveryRepo) UpdateProgress(ctx context.Context, id string, progress int, phase domain.RecoveryPhase) error {
	res := r.db.WithContext(ctx).Model(&domain.RecoverySession{}).
		Where("id = ? AND progress <= ?", id, progress).
		Updates(map[string]any{
			"progress":      progress,
			"current_phase": phase,
		})
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	return nil
}

// Restart rewinds a cancelled session so the phase driver can run it
// again from the first phase. Resume intentionally restarts from
// scratch instead of the saved offset.
func (r *RecoveryRepo) Restart(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.RecoverySession{}).
		Where("id = ? AND status = ?", id, domain.StatusCancelled).
		Updates(map[string]any{
			"status":        domain.StatusPending,
			"progress":      0,
			"current_phase": "",
			"error_message": "",
			"completed_at":  nil,
		})
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecoveryInvalidState
	}
	return nil
}

// Complete marks a session completed with its final file accounting.
func (r *RecoveryRepo) Complete(ctx context.Context, id string, total, recovered, failed int, results domain.JSONMap) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.RecoverySession{}).
		Where("id = ? AND status = ?", id, domain.StatusInProgress).
		Updates(map[string]any{
			"status":          domain.StatusCompleted,
			"progress":        100,
			"total_files":     total,
			"recovered_files": recovered,
			"failed_files":    failed,
			"scan_results":    results,
			"completed_at":    &now,
		})
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecoveryInvalidState
	}
	return nil
}

// Fail marks a session failed with the captured error message.
func (r *RecoveryRepo) Fail(ctx context.Context, id, message string) error {
	res := r.db.WithContext(ctx).Model(&domain.RecoverySession{}).
		Where("id = ? AND status IN ?", id,
			[]domain.SessionStatus{domain.StatusPending, domain.StatusInProgress}).
		Updates(map[string]any{
			"status":        domain.StatusFailed,
			"error_message": message,
		})
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	return nil
}
