// Package storage provides the persistent store for SyncSphere.
package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// TransferRepo persists phone-to-phone transfers. It mirrors the
// conditional-update discipline of RecoveryRepo.
type TransferRepo struct {
	db *gorm.DB
}

// NewTransferRepo creates a transfer repository.
func NewTransferRepo(db *gorm.DB) *TransferRepo {
	return &TransferRepo{db: db}
}

// Create persists a new transfer.
func (r *TransferRepo) Create(ctx context.Context, t *domain.Transfer) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Get retrieves a transfer by ID.
func (r *TransferRepo) Get(ctx context.Context, id string) (*domain.Transfer, error) {
	var t domain.Transfer
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return &t, nil
}

// ListByUser retrieves a user's transfers, newest first.
func (r *TransferRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transfer, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.Transfer{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.ErrStorageError.WithCause(err)
	}

	var items []*domain.Transfer
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, domain.ErrStorageError.WithCause(err)
	}
	return items, total, nil
}

// CountActiveByUser counts a user's pending and in_progress transfers.
func (r *TransferRepo) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Transfer{}).
		Where("user_id = ? AND status IN ?", userID,
			[]domain.SessionStatus{domain.StatusPending, domain.StatusInProgress}).
		Count(&count).Error
	if err != nil {
		return 0, domain.ErrStorageError.WithCause(err)
	}
	return int(count), nil
}

// UpdateStatus transitions a transfer from any of the allowed statuses.
func (r *TransferRepo) UpdateStatus(ctx context.Context, id string, to domain.SessionStatus, from ...domain.SessionStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Transfer{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTransferInvalidState
	}
	return nil
}

// UpdateProgress records a progress step; progress only moves forward.
func (r *TransferRepo) UpdateProgress(ctx context.Context, id string, progress int, phase domain.TransferPhase) error {
	res := r.db.WithContext(ctx).Model(&domain.Transfer{}).
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

// Restart rewinds a cancelled transfer for a fresh driver run.
func (r *TransferRepo) Restart(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.Transfer{}).
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
		return domain.ErrTransferInvalidState
	}
	return nil
}

// Complete marks a transfer completed with its final item accounting.
func (r *TransferRepo) Complete(ctx context.Context, id string, total, transferred, failed int) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Transfer{}).
		Where("id = ? AND status = ?", id, domain.StatusInProgress).
		Updates(map[string]any{
			"status":            domain.StatusCompleted,
			"progress":          100,
			"total_items":       total,
			"transferred_items": transferred,
			"failed_items":      failed,
			"completed_at":      &now,
		})
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTransferInvalidState
	}
	return nil
}

// Fail marks a transfer failed with the captured error message.
func (r *TransferRepo) Fail(ctx context.Context, id, message string) error {
	res := r.db.WithContext(ctx).Model(&domain.Transfer{}).
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
