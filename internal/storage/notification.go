// Package storage provides the persistent store for SyncSphere.
package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// NotificationRepo persists per-user notifications.
type NotificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo creates a notification repository.
func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create persists a new notification.
func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// Get retrieves a notification by ID.
func (r *NotificationRepo) Get(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return &n, nil
}

// ListByUser retrieves a user's notifications, newest first. When
// unreadOnly is set, read notifications are filtered out.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.ErrStorageError.WithCause(err)
	}

	var items []*domain.Notification
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, domain.ErrStorageError.WithCause(err)
	}
	return items, total, nil
}

// MarkRead stamps a notification as read. Owner-scoped so users cannot
// acknowledge each other's notifications.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", &now)
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead stamps every unread notification for a user.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", &now)
	if res.Error != nil {
		return 0, domain.ErrStorageError.WithCause(res.Error)
	}
	return res.RowsAffected, nil
}
