// Package storage provides the persistent store for SyncSphere.
package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// SubscriptionRepo persists subscriptions.
type SubscriptionRepo struct {
	db *gorm.DB
}

// NewSubscriptionRepo creates a subscription repository.
func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// Create persists a new subscription.
func (r *SubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// GetActiveByUser retrieves a user's current active subscription.
func (r *SubscriptionRepo) GetActiveByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	var s domain.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.SubscriptionActive).
		Order("period_end DESC").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return &s, nil
}

// ListByUser retrieves a user's subscription history, newest first.
func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	var items []*domain.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return items, nil
}

// UpdateStatus sets a subscription's billing status.
func (r *SubscriptionRepo) UpdateStatus(ctx context.Context, id string, status domain.SubscriptionStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

// SetAutoRenew flips the auto-renew flag.
func (r *SubscriptionRepo) SetAutoRenew(ctx context.Context, id string, autoRenew bool) error {
	res := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("id = ?", id).
		Update("auto_renew", autoRenew)
	if res.Error != nil {
		return domain.ErrStorageError.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}
