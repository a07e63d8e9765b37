// Package domain defines the core domain models for SyncSphere.
package domain

import "time"

// SubscriptionStatus is the billing status of a subscription.
type SubscriptionStatus string

// Subscription statuses.
const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Subscription represents a user's paid plan for a billing period.
type Subscription struct {
	ID          string             `json:"id" gorm:"primaryKey;size:31"`
	UserID      string             `json:"user_id" gorm:"size:31;index"`
	Tier        SubscriptionTier   `json:"tier" gorm:"size:16"`
	Status      SubscriptionStatus `json:"status" gorm:"size:16"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	AutoRenew   bool               `json:"auto_renew"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewSubscription creates an active subscription for one billing period.
func NewSubscription(userID string, tier SubscriptionTier, period time.Duration) (*Subscription, error) {
	id, err := NewID(SubscriptionIDPrefix)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Subscription{
		ID:          id,
		UserID:      userID,
		Tier:        tier,
		Status:      SubscriptionActive,
		PeriodStart: now,
		PeriodEnd:   now.Add(period),
		AutoRenew:   true,
	}, nil
}

// Expired reports whether the billing period has lapsed.
func (s *Subscription) Expired() bool {
	return time.Now().After(s.PeriodEnd)
}
