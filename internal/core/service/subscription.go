package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// SubscriptionRepository defines the storage interface for subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *domain.Subscription) error
	GetActiveByUser(ctx context.Context, userID string) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error)
	UpdateStatus(ctx context.Context, id string, status domain.SubscriptionStatus) error
	SetAutoRenew(ctx context.Context, id string, autoRenew bool) error
}

// DefaultBillingPeriod is one subscription term.
const DefaultBillingPeriod = 30 * 24 * time.Hour

// SubscriptionService manages billing plans. Tier changes propagate to
// the user record so authorization checks see the new tier.
type SubscriptionService struct {
	subs   SubscriptionRepository
	users  *UserService
	logger *slog.Logger
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(subs SubscriptionRepository, users *UserService, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{subs: subs, users: users, logger: logger}
}

// Subscribe starts a new billing period at the given tier. Any active
// subscription is cancelled first.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID string, tier domain.SubscriptionTier) (*domain.Subscription, error) {
	if !tier.Valid() {
		return nil, domain.ErrInvalidArgument.WithDetails("unknown subscription tier: " + string(tier))
	}

	if current, err := s.subs.GetActiveByUser(ctx, userID); err == nil {
		if current.Tier == tier && !current.Expired() {
			return nil, domain.ErrSubscriptionConflict
		}
		if err := s.subs.UpdateStatus(ctx, current.ID, domain.SubscriptionCancelled); err != nil {
			return nil, err
		}
	} else if !domain.IsDomainError(err, domain.ErrSubscriptionNotFound.Code) {
		return nil, err
	}

	sub, err := domain.NewSubscription(userID, tier, DefaultBillingPeriod)
	if err != nil {
		return nil, err
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	if err := s.users.SetTier(ctx, userID, tier); err != nil {
		return nil, err
	}

	s.logger.Info("subscription started", "subscription_id", sub.ID, "user_id", userID, "tier", tier)
	return sub, nil
}

// Current retrieves the user's active subscription.
func (s *SubscriptionService) Current(ctx context.Context, userID string) (*domain.Subscription, error) {
	return s.subs.GetActiveByUser(ctx, userID)
}

// History retrieves the user's subscription history, newest first.
func (s *SubscriptionService) History(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	return s.subs.ListByUser(ctx, userID)
}

// Cancel cancels the user's active subscription and drops the account
// back to the free tier.
func (s *SubscriptionService) Cancel(ctx context.Context, userID string) error {
	current, err := s.subs.GetActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.subs.UpdateStatus(ctx, current.ID, domain.SubscriptionCancelled); err != nil {
		return err
	}
	if err := s.users.SetTier(ctx, userID, domain.TierFree); err != nil {
		return err
	}
	s.logger.Info("subscription cancelled", "subscription_id", current.ID, "user_id", userID)
	return nil
}

// SetAutoRenew flips auto-renewal on the active subscription.
func (s *SubscriptionService) SetAutoRenew(ctx context.Context, userID string, autoRenew bool) error {
	current, err := s.subs.GetActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.subs.SetAutoRenew(ctx, current.ID, autoRenew)
}
