package service

import (
	"context"
	"log/slog"

	"github.com/Bollo444/SyncSphere-sub004/internal/cache"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// UserRepository defines the storage interface for users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error)
	Update(ctx context.Context, u *domain.User) error
	TouchLastLogin(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
}

// UserService manages user accounts. Reads go through the cache-aside
// path with a 30 minute TTL; writes invalidate the cache key.
type UserService struct {
	users  UserRepository
	cache  cache.Store
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users UserRepository, cacheStore cache.Store, logger *slog.Logger) *UserService {
	return &UserService{users: users, cache: cacheStore, logger: logger}
}

// Get retrieves a user by ID through the cache.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if cached, ok := cache.GetJSON[*domain.User](ctx, s.cache, cache.UserKey(id)); ok {
		return cached, nil
	}

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, s.cache, cache.UserKey(id), user, domain.UserCacheTTL)
	return user, nil
}

// UpdateProfileRequest contains mutable profile fields.
type UpdateProfileRequest struct {
	FirstName string
	LastName  string
}

// UpdateProfile modifies a user's profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cache.UserKey(id))
	return user, nil
}

// List retrieves users for the admin surface.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.users.List(ctx, limit, offset)
}

// SetActive activates or deactivates an account. Deactivated users
// cannot log in; existing tokens keep working until they expire.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.users.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.UserKey(id))
	s.logger.Info("user activity changed", "user_id", id, "active", active)
	return nil
}

// SetTier changes a user's subscription tier. Called by the
// subscription service when a plan changes.
func (s *UserService) SetTier(ctx context.Context, id string, tier domain.SubscriptionTier) error {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	user.Tier = tier
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.UserKey(id))
	return nil
}
