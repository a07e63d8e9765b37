// Package domain defines the core domain models for SyncSphere.
package domain

import (
	"strings"
	"time"
)

// Role is the authorization role of a user.
type Role string

// User roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SubscriptionTier is the billing tier of a user.
type SubscriptionTier string

// Subscription tiers.
const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

// Valid reports whether t is a known tier.
func (t SubscriptionTier) Valid() bool {
	return t == TierFree || t == TierPro || t == TierEnterprise
}

// Cache TTL for the user cache-aside read path.
const UserCacheTTL = 30 * time.Minute

// User represents an account.
//
// PasswordHash is a bcrypt hash; the plaintext password never leaves
// the auth service.
type User struct {
	ID           string           `json:"id" gorm:"primaryKey;size:31"`
	Email        string           `json:"email" gorm:"size:254;uniqueIndex"`
	PasswordHash string           `json:"-" gorm:"size:72"`
	FirstName    string           `json:"first_name" gorm:"size:64"`
	LastName     string           `json:"last_name" gorm:"size:64"`
	Role         Role             `json:"role" gorm:"size:16"`
	Tier         SubscriptionTier `json:"subscription_tier" gorm:"size:16"`
	IsActive     bool             `json:"is_active"`
	LastLoginAt  *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewUser creates an active free-tier user with a generated ID.
func NewUser(email string) (*User, error) {
	id, err := NewID(UserIDPrefix)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:       id,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Role:     RoleUser,
		Tier:     TierFree,
		IsActive: true,
	}, nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate validates the user fields.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrUserValidation.WithDetails("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return ErrUserValidation.WithDetails("email is malformed")
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		return ErrUserValidation.WithDetails("unknown role: " + string(u.Role))
	}
	if !u.Tier.Valid() {
		return ErrUserValidation.WithDetails("unknown subscription tier: " + string(u.Tier))
	}
	return nil
}
