package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

func newAuthHarness(t *testing.T) (*AuthService, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	svc := NewAuthService(users, newMemCache(), AuthConfig{
		Secret:   []byte("test-secret-key-not-for-production"),
		TokenTTL: time.Hour,
	}, discardLogger())
	return svc, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthHarness(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{
		Email:     "Alice@Example.com",
		Password:  "correct-horse-battery",
		FirstName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "emails are normalized")
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, domain.TierFree, user.Tier)
	assert.NotEqual(t, "correct-horse-battery", user.PasswordHash)

	resp, err := svc.Login(ctx, "alice@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := svc.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthHarness(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Email:    "bob@example.com",
		Password: "super-secret-pw",
	})
	require.NoError(t, err)

	// Wrong password and unknown email look identical to the caller.
	_, err = svc.Login(ctx, "bob@example.com", "wrong-password")
	assert.True(t, domain.IsDomainError(err, domain.ErrCredentialsInvalid.Code))

	_, err = svc.Login(ctx, "nobody@example.com", "super-secret-pw")
	assert.True(t, domain.IsDomainError(err, domain.ErrCredentialsInvalid.Code))
}

func TestLoginRejectsDeactivatedUser(t *testing.T) {
	svc, users := newAuthHarness(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{
		Email:    "carol@example.com",
		Password: "super-secret-pw",
	})
	require.NoError(t, err)
	require.NoError(t, users.SetActive(ctx, user.ID, false))

	_, err = svc.Login(ctx, "carol@example.com", "super-secret-pw")
	assert.True(t, domain.IsDomainError(err, domain.ErrUserInactive.Code))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthHarness(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Email: "short@example.com", Password: "tiny"})
	assert.True(t, domain.IsDomainError(err, domain.ErrUserValidation.Code))

	_, err = svc.Register(ctx, &RegisterRequest{Email: "not-an-email", Password: "long-enough-pw"})
	assert.True(t, domain.IsDomainError(err, domain.ErrUserValidation.Code))

	_, err = svc.Register(ctx, &RegisterRequest{Email: "dup@example.com", Password: "long-enough-pw"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &RegisterRequest{Email: "dup@example.com", Password: "long-enough-pw"})
	assert.True(t, domain.IsDomainError(err, domain.ErrUserConflict.Code))
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, _ := newAuthHarness(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Email:    "dave@example.com",
		Password: "super-secret-pw",
	})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, "dave@example.com", "super-secret-pw")
	require.NoError(t, err)

	_, err = svc.Verify(resp.Token + "x")
	assert.True(t, domain.IsDomainError(err, domain.ErrTokenInvalid.Code))

	_, err = svc.Verify("not-a-jwt")
	assert.True(t, domain.IsDomainError(err, domain.ErrTokenInvalid.Code))

	// A token signed with a different secret is rejected.
	other := NewAuthService(newFakeUsers(), newMemCache(), AuthConfig{
		Secret: []byte("different-secret"), TokenTTL: time.Hour,
	}, discardLogger())
	_, err = other.Verify(resp.Token)
	assert.True(t, domain.IsDomainError(err, domain.ErrTokenInvalid.Code))
}

func TestExpiredTokenRejected(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users, newMemCache(), AuthConfig{
		Secret:   []byte("test-secret"),
		TokenTTL: -time.Minute, // issue already-expired tokens
	}, discardLogger())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Email:    "eve@example.com",
		Password: "super-secret-pw",
	})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, "eve@example.com", "super-secret-pw")
	require.NoError(t, err)

	_, err = svc.Verify(resp.Token)
	assert.True(t, domain.IsDomainError(err, domain.ErrTokenInvalid.Code))
}
