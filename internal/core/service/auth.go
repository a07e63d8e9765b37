package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bollo444/SyncSphere-sub004/internal/cache"
	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// Password length bounds enforced at registration.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

// AuthConfig holds token signing settings.
type AuthConfig struct {
	// Secret is the HMAC signing key for access tokens.
	Secret []byte

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login, and token verification.
type AuthService struct {
	users  UserRepository
	cache  cache.Store
	cfg    AuthConfig
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserRepository, cacheStore cache.Store, cfg AuthConfig, logger *slog.Logger) *AuthService {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, cache: cacheStore, cfg: cfg, logger: logger}
}

// RegisterRequest contains parameters for account creation.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new free-tier account.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	if req.Email == "" {
		return nil, domain.ErrMissingArgument.WithDetails("email is required")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, domain.ErrUserValidation.WithDetails("password must be at least 8 characters")
	}
	if len(req.Password) > MaxPasswordLength {
		return nil, domain.ErrUserValidation.WithDetails("password exceeds 72 characters")
	}

	user, err := domain.NewUser(req.Email)
	if err != nil {
		return nil, err
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if err := user.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternalServer.WithCause(err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// LoginResponse carries the issued token and its owner.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Login verifies credentials and issues an access token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrUserNotFound.Code) {
			return nil, domain.ErrCredentialsInvalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrCredentialsInvalid
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	expiresAt := time.Now().Add(s.cfg.TokenTTL)
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "syncsphere",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return nil, domain.ErrInternalServer.WithCause(err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		// Login bookkeeping failures never block the login itself.
		s.logger.Warn("recording last login failed", "user_id", user.ID, "error", err)
	}
	s.cache.Delete(ctx, cache.UserKey(user.ID))

	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Verify parses and validates an access token, returning its claims.
func (s *AuthService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid.WithDetails("unexpected signing method")
		}
		return s.cfg.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenInvalid.WithDetails("token has no subject")
	}
	return claims, nil
}
