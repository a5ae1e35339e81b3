package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/event"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	ErrAccountSuspended   = shared.NewDomainError("ACCOUNT_SUSPENDED", "Account has been suspended")
	ErrTokenExpired       = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	ErrTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
)

// GuestMigrator moves a guest's cart and open checkout sessions to an account
type GuestMigrator interface {
	MigrateGuest(ctx context.Context, guestID string, userID uuid.UUID) (cartMigrated bool, sessions int, err error)
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig returns the lockout policy of the user aggregate
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: identity.MaxLoginAttempts,
		LockDuration:     identity.LockDuration,
	}
}

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	migrator   GuestMigrator
	publisher  shared.EventPublisher
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. migrator may be nil.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	migrator GuestMigrator,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		migrator:   migrator,
		config:     config,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for user events
func (s *AuthService) SetEventPublisher(p shared.EventPublisher) {
	s.publisher = p
}

// Register creates a customer account, signs it in and migrates the
// caller's guest cart and checkout sessions when guestID is set.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, guestID string) (*AuthResult, error) {
	log := logger.For(ctx, s.logger)
	email := identity.NormalizeEmail(req.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.UpdateProfile(req.FirstName, req.LastName, req.Phone); err != nil {
			return nil, err
		}
	}
	user.RecordLoginSuccess()

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_ALREADY_EXISTS", "An account with this email already exists")
		}
		return nil, err
	}
	event.PublishPending(ctx, s.publisher, user)

	log.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.signIn(ctx, user, guestID)
}

// Login verifies credentials with lockout and signs the user in
func (s *AuthService) Login(ctx context.Context, req LoginRequest, guestID string) (*AuthResult, error) {
	log := logger.For(ctx, s.logger)
	email := identity.NormalizeEmail(req.Email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			log.Warn("Login attempt for locked account", zap.String("user_id", user.ID.String()))
			return nil, ErrAccountLocked
		}
		log.Warn("Login attempt for suspended account", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountSuspended
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			log.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			log.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("max_attempts", s.config.MaxLoginAttempts))
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		log.Error("Failed to record login success", zap.Error(err))
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.signIn(ctx, user, guestID)
}

func (s *AuthService) signIn(ctx context.Context, user *identity.User, guestID string) (*AuthResult, error) {
	tokens, err := s.jwtService.GenerateTokenPair(subjectOf(user))
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	result := &AuthResult{Tokens: tokens, User: ToUserResponse(user)}
	result.GuestMigration = s.migrateGuest(ctx, guestID, user.ID)
	return result, nil
}

// migrateGuest never fails the sign-in; a failed migration leaves the guest
// data where it was.
func (s *AuthService) migrateGuest(ctx context.Context, guestID string, userID uuid.UUID) *GuestMigrationSummary {
	if s.migrator == nil || guestID == "" {
		return nil
	}
	cartMigrated, sessions, err := s.migrator.MigrateGuest(ctx, guestID, userID)
	if err != nil {
		logger.For(ctx, s.logger).Error("Guest migration failed",
			zap.String("guest_id", guestID),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil
	}
	return &GuestMigrationSummary{CartMigrated: cartMigrated, SessionsMigrated: sessions}
}

func subjectOf(u *identity.User) auth.Subject {
	return auth.Subject{UserID: u.ID, Email: u.Email, Role: string(u.Role)}
}

// Refresh exchanges a refresh token for a new pair after re-checking the user
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrAccountSuspended
	}

	tokens, err := s.jwtService.RefreshTokenPair(refreshToken, subjectOf(user))
	if err != nil {
		return nil, mapTokenError(err)
	}
	// one-time use
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		logger.For(ctx, s.logger).Error("Failed to revoke used refresh token", zap.Error(err))
	}
	return tokens, nil
}

// Authenticate validates an access token, including revocation
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return ErrTokenInvalid
	}
}

// Logout revokes the presented access token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrTokenInvalid
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return err
	}
	logger.For(ctx, s.logger).Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the password and invalidates every token issued so far
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	event.PublishPending(ctx, s.publisher, user)

	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
		return err
	}
	logger.For(ctx, s.logger).Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}
