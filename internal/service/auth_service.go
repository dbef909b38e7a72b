package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/Alexaslastina/makeadate/internal/domain"
	"github.com/Alexaslastina/makeadate/internal/mailer"
	"github.com/Alexaslastina/makeadate/internal/repository"
	"github.com/Alexaslastina/makeadate/pkg/auth"
	"github.com/Alexaslastina/makeadate/pkg/config"
	"github.com/Alexaslastina/makeadate/pkg/events"
	"github.com/Alexaslastina/makeadate/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.LoginResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	userRepo  repository.UserRepository
	resetRepo repository.ResetTokenRepository
	mailer    mailer.Service
	eventBus  events.Publisher
	config    *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	resetRepo repository.ResetTokenRepository,
	mailer mailer.Service,
	eventBus events.Publisher,
	config *config.Config,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		eventBus:  eventBus,
		config:    config,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := s.checkPasswordLength(req.Password); err != nil {
		return nil, err
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique index on email arbitrates concurrent registrations;
	// no lookup-then-insert race here.
	user, err := s.userRepo.Create(ctx, req, passwordHash)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.UserRegistered, events.UserRegisteredEvent{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		RegisteredAt: user.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish registration event", "error", err, "user_id", user.ID)
	}

	return s.newSession(user)
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		// Same error for unknown email and wrong password.
		return nil, domain.ErrInvalidCredentials
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}

	return s.newSession(user)
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	req := domain.ForgotPasswordRequest{Email: email}
	req.Normalize()

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		// Callers get the same generic success message either way.
		return nil
	}

	token, err := domain.NewResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.config.Auth.PasswordResetTTL)
	if err := s.resetRepo.Create(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	resetURL := s.buildResetURL(token)
	if err := s.mailer.SendPasswordResetEmail(user.Email, user.Name, resetURL, token); err != nil {
		// Still report generic success to avoid leaking account existence.
		logger.ErrorContext(ctx, "Failed to send password reset email", "error", err, "user_id", user.ID)
	}

	if err := s.eventBus.Publish(ctx, events.PasswordResetRequested, events.PasswordResetRequestedEvent{
		UserID:      user.ID,
		Email:       user.Email,
		ExpiresAt:   expiresAt,
		RequestedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish reset request event", "error", err, "user_id", user.ID)
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	req := domain.ResetPasswordRequest{Token: token, NewPassword: newPassword}
	if err := req.Validate(); err != nil {
		return domain.NewValidationError(err.Error())
	}
	if err := s.checkPasswordLength(newPassword); err != nil {
		return err
	}

	userID, err := s.resetRepo.Consume(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := argon2id.CreateHash(newPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.PasswordResetCompleted, events.PasswordResetCompletedEvent{
		UserID:      userID,
		CompletedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish reset completed event", "error", err, "user_id", userID)
	}

	return nil
}

func (s *authService) newSession(user *domain.User) (*domain.LoginResponse, error) {
	accessToken, err := auth.NewAccessToken(
		user.ID,
		user.Email,
		user.Role,
		s.config.Auth.JWTSecret,
		s.config.Auth.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &domain.LoginResponse{
		User:        user.ToUserInfo(),
		AccessToken: accessToken,
	}, nil
}

// checkPasswordLength enforces the configured minimum, which may be
// stricter than the domain default.
func (s *authService) checkPasswordLength(password string) error {
	if min := s.config.Auth.MinPasswordLength; len(password) < min {
		return domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", min))
	}
	return nil
}

func (s *authService) buildResetURL(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, token)
}
