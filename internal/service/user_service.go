package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/Alexaslastina/makeadate/internal/domain"
	"github.com/Alexaslastina/makeadate/internal/repository"
	"github.com/Alexaslastina/makeadate/pkg/events"
	"github.com/Alexaslastina/makeadate/pkg/logger"
)

// UserService backs the admin panel. Routes invoking it are gated by
// the admin JWT middleware; the client-side role check is UI-only.
type UserService interface {
	List(ctx context.Context, limit, offset int) ([]domain.UserInfo, error)
	FindByEmail(ctx context.Context, email string) (*domain.UserInfo, error)
	Stats(ctx context.Context) (*domain.UserStats, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.UserInfo, error)
	Delete(ctx context.Context, id string) error
	Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserInfo, error)
}

type userService struct {
	userRepo repository.UserRepository
	eventBus events.Publisher
}

func NewUserService(userRepo repository.UserRepository, eventBus events.Publisher) UserService {
	return &userService{userRepo: userRepo, eventBus: eventBus}
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]domain.UserInfo, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	infos := make([]domain.UserInfo, len(users))
	for i := range users {
		infos[i] = *users[i].ToUserInfo()
	}
	return infos, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*domain.UserInfo, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user.ToUserInfo(), nil
}

func (s *userService) Stats(ctx context.Context) (*domain.UserStats, error) {
	stats, err := s.userRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	return stats, nil
}

func (s *userService) UpdateRole(ctx context.Context, id, role string) (*domain.UserInfo, error) {
	if !domain.IsValidRole(role) {
		return nil, domain.NewValidationError("role must be either customer or admin")
	}

	user, err := s.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.UserRoleChanged, events.UserRoleChangedEvent{
		UserID:    user.ID,
		Role:      user.Role,
		ChangedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish role change event", "error", err, "user_id", user.ID)
	}

	return user.ToUserInfo(), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserInfo, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req, passwordHash)
	if err != nil {
		return nil, err
	}

	return user.ToUserInfo(), nil
}
