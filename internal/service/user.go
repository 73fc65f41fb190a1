package service

import (
	"context"
	"errors"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/dmarlow/persona/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUserExists       = errors.New("user with this username already exists")
)

type UserService struct {
	users  domain.UserStore
	logger *zap.Logger
}

func NewUserService(users domain.UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

type CreateUserInput struct {
	Username           string
	Email              string
	DataSharingConsent bool
	LearningEnabled    bool
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.Username == "" {
		return nil, ErrUsernameRequired
	}

	if existing, err := s.users.GetByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, ErrUserExists
	}

	user := &domain.User{
		Username:           input.Username,
		Email:              input.Email,
		IsActive:           true,
		DataSharingConsent: input.DataSharingConsent,
		LearningEnabled:    input.LearningEnabled,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))
	return user, nil
}

// Get returns the user with profile and touches their last-active
// timestamp.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.users.TouchActivity(ctx, id); err != nil {
		s.logger.Warn("failed to touch user activity",
			zap.String("user_id", id.String()),
			zap.Error(err))
	}

	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, profile *domain.UserProfile) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	profile.UserID = userID
	return s.users.UpdateProfile(ctx, profile)
}
