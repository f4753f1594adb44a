package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/internal/server/storage"
)

// UserService manages the caller's own profile.
type UserService struct {
	users  storage.UserStorage
	hasher PasswordHasher
	logger *slog.Logger
	opts   options
}

// NewUserService создает UserService
func NewUserService(users storage.UserStorage, hasher PasswordHasher, logger *slog.Logger, opts ...Option) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		logger: logger,
		opts:   buildOptions(opts),
	}
}

// GetProfile returns the public profile of userID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (models.PublicUser, error) {
	user, err := s.get(ctx, userID)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateProfile applies patch. A new email must not belong to another user;
// a new password is re-hashed.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (models.PublicUser, error) {
	user, err := s.get(ctx, userID)
	if err != nil {
		return models.PublicUser{}, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		existing, err := s.users.GetUserByEmail(ctx, *patch.Email)
		switch {
		case err == nil && existing.ID != userID:
			return models.PublicUser{}, ErrEmailTaken
		case err != nil && !errors.Is(err, storage.ErrUserNotFound):
			return models.PublicUser{}, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *patch.Email
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}

	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return models.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.opts.now()

	if err := s.users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUserAlreadyExists):
			return models.PublicUser{}, ErrEmailTaken
		case errors.Is(err, storage.ErrUserNotFound):
			return models.PublicUser{}, ErrUserNotFound
		}
		return models.PublicUser{}, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated",
		slog.String("user_id", userID),
		slog.Bool("email_changed", patch.Email != nil),
		slog.Bool("password_changed", patch.Password != nil))

	return user.Public(), nil
}

func (s *UserService) get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
