package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/internal/server/storage"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	ExpiresAt time.Time
	Token     string
	User      models.PublicUser
}

// AuthService регистрирует пользователей, проверяет пароли и выдает токены
type AuthService struct {
	users    storage.UserStorage
	hasher   PasswordHasher
	tokens   TokenIssuer
	notifier Notifier
	logger   *slog.Logger
	opts     options

	// dummyHash сравнивается с паролем, когда email не найден,
	// чтобы время ответа не выдавало существование аккаунта
	dummyHash     string
	dummyHashOnce sync.Once

	emails sync.WaitGroup
}

// NewAuthService создает AuthService. notifier может быть nil.
func NewAuthService(
	users storage.UserStorage,
	hasher PasswordHasher,
	tokens TokenIssuer,
	notifier Notifier,
	logger *slog.Logger,
	opts ...Option,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		opts:     buildOptions(opts),
	}
}

// Register creates an account, issues a token and schedules the welcome email.
// Email delivery failures are logged and never fail registration.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.opts.now()
	user := &models.User{
		ID:           s.opts.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// параллельная регистрация на тот же email
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))

	s.sendWelcome(ctx, user.Email, user.Name)

	return result, nil
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.hasher.Verify(password, s.getDummyHash())
			s.logger.WarnContext(ctx, "login failed", slog.String("reason", "unknown email"))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.WarnContext(ctx, "login failed", slog.String("user_id", user.ID), slog.String("reason", "wrong password"))
		return nil, ErrInvalidCredentials
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return result, nil
}

// GetUserByID returns the public view of the user.
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (models.PublicUser, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.PublicUser{}, ErrUserNotFound
		}
		return models.PublicUser{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.Public(), nil
}

// Logout is stateless: tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	s.logger.InfoContext(ctx, "user logged out", slog.String("user_id", userID))
	return nil
}

// Wait blocks until scheduled welcome emails finish.
func (s *AuthService) Wait() {
	s.emails.Wait()
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

func (s *AuthService) sendWelcome(ctx context.Context, to, name string) {
	if s.notifier == nil {
		return
	}

	// письмо не должно отменяться вместе с запросом
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.emailTimeout)

	s.emails.Add(1)
	go func() {
		defer s.emails.Done()
		defer cancel()

		if err := s.notifier.SendWelcomeEmail(ctx, to, name); err != nil {
			s.logger.ErrorContext(ctx, "failed to send welcome email", slog.Any("error", err))
		}
	}()
}

func (s *AuthService) getDummyHash() string {
	s.dummyHashOnce.Do(func() {
		hash, err := s.hasher.Hash("issuekeeper-timing-equalizer")
		if err != nil {
			s.logger.Error("failed to prepare dummy hash", slog.Any("error", err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
