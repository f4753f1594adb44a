// Package auth - вход, регистрация и локальная сессия клиента.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/issuekeeper/internal/client/api"
	"github.com/iudanet/issuekeeper/internal/client/storage"
	"github.com/iudanet/issuekeeper/internal/validation"
	pkgapi "github.com/iudanet/issuekeeper/pkg/api"
)

// ErrNotAuthenticated - нет сессии или токен истек
var ErrNotAuthenticated = errors.New("not authenticated, run 'issuekeeper login' first")

// Service предоставляет функции авторизации
type Service struct {
	apiClient *api.Client
	store     storage.SessionStorage
	logger    *slog.Logger
	now       func() time.Time
}

// NewService создает новый сервис авторизации
func NewService(apiClient *api.Client, store storage.SessionStorage, logger *slog.Logger) *Service {
	return &Service{
		apiClient: apiClient,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// Register регистрирует пользователя и сохраняет сессию
func (s *Service) Register(ctx context.Context, name, email, password string) (*storage.Session, error) {
	reg, err := validation.ValidateRegister(pkgapi.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := s.apiClient.Register(ctx, pkgapi.RegisterRequest{
		Name:     reg.Name,
		Email:    reg.Email,
		Password: reg.Password,
	})
	if err != nil {
		return nil, err
	}

	return s.saveSession(ctx, resp)
}

// Login выполняет аутентификацию пользователя и сохраняет сессию
func (s *Service) Login(ctx context.Context, email, password string) (*storage.Session, error) {
	creds, err := validation.ValidateLogin(pkgapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return nil, err
	}

	return s.saveSession(ctx, resp)
}

// Logout уведомляет сервер и удаляет локальную сессию.
// Локальная сессия удаляется даже если сервер недоступен или токен уже истек.
func (s *Service) Logout(ctx context.Context) error {
	session, err := s.store.GetSession(ctx, s.apiClient.BaseURL())
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	if _, err := s.apiClient.Logout(ctx, session.Token); err != nil && api.StatusCode(err) != http.StatusUnauthorized {
		s.logger.WarnContext(ctx, "server logout failed", slog.Any("error", err))
	}

	if err := s.store.DeleteSession(ctx, session.ServerURL); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Session возвращает действующую сессию для текущего сервера
func (s *Service) Session(ctx context.Context) (*storage.Session, error) {
	session, err := s.store.GetSession(ctx, s.apiClient.BaseURL())
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(s.now()) {
		return nil, ErrNotAuthenticated
	}
	return session, nil
}

// Token is a shortcut for Session(ctx).Token.
func (s *Service) Token(ctx context.Context) (string, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func (s *Service) saveSession(ctx context.Context, resp *pkgapi.AuthResponse) (*storage.Session, error) {
	session := &storage.Session{
		ServerURL: s.apiClient.BaseURL(),
		UserID:    resp.User.ID,
		Name:      resp.User.Name,
		Email:     resp.User.Email,
		Token:     resp.Token,
		ExpiresAt: tokenExpiry(resp.Token),
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// tokenExpiry читает exp из JWT без проверки подписи: ключа у клиента нет,
// срок нужен только чтобы не слать заведомо истекший токен.
func tokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
