// Package storage описывает локальное хранилище клиента.
package storage

import (
	"context"
	"time"
)

// SessionStorage хранит сессии клиента, по одной на адрес сервера.
type SessionStorage interface {
	// SaveSession сохраняет или заменяет сессию для session.ServerURL
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound when nothing is stored for serverURL.
	GetSession(ctx context.Context, serverURL string) (*Session, error)

	// DeleteSession удаляет сессию (logout)
	DeleteSession(ctx context.Context, serverURL string) error

	// IsAuthenticated checks that a session exists and its token has not expired.
	IsAuthenticated(ctx context.Context, serverURL string) (bool, error)
}

// Session - результат успешного login/register
type Session struct {
	ExpiresAt time.Time `json:"expires_at"`
	ServerURL string    `json:"server_url"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
}

// Expired reports whether the token is past its expiry at now.
// Сессия без срока действия считается бессрочной.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
