// Package service holds the business rules of issuekeeper: account
// registration and login, profile management, and owner-scoped issue access.
// Services return *apperr.Error values; handlers only translate them.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(userID, email string) (token string, expiresAt time.Time, err error)
}

// Notifier delivers the welcome email after registration.
type Notifier interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
}

// DefaultEmailTimeout bounds a single welcome email delivery.
const DefaultEmailTimeout = 30 * time.Second

type options struct {
	now          func() time.Time
	newID        func() string
	emailTimeout time.Duration
}

// Option configures a service.
type Option func(*options)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides how new user and issue ids are produced.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// WithEmailTimeout overrides DefaultEmailTimeout.
func WithEmailTimeout(d time.Duration) Option {
	return func(o *options) {
		o.emailTimeout = d
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:          func() time.Time { return time.Now().UTC() },
		newID:        func() string { return uuid.New().String() },
		emailTimeout: DefaultEmailTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
