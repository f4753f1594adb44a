package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/issuekeeper/internal/client/storage"
)

var _ storage.SessionStorage = (*Storage)(nil)

// SaveSession stores the session under its server URL
func (s *Storage) SaveSession(ctx context.Context, session *storage.Session) error {
	if session == nil || session.ServerURL == "" {
		return errors.New("session server url is required")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.update(func(b *bbolt.Bucket) error {
		if err := b.Put([]byte(session.ServerURL), data); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
}

// GetSession retrieves the stored session for serverURL
func (s *Storage) GetSession(ctx context.Context, serverURL string) (*storage.Session, error) {
	var session *storage.Session

	err := s.view(func(b *bbolt.Bucket) error {
		// bbolt отдает срез, валидный только внутри транзакции
		data := b.Get([]byte(serverURL))
		if data == nil {
			return storage.ErrSessionNotFound
		}

		session = &storage.Session{}
		if err := json.Unmarshal(data, session); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// DeleteSession removes the session (logout)
func (s *Storage) DeleteSession(ctx context.Context, serverURL string) error {
	return s.update(func(b *bbolt.Bucket) error {
		key := []byte(serverURL)
		if b.Get(key) == nil {
			return storage.ErrSessionNotFound
		}
		if err := b.Delete(key); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}

// IsAuthenticated checks if valid authentication exists
func (s *Storage) IsAuthenticated(ctx context.Context, serverURL string) (bool, error) {
	session, err := s.GetSession(ctx, serverURL)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}

	return !session.Expired(s.now()), nil
}
