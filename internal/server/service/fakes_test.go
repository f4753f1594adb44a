package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/internal/server/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memUserStorage is an in-memory storage.UserStorage.
type memUserStorage struct {
	users  map[string]models.User // id -> user
	getErr error
	mu     sync.Mutex
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{users: make(map[string]models.User)}
}

func (m *memUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return storage.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *memUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return storage.ErrUserNotFound
	}
	for id, u := range m.users {
		if id != user.ID && u.Email == user.Email {
			return storage.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUserStorage) DeleteUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return storage.ErrUserNotFound
	}
	delete(m.users, userID)
	return nil
}

// memIssueStorage is an in-memory storage.IssueStorage with conditional mutations.
type memIssueStorage struct {
	issues map[string]models.Issue
	// beforeMutate runs before UpdateIssue/DeleteIssue take the lock
	beforeMutate func()
	mu           sync.Mutex
}

func newMemIssueStorage() *memIssueStorage {
	return &memIssueStorage{issues: make(map[string]models.Issue)}
}

func (m *memIssueStorage) CreateIssue(ctx context.Context, issue *models.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.issues[issue.ID]; ok {
		return fmt.Errorf("duplicate issue id %s", issue.ID)
	}
	m.issues[issue.ID] = *issue
	return nil
}

func (m *memIssueStorage) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	issue, ok := m.issues[id]
	if !ok {
		return nil, storage.ErrIssueNotFound
	}
	return &issue, nil
}

func (m *memIssueStorage) ListIssues(ctx context.Context, userID string, filter models.IssueFilter) ([]models.Issue, error) {
	return m.collect(func(i models.Issue) bool {
		return i.UserID == userID &&
			(filter.Type == "" || i.Type == filter.Type) &&
			(filter.Status == "" || i.Status == filter.Status)
	}), nil
}

func (m *memIssueStorage) SearchIssues(ctx context.Context, userID, term string) ([]models.Issue, error) {
	term = strings.ToLower(term)
	return m.collect(func(i models.Issue) bool {
		return i.UserID == userID &&
			(strings.Contains(strings.ToLower(i.Title), term) || strings.Contains(strings.ToLower(i.Description), term))
	}), nil
}

func (m *memIssueStorage) UpdateIssue(ctx context.Context, issue *models.Issue) error {
	if m.beforeMutate != nil {
		m.beforeMutate()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.issues[issue.ID]
	if !ok || current.UserID != issue.UserID {
		return storage.ErrIssueNotFound
	}
	m.issues[issue.ID] = *issue
	return nil
}

func (m *memIssueStorage) DeleteIssue(ctx context.Context, id, userID string) error {
	if m.beforeMutate != nil {
		m.beforeMutate()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.issues[id]
	if !ok || current.UserID != userID {
		return storage.ErrIssueNotFound
	}
	delete(m.issues, id)
	return nil
}

func (m *memIssueStorage) collect(match func(models.Issue) bool) []models.Issue {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Issue, 0)
	for _, issue := range m.issues {
		if match(issue) {
			out = append(out, issue)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}

// fakeHasher is a fast reversible stand-in for bcrypt.
type fakeHasher struct {
	hashErr error
	calls   int
	mu      sync.Mutex
}

func (h *fakeHasher) Hash(password string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(password, hash string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls++
	return hash == "hashed:"+password
}

func (h *fakeHasher) verifyCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// fakeTokens issues "token-for:<id>" tokens.
type fakeTokens struct {
	err error
}

func (f fakeTokens) Issue(userID, email string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return "token-for:" + userID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

type welcomeEmail struct {
	to   string
	name string
}

// recordingNotifier captures welcome emails, optionally failing or blocking.
type recordingNotifier struct {
	sent    chan welcomeEmail
	err     error
	block   bool
	ctxErrs chan error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		sent:    make(chan welcomeEmail, 10),
		ctxErrs: make(chan error, 10),
	}
}

func (n *recordingNotifier) SendWelcomeEmail(ctx context.Context, to, name string) error {
	if n.block {
		<-ctx.Done()
		n.ctxErrs <- ctx.Err()
		return ctx.Err()
	}
	n.sent <- welcomeEmail{to: to, name: name}
	return n.err
}

var errBoom = errors.New("boom")

// fixedClock returns a clock that advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	var (
		mu  sync.Mutex
		now = start
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

// sequentialIDs returns ids "<prefix>-1", "<prefix>-2", ...
func sequentialIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
