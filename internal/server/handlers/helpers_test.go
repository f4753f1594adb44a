package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/issuekeeper/internal/crypto"
	"github.com/iudanet/issuekeeper/internal/server/jwt"
	"github.com/iudanet/issuekeeper/internal/server/service"
	"github.com/iudanet/issuekeeper/internal/server/storage/sqldb"
	"github.com/iudanet/issuekeeper/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv - настоящие сервисы поверх in-memory SQLite
type testEnv struct {
	storage *sqldb.Storage
	tokens  *jwt.Service
	auth    *service.AuthService
	issues  *service.IssueService
	users   *service.UserService
	mux     *http.ServeMux
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storage, err := sqldb.New(context.Background(), sqldb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	logger := setupTestLogger()
	hasher := crypto.NewHasher(crypto.DefaultCost)
	tokens := jwt.NewService("handlers-test-secret", time.Hour)

	env := &testEnv{
		storage: storage,
		tokens:  tokens,
		auth:    service.NewAuthService(storage, hasher, tokens, nil, logger),
		issues:  service.NewIssueService(storage, logger),
		users:   service.NewUserService(storage, hasher, logger),
		mux:     http.NewServeMux(),
	}

	authHandler := NewAuthHandler(logger, env.auth)
	issueHandler := NewIssueHandler(logger, env.issues)
	userHandler := NewUserHandler(logger, env.users)

	env.mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	env.mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	env.mux.Handle("POST /api/auth/logout", withTestUser(http.HandlerFunc(authHandler.Logout)))
	env.mux.Handle("GET /api/auth/me", withTestUser(http.HandlerFunc(authHandler.Me)))
	env.mux.Handle("GET /api/issues", withTestUser(http.HandlerFunc(issueHandler.List)))
	env.mux.Handle("POST /api/issues", withTestUser(http.HandlerFunc(issueHandler.Create)))
	env.mux.Handle("GET /api/issues/stats", withTestUser(http.HandlerFunc(issueHandler.Stats)))
	env.mux.Handle("GET /api/issues/{id}", withTestUser(http.HandlerFunc(issueHandler.Get)))
	env.mux.Handle("PUT /api/issues/{id}", withTestUser(http.HandlerFunc(issueHandler.Update)))
	env.mux.Handle("DELETE /api/issues/{id}", withTestUser(http.HandlerFunc(issueHandler.Delete)))
	env.mux.Handle("GET /api/users/profile", withTestUser(http.HandlerFunc(userHandler.GetProfile)))
	env.mux.Handle("PUT /api/users/profile", withTestUser(http.HandlerFunc(userHandler.UpdateProfile)))

	return env
}

// testUserHeader заменяет JWT в тестах handlers: AuthMiddleware проверяется отдельно
const testUserHeader = "X-Test-User-ID"

func withTestUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(testUserHeader); id != "" {
			r = r.WithContext(WithUser(r.Context(), id, ""))
		}
		next.ServeHTTP(w, r)
	})
}

// do выполняет запрос от имени userID (пустой - без авторизации)
func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(testUserHeader, userID)
	}

	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

// register создает пользователя через API и возвращает его id
func (e *testEnv) register(t *testing.T, name, email string) string {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decodeEnvelope[api.AuthResponse](t, rr)
	return resp.Data.User.ID
}

func (e *testEnv) createIssue(t *testing.T, userID string, req api.CreateIssueRequest) api.Issue {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/api/issues", userID, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeEnvelope[api.Issue](t, rr).Data
}

func decodeEnvelope[T any](t *testing.T, rr *httptest.ResponseRecorder) api.Envelope[T] {
	t.Helper()

	var resp api.Envelope[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

// requireFailure проверяет код ответа и конверт {success:false, error}
func requireFailure(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()

	require.Equal(t, status, rr.Code, rr.Body.String())
	resp := decodeEnvelope[json.RawMessage](t, rr)
	require.False(t, resp.Success)
	require.Equal(t, message, resp.Error)
}
