package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/issuekeeper/pkg/api"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Name:     "Alice",
		Email:    "  alice@example.com ",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotContains(t, rr.Body.String(), "password", "hash must never leave the server")

	resp := decodeEnvelope[api.AuthResponse](t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, "alice@example.com", resp.Data.User.Email)
	assert.Equal(t, "Alice", resp.Data.User.Name)
	assert.NotEmpty(t, resp.Data.User.ID)
	assert.False(t, resp.Data.User.CreatedAt.IsZero())

	claims, err := env.tokens.Verify(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Data.User.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "Alice", "a@x.com")

	tests := []struct {
		name    string
		body    any
		wantMsg string
	}{
		{
			name:    "malformed json",
			body:    `{"name":`,
			wantMsg: "Invalid request body",
		},
		{
			name:    "short name",
			body:    api.RegisterRequest{Name: "A", Email: "b@x.com", Password: "password123"},
			wantMsg: "Name must be at least 2 characters long",
		},
		{
			name:    "bad email",
			body:    api.RegisterRequest{Name: "Bob", Email: "not-an-email", Password: "password123"},
			wantMsg: "Invalid email format",
		},
		{
			name:    "short password",
			body:    api.RegisterRequest{Name: "Bob", Email: "b@x.com", Password: "short"},
			wantMsg: "Password must be at least 8 characters long",
		},
		{
			name:    "duplicate email",
			body:    api.RegisterRequest{Name: "Mallory", Email: "a@x.com", Password: "password123"},
			wantMsg: "User with this email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			requireFailure(t, rr, http.StatusBadRequest, tt.wantMsg)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	userID := env.register(t, "Alice", "a@x.com")

	t.Run("success", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{Email: "a@x.com", Password: "password123"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		resp := decodeEnvelope[api.AuthResponse](t, rr)
		assert.True(t, resp.Success)
		assert.Equal(t, userID, resp.Data.User.ID)

		claims, err := env.tokens.Verify(resp.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrong := env.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{Email: "a@x.com", Password: "wrongpass"})
		unknown := env.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{Email: "nobody@x.com", Password: "password123"})

		requireFailure(t, wrong, http.StatusUnauthorized, "Invalid email or password")
		requireFailure(t, unknown, http.StatusUnauthorized, "Invalid email or password")
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("missing password", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{Email: "a@x.com"})
		requireFailure(t, rr, http.StatusBadRequest, "Password is required")
	})
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	env := setupTestEnv(t)
	userID := env.register(t, "Alice", "a@x.com")

	rr := env.do(t, http.MethodGet, "/api/auth/me", userID, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	me := decodeEnvelope[api.MeResponse](t, rr)
	assert.Equal(t, userID, me.Data.User.ID)
	assert.Equal(t, "a@x.com", me.Data.User.Email)

	requireFailure(t, env.do(t, http.MethodGet, "/api/auth/me", "", nil), http.StatusUnauthorized, "Unauthorized")
	requireFailure(t, env.do(t, http.MethodGet, "/api/auth/me", "deleted-user", nil), http.StatusNotFound, "User not found")

	rr = env.do(t, http.MethodPost, "/api/auth/logout", userID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	logout := decodeEnvelope[api.MessageResponse](t, rr)
	assert.Equal(t, "Logged out successfully", logout.Data.Message)

	requireFailure(t, env.do(t, http.MethodPost, "/api/auth/logout", "", nil), http.StatusUnauthorized, "Unauthorized")
}

func TestAuthHandler_ResponseShape(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Name: "Alice", Email: "a@x.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.JSONEq(t, "true", string(raw["success"]))
	assert.Contains(t, raw, "data")
	assert.NotContains(t, raw, "error")

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["data"], &data))
	assert.Contains(t, data, "token")
	assert.Contains(t, data, "user")
}
