package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/issuekeeper/pkg/api"
)

func TestUserHandler_Profile(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.register(t, "Alice", "a@x.com")
	env.register(t, "Bob", "b@x.com")

	rr := env.do(t, http.MethodGet, "/api/users/profile", alice, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	profile := decodeEnvelope[api.User](t, rr).Data
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "a@x.com", profile.Email)

	t.Run("update name and email", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/api/users/profile", alice, api.UpdateProfileRequest{
			Name:  ptr("Alice Liddell"),
			Email: ptr("alice@wonderland.io"),
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		resp := decodeEnvelope[api.User](t, rr)
		assert.Equal(t, "Profile updated successfully", resp.Message)
		assert.Equal(t, "Alice Liddell", resp.Data.Name)
		assert.Equal(t, "alice@wonderland.io", resp.Data.Email)
	})

	t.Run("new password works for login", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/api/users/profile", alice, api.UpdateProfileRequest{Password: ptr("secret6")})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = env.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{Email: "alice@wonderland.io", Password: "secret6"})
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("email of another user", func(t *testing.T) {
		rr := env.do(t, http.MethodPut, "/api/users/profile", alice, api.UpdateProfileRequest{Email: ptr("b@x.com")})
		requireFailure(t, rr, http.StatusBadRequest, "Email already in use")
	})

	t.Run("invalid fields", func(t *testing.T) {
		requireFailure(t, env.do(t, http.MethodPut, "/api/users/profile", alice, api.UpdateProfileRequest{Email: ptr("nope")}),
			http.StatusBadRequest, "Invalid email format")
		requireFailure(t, env.do(t, http.MethodPut, "/api/users/profile", alice, api.UpdateProfileRequest{Password: ptr("12345")}),
			http.StatusBadRequest, "Password must be at least 6 characters long")
	})

	t.Run("requires user", func(t *testing.T) {
		requireFailure(t, env.do(t, http.MethodGet, "/api/users/profile", "", nil), http.StatusUnauthorized, "Unauthorized")
	})
}
