package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iudanet/issuekeeper/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, env api.Envelope[any]) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080", client.BaseURL())
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Alice", req.Name)
		assert.Equal(t, "alice@example.com", req.Email)

		writeEnvelope(t, w, http.StatusCreated, api.Envelope[any]{
			Success: true,
			Data: api.AuthResponse{
				Token: "token-1",
				User:  api.User{ID: "user-1", Name: req.Name, Email: req.Email},
			},
		})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Register(context.Background(), api.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "token-1", resp.Token)
	assert.Equal(t, "user-1", resp.User.ID)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		handler    http.HandlerFunc
		name       string
		wantMsg    string
		wantStatus int
	}{
		{
			name: "envelope error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, http.StatusUnauthorized, api.Envelope[any]{Error: "Invalid credentials"})
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid credentials",
		},
		{
			name: "non json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			wantStatus: http.StatusBadGateway,
			wantMsg:    "bad gateway",
		},
		{
			name: "empty error falls back to status text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, http.StatusTooManyRequests, api.Envelope[any]{})
			},
			wantStatus: http.StatusTooManyRequests,
			wantMsg:    "Too Many Requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewClient(server.URL).Login(context.Background(), api.LoginRequest{Email: "a@b.co", Password: "x"})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantStatus, StatusCode(err))
		})
	}
}

func TestClient_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestClient_ListIssues(t *testing.T) {
	tests := []struct {
		name      string
		query     IssueQuery
		wantQuery string
	}{
		{name: "no filters", query: IssueQuery{}, wantQuery: ""},
		{name: "type and status", query: IssueQuery{Type: "Cloud Security", Status: "open"}, wantQuery: "status=open&type=Cloud+Security"},
		{name: "search", query: IssueQuery{Search: "xss"}, wantQuery: "search=xss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/issues", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

				writeEnvelope(t, w, http.StatusOK, api.Envelope[any]{
					Success: true,
					Data:    []api.Issue{{ID: "i1", Title: "XSS in login"}},
				})
			}))
			defer server.Close()

			issues, err := NewClient(server.URL).ListIssues(context.Background(), "tok", tt.query)
			require.NoError(t, err)
			require.Len(t, issues, 1)
			assert.Equal(t, "i1", issues[0].ID)
		})
	}
}

func TestClient_IssueLifecycle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/issues/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req api.UpdateIssueRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Status)
		assert.Nil(t, req.Title)

		writeEnvelope(t, w, http.StatusOK, api.Envelope[any]{
			Success: true,
			Data:    api.Issue{ID: r.PathValue("id"), Status: *req.Status},
		})
	})
	mux.HandleFunc("DELETE /api/issues/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, api.Envelope[any]{Success: true, Message: "Issue deleted successfully"})
	})
	mux.HandleFunc("GET /api/issues/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusNotFound, api.Envelope[any]{Error: "Issue not found"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	status := "resolved"
	issue, err := client.UpdateIssue(ctx, "tok", "i1", api.UpdateIssueRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "i1", issue.ID)
	assert.Equal(t, "resolved", issue.Status)

	msg, err := client.DeleteIssue(ctx, "tok", "i1")
	require.NoError(t, err)
	assert.Equal(t, "Issue deleted successfully", msg)

	_, err = client.GetIssue(ctx, "tok", "i1")
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestClient_Logout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, api.Envelope[any]{
			Success: true,
			Data:    api.MessageResponse{Message: "Logged out successfully"},
		})
	}))
	defer server.Close()

	msg, err := NewClient(server.URL).Logout(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Logged out successfully", msg)
}
