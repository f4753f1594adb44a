// Package api - HTTP клиент issuekeeper сервера.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/issuekeeper/pkg/api"
)

// APIError - неуспешный ответ сервера
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IssueQuery - параметры GET /api/issues. Пустые поля не отправляются.
type IssueQuery struct {
	Type   string
	Status string
	Search string
}

func (q IssueQuery) encode() string {
	v := url.Values{}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Authorization не переносится через редирект по умолчанию
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Logout уведомляет сервер о выходе. Токен остается валидным до истечения.
func (c *Client) Logout(ctx context.Context, token string) (string, error) {
	var resp api.MessageResponse
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", token, nil, &resp); err != nil {
		return "", fmt.Errorf("logout request failed: %w", err)
	}
	return resp.Message, nil
}

// Me возвращает текущего пользователя
func (c *Client) Me(ctx context.Context, token string) (*api.User, error) {
	var resp api.MeResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp.User, nil
}

// ListIssues возвращает issues пользователя
func (c *Client) ListIssues(ctx context.Context, token string, q IssueQuery) ([]api.Issue, error) {
	var resp []api.Issue
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/issues"+q.encode(), token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list issues request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) CreateIssue(ctx context.Context, token string, req api.CreateIssueRequest) (*api.Issue, error) {
	var resp api.Issue
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/issues", token, req, &resp); err != nil {
		return nil, fmt.Errorf("create issue request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) GetIssue(ctx context.Context, token, id string) (*api.Issue, error) {
	var resp api.Issue
	if _, err := c.doRequest(ctx, http.MethodGet, issuePath(id), token, nil, &resp); err != nil {
		return nil, fmt.Errorf("get issue request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) UpdateIssue(ctx context.Context, token, id string, req api.UpdateIssueRequest) (*api.Issue, error) {
	var resp api.Issue
	if _, err := c.doRequest(ctx, http.MethodPut, issuePath(id), token, req, &resp); err != nil {
		return nil, fmt.Errorf("update issue request failed: %w", err)
	}
	return &resp, nil
}

// DeleteIssue удаляет issue и возвращает сообщение сервера
func (c *Client) DeleteIssue(ctx context.Context, token, id string) (string, error) {
	msg, err := c.doRequest(ctx, http.MethodDelete, issuePath(id), token, nil, nil)
	if err != nil {
		return "", fmt.Errorf("delete issue request failed: %w", err)
	}
	return msg, nil
}

func (c *Client) IssueStats(ctx context.Context, token string) (*api.IssueStats, error) {
	var resp api.IssueStats
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/issues/stats", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("issue stats request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) GetProfile(ctx context.Context, token string) (*api.User, error) {
	var resp api.User
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/users/profile", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("get profile request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (*api.User, error) {
	var resp api.User
	if _, err := c.doRequest(ctx, http.MethodPut, "/api/users/profile", token, req, &resp); err != nil {
		return nil, fmt.Errorf("update profile request failed: %w", err)
	}
	return &resp, nil
}

func issuePath(id string) string {
	return "/api/issues/" + url.PathEscape(id)
}

// doRequest выполняет HTTP запрос и разбирает конверт ответа.
// Возвращает поле message конверта.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) (string, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var env api.Response
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return "", fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return env.Message, nil
}
