package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/issuekeeper/internal/validation"
	"github.com/iudanet/issuekeeper/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger *slog.Logger
	auth   AuthService
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, auth AuthService) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		auth:   auth,
	}
}

// Register обрабатывает POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		WriteError(w, h.logger, err)
		return
	}

	reg, err := validation.ValidateRegister(req)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	result, err := h.auth.Register(ctx, reg.Name, reg.Email, reg.Password)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusCreated, api.AuthResponse{
		Token: result.Token,
		User:  toAPIUser(result.User),
	}, "")
}

// Login обрабатывает POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		WriteError(w, h.logger, err)
		return
	}

	creds, err := validation.ValidateLogin(req)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	result, err := h.auth.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.AuthResponse{
		Token: result.Token,
		User:  toAPIUser(result.User),
	}, "")
}

// Logout обрабатывает POST /api/auth/logout.
// Токены не отзываются: клиент просто забывает свой токен.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, err := requesterID(r.Context())
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.auth.Logout(r.Context(), userID); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.MessageResponse{Message: "Logged out successfully"}, "")
}

// Me обрабатывает GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requesterID(ctx)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.auth.GetUserByID(ctx, userID)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, api.MeResponse{User: toAPIUser(user)}, "")
}
