package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/issuekeeper/internal/validation"
	"github.com/iudanet/issuekeeper/pkg/api"
)

// UserHandler обрабатывает /api/users/profile
type UserHandler struct {
	logger *slog.Logger
	users  UserService
}

// NewUserHandler создает UserHandler
func NewUserHandler(logger *slog.Logger, users UserService) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
	}
}

// GetProfile обрабатывает GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requesterID(ctx)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.users.GetProfile(ctx, userID)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, toAPIUser(user), "")
}

// UpdateProfile обрабатывает PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requesterID(ctx)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	var req api.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	patch, err := validation.ValidateProfileUpdate(req)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, toAPIUser(user), "Profile updated successfully")
}
