package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/internal/validation"
	"github.com/iudanet/issuekeeper/pkg/api"
)

// IssueHandler обрабатывает /api/issues. Все маршруты требуют авторизации.
type IssueHandler struct {
	logger *slog.Logger
	issues IssueService
}

// NewIssueHandler создает IssueHandler
func NewIssueHandler(logger *slog.Logger, issues IssueService) *IssueHandler {
	return &IssueHandler{
		logger: logger,
		issues: issues,
	}
}

// List обрабатывает GET /api/issues?type=&status=&search=.
// Если задан search, фильтры type и status игнорируются.
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requesterID(ctx)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	query := r.URL.Query()

	var issues []models.Issue
	if search := query.Get("search"); search != "" {
		issues, err = h.issues.Search(ctx, userID, search)
	} else {
		var filter models.IssueFilter
		filter, err = validation.ValidateIssueFilter(query.Get("type"), query.Get("status"))
		if err == nil {
			issues, err = h.issues.List(ctx, userID, filter)
		}
	}
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, toAPIIssues(issues), "")
}

// Create обрабатывает POST /api/issues
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requesterID(ctx)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	var req api.CreateIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	draft, err := validation.ValidateCreateIssue(req)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	issue, err := h.issues.Create(ctx, userID, draft)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusCreated, toAPIIssue(issue), "")
}

// Stats обрабатывает GET /api/issues/stats
func (h *IssueHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requesterID(ctx)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	stats, err := h.issues.Stats(ctx, userID)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, toAPIStats(stats), "")
}

// Get обрабатывает GET /api/issues/{id}
func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requesterID(ctx)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	issue, err := h.issues.Get(ctx, r.PathValue("id"), userID)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, toAPIIssue(issue), "")
}

// Update обрабатывает PUT /api/issues/{id}
func (h *IssueHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requesterID(ctx)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	var req api.UpdateIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	patch, err := validation.ValidateUpdateIssue(req)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	issue, err := h.issues.Update(ctx, r.PathValue("id"), userID, patch)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, toAPIIssue(issue), "")
}

// Delete обрабатывает DELETE /api/issues/{id}
func (h *IssueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := requesterID(ctx)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.issues.Delete(ctx, r.PathValue("id"), userID); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, h.logger, http.StatusOK, nil, "Issue deleted successfully")
}
