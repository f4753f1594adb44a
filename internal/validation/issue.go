package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/issuekeeper/internal/apperr"
	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/pkg/api"
)

const (
	// MinTitleLen минимальная длина заголовка после обрезки пробелов
	MinTitleLen = 3
	// MinDescriptionLen минимальная длина описания после обрезки пробелов
	MinDescriptionLen = 10
)

var (
	errTypeRequired   = apperr.Invalid("type", "Issue type is required")
	errInvalidType    = apperr.Invalid("type", "Invalid issue type. Must be one of: "+joinEnum(models.IssueTypes))
	errInvalidPrio    = apperr.Invalid("priority", "Invalid priority. Must be one of: "+joinEnum(models.Priorities))
	errInvalidStatus  = apperr.Invalid("status", "Invalid status. Must be one of: "+joinEnum(models.Statuses))
	errTitleShort     = apperr.Invalid("title", fmt.Sprintf("Title must be at least %d characters long", MinTitleLen))
	errDescrShort     = apperr.Invalid("description", fmt.Sprintf("Description must be at least %d characters long", MinDescriptionLen))
	errSearchTooShort = apperr.Invalid("search", "Search term must be at least 2 characters")
)

// MinSearchLen минимальная длина поискового запроса после обрезки пробелов
const MinSearchLen = 2

// ValidateCreateIssue проверяет запрос на создание issue и подставляет
// значения по умолчанию: priority=medium, status=open.
func ValidateCreateIssue(req api.CreateIssueRequest) (models.IssueDraft, error) {
	if req.Type == "" {
		return models.IssueDraft{}, errTypeRequired
	}
	issueType, err := parseType(req.Type)
	if err != nil {
		return models.IssueDraft{}, err
	}

	title, err := parseTitle(req.Title)
	if err != nil {
		return models.IssueDraft{}, err
	}

	description, err := parseDescription(req.Description)
	if err != nil {
		return models.IssueDraft{}, err
	}

	draft := models.IssueDraft{
		Type:        issueType,
		Title:       title,
		Description: description,
		Priority:    models.PriorityMedium,
		Status:      models.StatusOpen,
	}

	if req.Priority != "" {
		if draft.Priority, err = parsePriority(req.Priority); err != nil {
			return models.IssueDraft{}, err
		}
	}
	if req.Status != "" {
		if draft.Status, err = parseStatus(req.Status); err != nil {
			return models.IssueDraft{}, err
		}
	}

	return draft, nil
}

// ValidateUpdateIssue проверяет частичное обновление.
// Отсутствующие поля не трогаются, присланные проверяются по тем же правилам, что при создании.
func ValidateUpdateIssue(req api.UpdateIssueRequest) (models.IssuePatch, error) {
	var (
		patch models.IssuePatch
		err   error
	)

	if req.Type != nil {
		var t models.IssueType
		if t, err = parseType(*req.Type); err != nil {
			return models.IssuePatch{}, err
		}
		patch.Type = &t
	}
	if req.Title != nil {
		var title string
		if title, err = parseTitle(*req.Title); err != nil {
			return models.IssuePatch{}, err
		}
		patch.Title = &title
	}
	if req.Description != nil {
		var description string
		if description, err = parseDescription(*req.Description); err != nil {
			return models.IssuePatch{}, err
		}
		patch.Description = &description
	}
	if req.Priority != nil {
		var p models.Priority
		if p, err = parsePriority(*req.Priority); err != nil {
			return models.IssuePatch{}, err
		}
		patch.Priority = &p
	}
	if req.Status != nil {
		var s models.Status
		if s, err = parseStatus(*req.Status); err != nil {
			return models.IssuePatch{}, err
		}
		patch.Status = &s
	}

	return patch, nil
}

// ValidateIssueFilter проверяет параметры фильтрации списка. Пустое значение - без фильтра.
func ValidateIssueFilter(issueType, status string) (models.IssueFilter, error) {
	var (
		filter models.IssueFilter
		err    error
	)
	if issueType != "" {
		if filter.Type, err = parseType(issueType); err != nil {
			return models.IssueFilter{}, err
		}
	}
	if status != "" {
		if filter.Status, err = parseStatus(status); err != nil {
			return models.IssueFilter{}, err
		}
	}
	return filter, nil
}

// ValidateSearchTerm обрезает пробелы и проверяет минимальную длину
func ValidateSearchTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchLen {
		return "", errSearchTooShort
	}
	return term, nil
}

func parseType(s string) (models.IssueType, error) {
	t := models.IssueType(s)
	if !t.Valid() {
		return "", errInvalidType
	}
	return t, nil
}

func parsePriority(s string) (models.Priority, error) {
	p := models.Priority(s)
	if !p.Valid() {
		return "", errInvalidPrio
	}
	return p, nil
}

func parseStatus(s string) (models.Status, error) {
	st := models.Status(s)
	if !st.Valid() {
		return "", errInvalidStatus
	}
	return st, nil
}

func parseTitle(s string) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < MinTitleLen {
		return "", errTitleShort
	}
	return s, nil
}

func parseDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < MinDescriptionLen {
		return "", errDescrShort
	}
	return s, nil
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
