package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/internal/server/storage"
	"github.com/iudanet/issuekeeper/internal/validation"
)

// IssueService enforces that a user only ever reads or mutates their own issues.
// Existence is checked before ownership, so a missing issue is NotFound for everyone.
type IssueService struct {
	issues storage.IssueStorage
	logger *slog.Logger
	opts   options
}

// NewIssueService создает IssueService
func NewIssueService(issues storage.IssueStorage, logger *slog.Logger, opts ...Option) *IssueService {
	return &IssueService{
		issues: issues,
		logger: logger,
		opts:   buildOptions(opts),
	}
}

// Create stores a new issue owned by requesterID.
func (s *IssueService) Create(ctx context.Context, requesterID string, draft models.IssueDraft) (*models.Issue, error) {
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	if draft.Status == "" {
		draft.Status = models.StatusOpen
	}

	now := s.opts.now()
	issue := &models.Issue{
		ID:          s.opts.newID(),
		UserID:      requesterID,
		Type:        draft.Type,
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Status:      draft.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.issues.CreateIssue(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	s.logger.InfoContext(ctx, "issue created",
		slog.String("issue_id", issue.ID),
		slog.String("user_id", requesterID))

	return issue, nil
}

// Get returns the issue if requesterID owns it.
func (s *IssueService) Get(ctx context.Context, id, requesterID string) (*models.Issue, error) {
	return s.owned(ctx, id, requesterID, ErrIssueAccessDenied)
}

// List returns the requester's issues matching filter, newest first.
func (s *IssueService) List(ctx context.Context, requesterID string, filter models.IssueFilter) ([]models.Issue, error) {
	issues, err := s.issues.ListIssues(ctx, requesterID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

// Search returns the requester's issues whose title or description contains term.
func (s *IssueService) Search(ctx context.Context, requesterID, term string) ([]models.Issue, error) {
	term, err := validation.ValidateSearchTerm(term)
	if err != nil {
		return nil, err
	}

	issues, err := s.issues.SearchIssues(ctx, requesterID, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	return issues, nil
}

// Update applies patch to an issue owned by requesterID and bumps UpdatedAt.
func (s *IssueService) Update(ctx context.Context, id, requesterID string, patch models.IssuePatch) (*models.Issue, error) {
	issue, err := s.owned(ctx, id, requesterID, ErrIssueUpdateDenied)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		// пустой patch допустим: меняется только updatedAt
		s.logger.DebugContext(ctx, "empty issue patch",
			slog.String("issue_id", id),
			slog.String("user_id", requesterID))
	}
	patch.Apply(issue)
	issue.UpdatedAt = s.opts.now()

	// UPDATE ... WHERE id AND user_id: удаление между проверкой и записью дает NotFound
	if err := s.issues.UpdateIssue(ctx, issue); err != nil {
		if errors.Is(err, storage.ErrIssueNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	s.logger.InfoContext(ctx, "issue updated",
		slog.String("issue_id", id),
		slog.String("user_id", requesterID))

	return issue, nil
}

// Delete removes an issue owned by requesterID.
func (s *IssueService) Delete(ctx context.Context, id, requesterID string) error {
	if _, err := s.owned(ctx, id, requesterID, ErrIssueDeleteDenied); err != nil {
		return err
	}

	if err := s.issues.DeleteIssue(ctx, id, requesterID); err != nil {
		if errors.Is(err, storage.ErrIssueNotFound) {
			return ErrIssueNotFound
		}
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	s.logger.InfoContext(ctx, "issue deleted",
		slog.String("issue_id", id),
		slog.String("user_id", requesterID))

	return nil
}

// Stats counts the requester's issues by status and type.
func (s *IssueService) Stats(ctx context.Context, requesterID string) (models.IssueStats, error) {
	issues, err := s.issues.ListIssues(ctx, requesterID, models.IssueFilter{})
	if err != nil {
		return models.IssueStats{}, fmt.Errorf("failed to list issues: %w", err)
	}

	var stats models.IssueStats
	for _, issue := range issues {
		stats.Total++

		switch issue.Status {
		case models.StatusOpen:
			stats.Open++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusResolved:
			stats.Resolved++
		case models.StatusClosed:
			stats.Closed++
		}

		switch issue.Type {
		case models.IssueTypeCloudSecurity:
			stats.ByType.CloudSecurity++
		case models.IssueTypeReteamAssessment:
			stats.ByType.ReteamAssessment++
		case models.IssueTypeVAPT:
			stats.ByType.VAPT++
		}
	}

	return stats, nil
}

// owned loads the issue and checks that requesterID is its owner.
func (s *IssueService) owned(ctx context.Context, id, requesterID string, denied error) (*models.Issue, error) {
	issue, err := s.issues.GetIssue(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrIssueNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	if issue.UserID != requesterID {
		s.logger.WarnContext(ctx, "issue access denied",
			slog.String("issue_id", id),
			slog.String("user_id", requesterID))
		return nil, denied
	}

	return issue, nil
}
