package storage

import (
	"context"

	"github.com/iudanet/issuekeeper/internal/models"
)

// IssueStorage defines interface for issue persistence.
// List and search results are scoped to one owner and ordered newest first.
type IssueStorage interface {
	// CreateIssue stores a new issue
	CreateIssue(ctx context.Context, issue *models.Issue) error

	// GetIssue retrieves issue by ID regardless of owner
	// Returns ErrIssueNotFound if issue doesn't exist
	GetIssue(ctx context.Context, id string) (*models.Issue, error)

	// ListIssues returns issues of userID matching filter exactly
	ListIssues(ctx context.Context, userID string, filter models.IssueFilter) ([]models.Issue, error)

	// SearchIssues returns issues of userID whose title or description
	// contains term, case-insensitively
	SearchIssues(ctx context.Context, userID, term string) ([]models.Issue, error)

	// UpdateIssue overwrites mutable fields of the issue if it is still owned by issue.UserID
	// Returns ErrIssueNotFound if no such row matched
	UpdateIssue(ctx context.Context, issue *models.Issue) error

	// DeleteIssue removes the issue if it is owned by userID
	// Returns ErrIssueNotFound if no such row matched
	DeleteIssue(ctx context.Context, id, userID string) error
}
