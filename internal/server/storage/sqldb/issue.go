package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/internal/server/storage"
)

const issueColumns = `id, user_id, type, title, description, priority, status, created_at, updated_at`

// newest first, id breaks ties
const issueOrder = ` ORDER BY created_at DESC, id DESC`

// likeEscaper экранирует спецсимволы LIKE, чтобы поиск был подстрокой, а не шаблоном
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CreateIssue stores a new issue
func (s *Storage) CreateIssue(ctx context.Context, issue *models.Issue) error {
	query := s.rebind(`
		INSERT INTO issues (` + issueColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := s.db.ExecContext(ctx, query,
		issue.ID,
		issue.UserID,
		string(issue.Type),
		issue.Title,
		issue.Description,
		string(issue.Priority),
		string(issue.Status),
		toNanos(issue.CreatedAt),
		toNanos(issue.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert issue: %w", err)
	}

	return nil
}

// GetIssue retrieves issue by ID
func (s *Storage) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	query := s.rebind(`SELECT ` + issueColumns + ` FROM issues WHERE id = ?`)

	issue, err := scanIssue(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	return issue, nil
}

// ListIssues returns issues of userID matching filter
func (s *Storage) ListIssues(ctx context.Context, userID string, filter models.IssueFilter) ([]models.Issue, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + issueColumns + ` FROM issues WHERE user_id = ?`)
	args := []any{userID}

	if filter.Type != "" {
		b.WriteString(` AND type = ?`)
		args = append(args, string(filter.Type))
	}
	if filter.Status != "" {
		b.WriteString(` AND status = ?`)
		args = append(args, string(filter.Status))
	}
	b.WriteString(issueOrder)

	return s.queryIssues(ctx, s.rebind(b.String()), args...)
}

// SearchIssues returns issues of userID whose title or description contains term.
// Обе стороны сравнения приводятся к нижнему регистру по правилам Unicode.
func (s *Storage) SearchIssues(ctx context.Context, userID, term string) ([]models.Issue, error) {
	lower := s.lowerFunc()
	query := s.rebind(`
		SELECT ` + issueColumns + ` FROM issues
		WHERE user_id = ?
		  AND (` + lower + `(title) LIKE ? ESCAPE '\' OR ` + lower + `(description) LIKE ? ESCAPE '\')` + issueOrder)

	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"

	return s.queryIssues(ctx, query, userID, pattern, pattern)
}

// UpdateIssue overwrites mutable fields if the issue is still owned by issue.UserID
func (s *Storage) UpdateIssue(ctx context.Context, issue *models.Issue) error {
	query := s.rebind(`
		UPDATE issues
		SET type = ?, title = ?, description = ?, priority = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`)

	result, err := s.db.ExecContext(ctx, query,
		string(issue.Type),
		issue.Title,
		issue.Description,
		string(issue.Priority),
		string(issue.Status),
		toNanos(issue.UpdatedAt),
		issue.ID,
		issue.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}

	return expectOneRow(result)
}

// DeleteIssue removes the issue if it is owned by userID
func (s *Storage) DeleteIssue(ctx context.Context, id, userID string) error {
	query := s.rebind(`DELETE FROM issues WHERE id = ? AND user_id = ?`)

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrIssueNotFound
	}
	return nil
}

func (s *Storage) queryIssues(ctx context.Context, query string, args ...any) ([]models.Issue, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	issues := make([]models.Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, *issue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issues: %w", err)
	}

	return issues, nil
}

// rowScanner - общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (*models.Issue, error) {
	var (
		issue                   models.Issue
		issueType, prio, status string
		createdAt, updatedAt    int64
	)

	err := row.Scan(
		&issue.ID,
		&issue.UserID,
		&issueType,
		&issue.Title,
		&issue.Description,
		&prio,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	issue.Type = models.IssueType(issueType)
	issue.Priority = models.Priority(prio)
	issue.Status = models.Status(status)
	issue.CreatedAt = fromNanos(createdAt)
	issue.UpdatedAt = fromNanos(updatedAt)

	return &issue, nil
}
