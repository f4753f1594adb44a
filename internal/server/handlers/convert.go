package handlers

import (
	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/pkg/api"
)

func toAPIUser(u models.PublicUser) api.User {
	return api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIIssue(i *models.Issue) api.Issue {
	return api.Issue{
		ID:          i.ID,
		UserID:      i.UserID,
		Type:        string(i.Type),
		Title:       i.Title,
		Description: i.Description,
		Priority:    string(i.Priority),
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toAPIIssues(issues []models.Issue) []api.Issue {
	out := make([]api.Issue, 0, len(issues))
	for i := range issues {
		out = append(out, toAPIIssue(&issues[i]))
	}
	return out
}

func toAPIStats(s models.IssueStats) api.IssueStats {
	return api.IssueStats{
		Total:      s.Total,
		Open:       s.Open,
		InProgress: s.InProgress,
		Resolved:   s.Resolved,
		Closed:     s.Closed,
		ByType: api.TypeStats{
			CloudSecurity:    s.ByType.CloudSecurity,
			ReteamAssessment: s.ByType.ReteamAssessment,
			VAPT:             s.ByType.VAPT,
		},
	}
}
