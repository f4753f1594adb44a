package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/pkg/api"
)

func ptr[T any](v T) *T {
	return &v
}

func TestValidateCreateIssue(t *testing.T) {
	tests := []struct {
		name    string
		req     api.CreateIssueRequest
		want    models.IssueDraft
		field   string
		message string
		wantErr bool
	}{
		{
			name: "defaults applied",
			req:  api.CreateIssueRequest{Type: "VAPT", Title: "SQL injection", Description: "Login form is injectable"},
			want: models.IssueDraft{
				Type:        models.IssueTypeVAPT,
				Title:       "SQL injection",
				Description: "Login form is injectable",
				Priority:    models.PriorityMedium,
				Status:      models.StatusOpen,
			},
		},
		{
			name: "explicit priority and status, trimmed text",
			req: api.CreateIssueRequest{
				Type:        "Cloud Security",
				Title:       "  Open S3 bucket  ",
				Description: "  Bucket allows public reads  ",
				Priority:    "critical",
				Status:      "in-progress",
			},
			want: models.IssueDraft{
				Type:        models.IssueTypeCloudSecurity,
				Title:       "Open S3 bucket",
				Description: "Bucket allows public reads",
				Priority:    models.PriorityCritical,
				Status:      models.StatusInProgress,
			},
		},
		{
			name:    "missing type",
			req:     api.CreateIssueRequest{Title: "Title", Description: "A long description"},
			wantErr: true,
			field:   "type",
			message: "Issue type is required",
		},
		{
			name:    "unknown type",
			req:     api.CreateIssueRequest{Type: "Invalid Type", Title: "Title", Description: "A long description"},
			wantErr: true,
			field:   "type",
			message: "Invalid issue type. Must be one of: Cloud Security, Reteam Assessment, VAPT",
		},
		{
			name:    "type is case-sensitive",
			req:     api.CreateIssueRequest{Type: "vapt", Title: "Title", Description: "A long description"},
			wantErr: true,
			field:   "type",
		},
		{
			name:    "title of two characters after trim",
			req:     api.CreateIssueRequest{Type: "VAPT", Title: "  ab  ", Description: "A long description"},
			wantErr: true,
			field:   "title",
			message: "Title must be at least 3 characters long",
		},
		{
			name:    "description of nine characters",
			req:     api.CreateIssueRequest{Type: "VAPT", Title: "Title", Description: "123456789"},
			wantErr: true,
			field:   "description",
			message: "Description must be at least 10 characters long",
		},
		{
			name:    "unknown priority",
			req:     api.CreateIssueRequest{Type: "VAPT", Title: "Title", Description: "A long description", Priority: "urgent"},
			wantErr: true,
			field:   "priority",
			message: "Invalid priority. Must be one of: low, medium, high, critical",
		},
		{
			name:    "unknown status",
			req:     api.CreateIssueRequest{Type: "VAPT", Title: "Title", Description: "A long description", Status: "done"},
			wantErr: true,
			field:   "status",
			message: "Invalid status. Must be one of: open, in-progress, resolved, closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCreateIssue(tt.req)
			if tt.wantErr {
				requireInvalid(t, err, tt.field, tt.message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateUpdateIssue(t *testing.T) {
	t.Run("empty request is an empty patch", func(t *testing.T) {
		patch, err := ValidateUpdateIssue(api.UpdateIssueRequest{})
		require.NoError(t, err)
		assert.True(t, patch.Empty())
	})

	t.Run("only provided fields are set", func(t *testing.T) {
		patch, err := ValidateUpdateIssue(api.UpdateIssueRequest{
			Status: ptr("resolved"),
			Title:  ptr("  New title "),
		})
		require.NoError(t, err)

		require.NotNil(t, patch.Status)
		assert.Equal(t, models.StatusResolved, *patch.Status)
		require.NotNil(t, patch.Title)
		assert.Equal(t, "New title", *patch.Title)
		assert.Nil(t, patch.Type)
		assert.Nil(t, patch.Description)
		assert.Nil(t, patch.Priority)
	})

	t.Run("all fields", func(t *testing.T) {
		patch, err := ValidateUpdateIssue(api.UpdateIssueRequest{
			Type:        ptr("Reteam Assessment"),
			Title:       ptr("Phishing"),
			Description: ptr("Credential harvesting campaign"),
			Priority:    ptr("low"),
			Status:      ptr("closed"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.IssueTypeReteamAssessment, *patch.Type)
		assert.Equal(t, models.PriorityLow, *patch.Priority)
		assert.Equal(t, models.StatusClosed, *patch.Status)
	})

	invalid := []struct {
		name  string
		req   api.UpdateIssueRequest
		field string
	}{
		{name: "bad type", req: api.UpdateIssueRequest{Type: ptr("Pentest")}, field: "type"},
		{name: "empty title", req: api.UpdateIssueRequest{Title: ptr("")}, field: "title"},
		{name: "short description", req: api.UpdateIssueRequest{Description: ptr("short")}, field: "description"},
		{name: "bad priority", req: api.UpdateIssueRequest{Priority: ptr("HIGH")}, field: "priority"},
		{name: "bad status", req: api.UpdateIssueRequest{Status: ptr("in progress")}, field: "status"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateUpdateIssue(tt.req)
			requireInvalid(t, err, tt.field, "")
		})
	}
}

func TestValidateIssueFilter(t *testing.T) {
	filter, err := ValidateIssueFilter("", "")
	require.NoError(t, err)
	assert.Equal(t, models.IssueFilter{}, filter)

	filter, err = ValidateIssueFilter("Cloud Security", "open")
	require.NoError(t, err)
	assert.Equal(t, models.IssueFilter{Type: models.IssueTypeCloudSecurity, Status: models.StatusOpen}, filter)

	_, err = ValidateIssueFilter("nope", "")
	requireInvalid(t, err, "type", "")

	_, err = ValidateIssueFilter("", "nope")
	requireInvalid(t, err, "status", "")
}

func TestValidateSearchTerm(t *testing.T) {
	term, err := ValidateSearchTerm("  xs ")
	require.NoError(t, err)
	assert.Equal(t, "xs", term)

	for _, bad := range []string{"", "a", "  a  ", "   "} {
		_, err := ValidateSearchTerm(bad)
		requireInvalid(t, err, "search", "Search term must be at least 2 characters")
	}
}
