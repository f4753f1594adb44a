package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumsValid(t *testing.T) {
	assert.True(t, IssueTypeVAPT.Valid())
	assert.True(t, IssueType("Cloud Security").Valid())
	assert.False(t, IssueType("cloud security").Valid())
	assert.False(t, IssueType("").Valid())

	assert.True(t, PriorityCritical.Valid())
	assert.False(t, Priority("urgent").Valid())

	assert.True(t, StatusInProgress.Valid())
	assert.False(t, Status("in_progress").Valid())
}

func TestIssuePatch_Apply(t *testing.T) {
	issue := &Issue{
		ID:          "issue-1",
		UserID:      "user-1",
		Type:        IssueTypeVAPT,
		Title:       "Open S3 bucket",
		Description: "Bucket allows public listing",
		Priority:    PriorityMedium,
		Status:      StatusOpen,
	}

	title := "Public S3 bucket"
	status := StatusResolved
	patch := IssuePatch{Title: &title, Status: &status}

	assert.False(t, patch.Empty())
	patch.Apply(issue)

	assert.Equal(t, "Public S3 bucket", issue.Title)
	assert.Equal(t, StatusResolved, issue.Status)
	// untouched fields
	assert.Equal(t, IssueTypeVAPT, issue.Type)
	assert.Equal(t, "Bucket allows public listing", issue.Description)
	assert.Equal(t, PriorityMedium, issue.Priority)
	assert.Equal(t, "user-1", issue.UserID)
}

func TestIssuePatch_Empty(t *testing.T) {
	assert.True(t, IssuePatch{}.Empty())
}

func TestUser_PublicOmitsPasswordHash(t *testing.T) {
	u := &User{ID: "u1", Name: "Alice", Email: "a@x.com", PasswordHash: "$2a$10$secret"}
	pub := u.Public()

	assert.Equal(t, "u1", pub.ID)
	assert.Equal(t, "Alice", pub.Name)
	assert.Equal(t, "a@x.com", pub.Email)
}
