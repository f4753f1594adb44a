package models

import "time"

// IssueType is the category of a security finding.
type IssueType string

const (
	IssueTypeCloudSecurity    IssueType = "Cloud Security"
	IssueTypeReteamAssessment IssueType = "Reteam Assessment"
	IssueTypeVAPT             IssueType = "VAPT"
)

// IssueTypes lists the accepted issue types in display order.
var IssueTypes = []IssueType{IssueTypeCloudSecurity, IssueTypeReteamAssessment, IssueTypeVAPT}

// Valid reports whether t is one of the known issue types.
func (t IssueType) Valid() bool {
	for _, known := range IssueTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Priority of an issue.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists the accepted priorities.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Status of an issue.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists the accepted statuses.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Issue is a security finding owned by exactly one user.
type Issue struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ID          string    `json:"id"`
	UserID      string    `json:"userId"` // владелец, не меняется после создания
	Type        IssueType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
}

// IssueDraft is a validated issue create request.
type IssueDraft struct {
	Type        IssueType
	Title       string
	Description string
	Priority    Priority
	Status      Status
}

// IssuePatch holds the optional fields of an issue update.
// A nil field is left untouched.
type IssuePatch struct {
	Type        *IssueType
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
}

// Empty reports whether the patch changes nothing.
func (p IssuePatch) Empty() bool {
	return p.Type == nil && p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil
}

// Apply copies the provided fields onto issue.
func (p IssuePatch) Apply(issue *Issue) {
	if p.Type != nil {
		issue.Type = *p.Type
	}
	if p.Title != nil {
		issue.Title = *p.Title
	}
	if p.Description != nil {
		issue.Description = *p.Description
	}
	if p.Priority != nil {
		issue.Priority = *p.Priority
	}
	if p.Status != nil {
		issue.Status = *p.Status
	}
}

// IssueFilter narrows a listing by exact type and/or status. Zero values match everything.
type IssueFilter struct {
	Type   IssueType
	Status Status
}

// IssueStats aggregates a user's issues.
type IssueStats struct {
	ByType     TypeStats `json:"byType"`
	Total      int       `json:"total"`
	Open       int       `json:"open"`
	InProgress int       `json:"inProgress"`
	Resolved   int       `json:"resolved"`
	Closed     int       `json:"closed"`
}

// TypeStats counts issues per type.
type TypeStats struct {
	CloudSecurity    int `json:"cloudSecurity"`
	ReteamAssessment int `json:"reteamAssessment"`
	VAPT             int `json:"vapt"`
}
