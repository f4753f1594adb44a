package api

import "time"

// Issue как его видит клиент
type Issue struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
}

// CreateIssueRequest представляет запрос на создание issue.
// Priority и Status необязательны (medium и open по умолчанию).
type CreateIssueRequest struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
}

// UpdateIssueRequest - частичное обновление, nil поля не меняются
type UpdateIssueRequest struct {
	Type        *string `json:"type,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// IssueStats is the data of GET /api/issues/stats.
type IssueStats struct {
	ByType     TypeStats `json:"byType"`
	Total      int       `json:"total"`
	Open       int       `json:"open"`
	InProgress int       `json:"inProgress"`
	Resolved   int       `json:"resolved"`
	Closed     int       `json:"closed"`
}

type TypeStats struct {
	CloudSecurity    int `json:"cloudSecurity"`
	ReteamAssessment int `json:"reteamAssessment"`
	VAPT             int `json:"vapt"`
}
