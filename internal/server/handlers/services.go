package handlers

import (
	"context"

	"github.com/iudanet/issuekeeper/internal/apperr"
	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/internal/server/service"
)

// AuthService - то, что AuthHandler использует из service.AuthService
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetUserByID(ctx context.Context, userID string) (models.PublicUser, error)
	Logout(ctx context.Context, userID string) error
}

// IssueService - то, что IssueHandler использует из service.IssueService
type IssueService interface {
	Create(ctx context.Context, requesterID string, draft models.IssueDraft) (*models.Issue, error)
	Get(ctx context.Context, id, requesterID string) (*models.Issue, error)
	List(ctx context.Context, requesterID string, filter models.IssueFilter) ([]models.Issue, error)
	Search(ctx context.Context, requesterID, term string) ([]models.Issue, error)
	Update(ctx context.Context, id, requesterID string, patch models.IssuePatch) (*models.Issue, error)
	Delete(ctx context.Context, id, requesterID string) error
	Stats(ctx context.Context, requesterID string) (models.IssueStats, error)
}

// UserService - то, что UserHandler использует из service.UserService
type UserService interface {
	GetProfile(ctx context.Context, userID string) (models.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (models.PublicUser, error)
}

// errUnauthenticated возвращается, если маршрут с авторизацией вызван без пользователя в контексте
var errUnauthenticated = apperr.New(apperr.KindUnauthorized, "Unauthorized")

// requesterID достает id пользователя, положенный AuthMiddleware
func requesterID(ctx context.Context) (string, error) {
	userID, ok := GetUserID(ctx)
	if !ok {
		return "", errUnauthenticated
	}
	return userID, nil
}
