package service

import "github.com/iudanet/issuekeeper/internal/apperr"

// Errors returned by the services. Messages are shown to API clients as is.
var (
	ErrDuplicateEmail     = apperr.New(apperr.KindDuplicateEmail, "User with this email already exists")
	ErrInvalidCredentials = apperr.New(apperr.KindInvalidCredentials, "Invalid email or password")
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "User not found")
	ErrEmailTaken         = apperr.New(apperr.KindEmailTaken, "Email already in use")

	ErrIssueNotFound     = apperr.New(apperr.KindNotFound, "Issue not found")
	ErrIssueAccessDenied = apperr.New(apperr.KindForbidden, "Unauthorized access to this issue")
	ErrIssueUpdateDenied = apperr.New(apperr.KindForbidden, "Unauthorized to update this issue")
	ErrIssueDeleteDenied = apperr.New(apperr.KindForbidden, "Unauthorized to delete this issue")
)
