package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that another user already holds this email
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrIssueNotFound indicates that the issue does not exist,
	// or that a conditional mutation matched no row owned by the caller
	ErrIssueNotFound = errors.New("issue not found")
)
