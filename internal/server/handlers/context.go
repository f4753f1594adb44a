package handlers

import "context"

// contextKey - тип для ключей контекста
type contextKey string

const (
	// UserIDKey - ключ для user_id в контексте запроса
	UserIDKey contextKey = "user_id"
	// EmailKey - ключ для email в контексте запроса
	EmailKey contextKey = "email"
)

// WithUser stores the authenticated identity in ctx.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, EmailKey, email)
}

// GetUserID извлекает user_id из контекста
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetEmail извлекает email из контекста
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}
