package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/iudanet/issuekeeper/internal/apperr"
	"github.com/iudanet/issuekeeper/internal/server/handlers"
	"github.com/iudanet/issuekeeper/internal/server/jwt"
)

var (
	errMissingToken = apperr.New(apperr.KindUnauthorized, "Unauthorized")
	errInvalidToken = apperr.New(apperr.KindUnauthorized, "Invalid token")
)

// TokenVerifier проверяет подпись и срок действия токена
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// BearerToken извлекает токен из заголовка Authorization.
// Принимается только формат "Bearer <token>" с одним пробелом.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

// AuthMiddleware создает middleware для проверки JWT токена
func AuthMiddleware(logger *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "Missing Authorization header", slog.String("path", r.URL.Path))
				handlers.WriteError(w, logger, errMissingToken)
				return
			}

			token, ok := BearerToken(authHeader)
			if !ok {
				// сам заголовок не логируем: в нем может быть токен
				logger.WarnContext(ctx, "Invalid Authorization header format", slog.String("path", r.URL.Path))
				handlers.WriteError(w, logger, errMissingToken)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "Invalid access token", slog.Any("error", err))
				handlers.WriteError(w, logger, errInvalidToken)
				return
			}

			logger.DebugContext(ctx, "User authenticated", slog.String("user_id", claims.UserID))
			trace.SpanFromContext(ctx).SetAttributes(endUserIDKey.String(claims.UserID))

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, claims.UserID, claims.Email)))
		})
	}
}
