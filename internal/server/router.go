package server

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/iudanet/issuekeeper/internal/server/handlers"
	"github.com/iudanet/issuekeeper/internal/server/middleware"
)

// healthPath не логируется: его опрашивают балансировщики
const healthPath = "/api/health"

// RouterDeps - все, что нужно для сборки HTTP API
type RouterDeps struct {
	Logger  *slog.Logger
	Auth    handlers.AuthService
	Issues  handlers.IssueService
	Users   handlers.UserService
	Tokens  middleware.TokenVerifier
	DB      handlers.Pinger
	Version string

	// GeneralLimiter применяется ко всем маршрутам, AuthLimiter дополнительно к register и login
	GeneralLimiter *middleware.RateLimiter
	AuthLimiter    *middleware.RateLimiter

	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
}

// NewRouter собирает маршруты /api и цепочку middleware:
// recovery -> tracing -> logging -> rate limit -> (auth rate limit | auth) -> handler.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger

	authHandler := handlers.NewAuthHandler(logger, deps.Auth)
	issueHandler := handlers.NewIssueHandler(logger, deps.Issues)
	userHandler := handlers.NewUserHandler(logger, deps.Users)
	healthHandler := handlers.NewHealthHandler(logger, deps.DB, deps.Version)

	requireAuth := middleware.AuthMiddleware(logger, deps.Tokens)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}
	authLimited := func(h http.HandlerFunc) http.Handler {
		if deps.AuthLimiter == nil {
			return h
		}
		return middleware.RateLimitMiddleware(deps.AuthLimiter, logger)(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET "+healthPath, healthHandler.Health)

	mux.Handle("POST /api/auth/register", authLimited(authHandler.Register))
	mux.Handle("POST /api/auth/login", authLimited(authHandler.Login))
	mux.Handle("POST /api/auth/logout", protected(authHandler.Logout))
	mux.Handle("GET /api/auth/me", protected(authHandler.Me))

	mux.Handle("GET /api/issues", protected(issueHandler.List))
	mux.Handle("POST /api/issues", protected(issueHandler.Create))
	mux.Handle("GET /api/issues/stats", protected(issueHandler.Stats))
	mux.Handle("GET /api/issues/{id}", protected(issueHandler.Get))
	mux.Handle("PUT /api/issues/{id}", protected(issueHandler.Update))
	mux.Handle("DELETE /api/issues/{id}", protected(issueHandler.Delete))

	mux.Handle("GET /api/users/profile", protected(userHandler.GetProfile))
	mux.Handle("PUT /api/users/profile", protected(userHandler.UpdateProfile))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteFailure(w, logger, http.StatusNotFound, "Not found")
	})

	var h http.Handler = mux
	if deps.GeneralLimiter != nil {
		h = middleware.RateLimitMiddleware(deps.GeneralLimiter, logger)(h)
	}
	h = middleware.AccessLog(logger, healthPath)(h)

	tp := deps.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	propagator := deps.Propagator
	if propagator == nil {
		propagator = propagation.TraceContext{}
	}
	h = middleware.TracingMiddleware(tp, propagator)(h)

	return middleware.Recover(logger)(h)
}
