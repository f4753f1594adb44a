// Package servertest поднимает полный issuekeeper сервер на sqlite в памяти
// для тестов клиента.
package servertest

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/issuekeeper/internal/crypto"
	"github.com/iudanet/issuekeeper/internal/server"
	"github.com/iudanet/issuekeeper/internal/server/jwt"
	"github.com/iudanet/issuekeeper/internal/server/middleware"
	"github.com/iudanet/issuekeeper/internal/server/service"
	"github.com/iudanet/issuekeeper/internal/server/storage/sqldb"
)

// Options tune the test server. Zero values mean generous defaults.
type Options struct {
	TokenTTL     time.Duration
	RateLimitMax int
	AuthLimitMax int
}

// NewServer starts the server and registers its shutdown with t.Cleanup.
func NewServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if opts.TokenTTL == 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.RateLimitMax == 0 {
		opts.RateLimitMax = 1000
	}
	if opts.AuthLimitMax == 0 {
		opts.AuthLimitMax = 1000
	}

	storage, err := sqldb.New(ctx, sqldb.DriverSQLite, ":memory:")
	require.NoError(t, err)

	// минимальная стоимость bcrypt, иначе тесты клиента медленные
	hasher := crypto.NewHasher(crypto.DefaultCost)
	tokens := jwt.NewService("servertest-secret", opts.TokenTTL)
	authService := service.NewAuthService(storage, hasher, tokens, nil, logger)

	general := middleware.NewRateLimiter(opts.RateLimitMax, time.Minute, logger)
	authLimiter := middleware.NewRateLimiter(opts.AuthLimitMax, time.Minute, logger)

	srv := httptest.NewServer(server.NewRouter(server.RouterDeps{
		Logger:         logger,
		Auth:           authService,
		Issues:         service.NewIssueService(storage, logger),
		Users:          service.NewUserService(storage, hasher, logger),
		Tokens:         tokens,
		DB:             storage,
		Version:        "test",
		GeneralLimiter: general,
		AuthLimiter:    authLimiter,
	}))

	t.Cleanup(func() {
		srv.Close()
		general.Stop()
		authLimiter.Stop()
		authService.Wait()
		_ = storage.Close()
	})

	return srv
}
