package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/issuekeeper/internal/config"
	"github.com/iudanet/issuekeeper/internal/crypto"
	"github.com/iudanet/issuekeeper/internal/notify"
	"github.com/iudanet/issuekeeper/internal/server"
	"github.com/iudanet/issuekeeper/internal/server/jwt"
	"github.com/iudanet/issuekeeper/internal/server/middleware"
	"github.com/iudanet/issuekeeper/internal/server/service"
	"github.com/iudanet/issuekeeper/internal/server/storage/sqldb"
	"github.com/iudanet/issuekeeper/internal/telemetry"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const serviceName = "issuekeeper"

func main() {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		os.Exit(0)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(2)
	}

	logger, err := cfg.Log.NewLogger(os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.InfoContext(ctx, "IssueKeeper Server starting",
		slog.String("version", Version),
		slog.String("env", cfg.Environment),
		slog.String("db_driver", cfg.Database.Driver))

	if cfg.JWT.Secret == config.DevJWTSecret {
		logger.WarnContext(ctx, "using development JWT secret, set ISSUEKEEPER_JWT_SECRET")
	}

	tel, err := telemetry.Setup(ctx, serviceName, Version, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	storage, err := sqldb.New(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return errors.Join(fmt.Errorf("storage: %w", err), tel.Shutdown(context.Background()))
	}

	hasher := crypto.NewHasher(cfg.BcryptCost)
	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TTL)

	var notifier service.Notifier = notify.NewLogNotifier(logger)
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger)
	}

	authService := service.NewAuthService(storage, hasher, tokens, notifier, logger)
	issueService := service.NewIssueService(storage, logger)
	userService := service.NewUserService(storage, hasher, logger)

	generalLimiter := middleware.NewRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window, logger)
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.AuthMax, cfg.RateLimit.AuthWindow, logger)

	router := server.NewRouter(server.RouterDeps{
		Logger:         logger,
		Auth:           authService,
		Issues:         issueService,
		Users:          userService,
		Tokens:         tokens,
		DB:             storage,
		Version:        Version,
		GeneralLimiter: generalLimiter,
		AuthLimiter:    authLimiter,
		TracerProvider: tel.TracerProvider,
		Propagator:     tel.Propagator,
	})

	srv := server.New(cfg.Addr, router, logger, cfg.ShutdownTimeout)
	srv.OnShutdown(func(context.Context) error {
		generalLimiter.Stop()
		authLimiter.Stop()
		authService.Wait()
		return nil
	})
	srv.OnShutdown(func(context.Context) error {
		return storage.Close()
	})
	srv.OnShutdown(tel.Shutdown)

	return srv.Run(ctx)
}

func printVersion() {
	fmt.Printf("IssueKeeper Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
