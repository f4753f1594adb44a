// Package server собирает HTTP API issuekeeper и управляет его жизненным циклом.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
)

// Server - HTTP сервер с graceful shutdown
type Server struct {
	httpServer      *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
	// onShutdown вызываются после остановки HTTP сервера, в порядке добавления
	onShutdown []func(context.Context) error
}

// New создает Server. shutdownTimeout <= 0 означает DefaultShutdownTimeout.
func New(addr string, handler http.Handler, logger *slog.Logger, shutdownTimeout time.Duration) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			WriteTimeout:      DefaultWriteTimeout,
			IdleTimeout:       DefaultIdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// OnShutdown регистрирует функцию, вызываемую после остановки приема запросов
// (ожидание фоновых писем, сброс трассировки, закрытие БД).
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Run слушает addr до отмены ctx, затем корректно завершает работу.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		err = fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
		return errors.Join(append([]error{err}, s.runShutdownHooks(ctx)...)...)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.InfoContext(ctx, "HTTP server listening", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		s.logger.InfoContext(ctx, "shutting down HTTP server")

		// контекст запуска уже отменен, на остановку отдельный таймаут
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		var errs []error
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		errs = append(errs, s.runShutdownHooks(shutdownCtx)...)
		return errors.Join(errs...)
	})

	err := g.Wait()
	if err == nil {
		s.logger.InfoContext(ctx, "HTTP server stopped")
	}
	return err
}

func (s *Server) runShutdownHooks(ctx context.Context) []error {
	var errs []error
	for _, fn := range s.onShutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
