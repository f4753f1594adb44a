package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/issuekeeper/internal/server/handlers"
)

// Recover превращает panic в обработчике в 500 с общим сообщением.
// Значение panic и стек уходят только в лог.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					// соединение закрывает сам net/http
					panic(v)
				}

				logger.LogAttrs(r.Context(), slog.LevelError, "handler panicked",
					slog.Any("panic", panicValue(v)),
					slog.String("method", r.Method),
					slog.String("route", routeOf(r.URL.Path)),
					slog.String("client", getClientIP(r)),
					slog.String("stack", string(debug.Stack())),
				)
				handlers.WriteInternalError(w, logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func panicValue(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}
