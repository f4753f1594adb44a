package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/issuekeeper/internal/apperr"
	"github.com/iudanet/issuekeeper/internal/server/handlers"
)

// ErrRateLimitExceeded is returned by CheckLimit when the window is full.
var ErrRateLimitExceeded = apperr.New(apperr.KindRateLimited, "Rate limit exceeded. Please try again later.")

// RateLimiter представляет rate limiter на основе скользящего окна (sliding window).
// Для каждого ключа хранится упорядоченный список времени запросов за последние window.
type RateLimiter struct {
	windows  map[string][]time.Time
	logger   *slog.Logger
	now      func() time.Time
	cleanupC chan struct{}
	stopOnce sync.Once
	max      int
	window   time.Duration
	mu       sync.Mutex
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithClock overrides the limiter's time source.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// NewRateLimiter создает новый rate limiter
// max - максимальное количество запросов в окне
// window - длина скользящего окна (например, 15 минут)
func NewRateLimiter(max int, window time.Duration, logger *slog.Logger, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		windows:  make(map[string][]time.Time),
		max:      max,
		window:   window,
		logger:   logger,
		now:      time.Now,
		cleanupC: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	// Запускаем периодическую очистку неактивных ключей
	go rl.cleanup()

	return rl
}

// Max returns the number of requests admitted per window.
func (rl *RateLimiter) Max() int {
	return rl.max
}

// Window returns the length of the sliding window.
func (rl *RateLimiter) Window() time.Duration {
	return rl.window
}

// cleanup периодически удаляет ключи без запросов в текущем окне
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupIdle()
		case <-rl.cleanupC:
			return
		}
	}
}

func (rl *RateLimiter) cleanupIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, stamps := range rl.windows {
		if len(rl.prune(stamps, now)) == 0 {
			delete(rl.windows, key)
		}
	}
}

// Stop останавливает cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.cleanupC)
	})
}

// prune returns the suffix of stamps newer than now - window.
// stamps is ordered, so the first recent entry ends the scan.
func (rl *RateLimiter) prune(stamps []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	for i, ts := range stamps {
		if ts.After(cutoff) {
			return stamps[i:]
		}
	}
	return stamps[:0]
}

// CheckLimit records a request for key, or returns ErrRateLimitExceeded
// without recording it when the window already holds max requests.
func (rl *RateLimiter) CheckLimit(key string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.prune(rl.windows[key], now)

	if len(recent) >= rl.max {
		rl.windows[key] = recent
		return ErrRateLimitExceeded
	}

	rl.windows[key] = append(recent, now)
	return nil
}

// Remaining returns how many requests key may still make in the current window.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	remaining := rl.max - len(rl.prune(rl.windows[key], rl.now()))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetTime returns when the oldest request of key leaves the window.
func (rl *RateLimiter) ResetTime(key string) time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.prune(rl.windows[key], now)
	if len(recent) == 0 {
		return now.Add(rl.window)
	}
	return recent[0].Add(rl.window)
}

// Reset clears the request history of key.
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.windows, key)
}

// RateLimitMiddleware создает middleware для ограничения частоты запросов по IP
// Проверка выполняется до любой дорогой работы (хеширование, БД)
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			err := limiter.CheckLimit(key)
			setRateLimitHeaders(w, limiter, key)

			if err != nil {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"method", r.Method,
					"path", r.URL.Path,
				)

				handlers.WriteError(w, logger, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, limiter *RateLimiter, key string) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limiter.Max()))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(resetSeconds(limiter.ResetTime(key)), 10))
}

// resetSeconds округляет момент сброса вверх до целой секунды:
// клиент, который ждет до этого значения, не попадет в еще открытое окно.
func resetSeconds(t time.Time) int64 {
	return (t.UnixMilli() + 999) / 1000
}

// getClientIP извлекает IP адрес клиента из запроса
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси
func getClientIP(r *http.Request) string {
	// Проверяем X-Forwarded-For (для прокси/load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Берем первый IP из списка (реальный клиент)
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	// Проверяем X-Real-IP
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr без порта: иначе каждое соединение получит свой лимит
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
