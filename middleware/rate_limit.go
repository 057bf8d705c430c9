package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// loginWindow tracks attempts from a single client IP within the current
// fixed window
type loginWindow struct {
	attempts  int
	expiresAt time.Time
}

// LoginLimiter throttles login attempts per client IP. The session layer
// has no lockout, so the limiter is the only brute-force brake.
type LoginLimiter struct {
	maxAttempts int
	window      time.Duration

	mu      sync.Mutex
	clients map[string]*loginWindow
}

// NewLoginLimiter creates a limiter allowing maxAttempts per window
func NewLoginLimiter(maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		clients:     make(map[string]*loginWindow),
	}
}

// Middleware rejects requests over the limit with 429
func (l *LoginLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts, try again later")
			}
			return next(c)
		}
	}
}

func (l *LoginLimiter) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Expired windows are pruned lazily on access
	for key, w := range l.clients {
		if now.After(w.expiresAt) {
			delete(l.clients, key)
		}
	}

	w, ok := l.clients[ip]
	if !ok {
		l.clients[ip] = &loginWindow{attempts: 1, expiresAt: now.Add(l.window)}
		return true
	}

	w.attempts++
	return w.attempts <= l.maxAttempts
}
