package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/pcbuilder/pkg/response"
)

// window counts requests for one client in a fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window, per-client request limiter.
type Limiter struct {
	max    int
	period time.Duration

	mu      sync.Mutex
	clients map[string]*window
	swept   time.Time
}

func NewLimiter(max int, period time.Duration) *Limiter {
	return &Limiter{max: max, period: period, clients: map[string]*window{}, swept: time.Now()}
}

// Allow records one request for key and reports whether it is within budget.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Expired windows are dropped at most once per period.
	if now.Sub(l.swept) > l.period {
		for k, w := range l.clients {
			if now.After(w.resetAt) {
				delete(l.clients, k)
			}
		}
		l.swept = now
	}

	w, ok := l.clients[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.clients[key] = w
	}
	w.count++
	return w.count <= l.max
}

// RateLimit limits each client IP to max requests per period. A max ≤ 0
// disables the limit.
func RateLimit(max int, period time.Duration) func(http.Handler) http.Handler {
	if max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := NewLimiter(max, period)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(ClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP prefers the first X-Forwarded-For hop, then RemoteAddr without
// the port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
