// ABOUTME: Rate limiting middleware with fixed-window counters
// ABOUTME: Provides per-endpoint rate limits keyed by session or IP

package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SessionCookieName is the anonymous advisory session cookie.
const SessionCookieName = "RTX_SESSION"

// bucket is one key's fixed window: requests remaining and when it resets.
type bucket struct {
	remaining int
	resetAt   time.Time
}

// RateLimiter enforces a maximum number of requests per fixed time window,
// with an independent bucket per key (session or IP).
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     int
	window    time.Duration
	lastSweep time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
	}
}

// Allow reports whether a request under key is within its limit. When
// denied, the returned duration is the time until the key's window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.maybeSweep(now)

	b, ok := rl.buckets[key]
	// The boundary instant belongs to the next window, so an expired
	// bucket never denies with retryAfter == 0.
	if !ok || !now.Before(b.resetAt) {
		rl.buckets[key] = &bucket{
			remaining: rl.limit - 1,
			resetAt:   now.Add(rl.window),
		}
		return true, 0
	}

	if b.remaining > 0 {
		b.remaining--
		return true, 0
	}
	return false, b.resetAt.Sub(now)
}

// maybeSweep drops expired buckets once per window so the map stays bounded
// by the number of keys active in the last two windows. Caller holds rl.mu.
func (rl *RateLimiter) maybeSweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	for key, b := range rl.buckets {
		if !now.Before(b.resetAt) {
			delete(rl.buckets, key)
		}
	}
	rl.lastSweep = now
}

// ClientIP derives a rate-limit key from the leftmost X-Forwarded-For entry,
// falling back to RemoteAddr. The header is only trustworthy behind a reverse
// proxy that overwrites it; a directly exposed listener lets clients choose
// their own key.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		candidate, _, _ := strings.Cut(xff, ",")
		candidate = strings.TrimSpace(candidate)
		if net.ParseIP(candidate) != nil {
			return "ip:" + candidate
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return "ip:" + host
	}
	return "ip:" + r.RemoteAddr
}

// SessionKey keys the limiter by the advisory session cookie when present,
// so a browser keeps one budget across IP changes. Cookieless callers fall
// back to ClientIP.
func SessionKey(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return "session:" + cookie.Value
	}
	return ClientIP(r)
}

// RateLimit enforces limiter on each request, keyed by keyFunc. A nil
// limiter or keyFunc disables enforcement, and an empty key passes through.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || keyFunc == nil {
				next(w, r)
				return
			}
			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			if allowed, retryAfter := limiter.Allow(key); !allowed {
				retrySeconds := int(math.Ceil(retryAfter.Seconds()))
				slog.Warn("Rate limit exceeded", "key", key, "path", r.URL.Path, "retry_after", retrySeconds)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retrySeconds))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error":       "Rate limit exceeded",
					"retry_after": retrySeconds,
				})
				return
			}

			next(w, r)
		}
	}
}
