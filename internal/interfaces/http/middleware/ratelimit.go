package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// RateLimiter decides whether a request from key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo contains current rate limit state for a given key.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	// RetryAfter is the wait until the next token, zero when allowed.
	RetryAfter time.Duration
}

// ─────────────────────────────────────────────────────────────────────────────
// Token bucket
// ─────────────────────────────────────────────────────────────────────────────

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// TokenBucketLimiter implements RateLimiter with one token bucket per key.
type TokenBucketLimiter struct {
	rate  float64
	burst int
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*tokenBucket

	idleAfter time.Duration
	stop      chan struct{}
	stopOnce  sync.Once
}

// LimiterOption configures a TokenBucketLimiter.
type LimiterOption func(*TokenBucketLimiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) LimiterOption {
	return func(l *TokenBucketLimiter) { l.now = now }
}

// WithCleanup evicts buckets idle for longer than idle, checking every
// interval.  Stop ends the sweeper.
func WithCleanup(interval, idle time.Duration) LimiterOption {
	return func(l *TokenBucketLimiter) {
		l.idleAfter = idle
		if interval > 0 {
			go l.cleanupLoop(interval)
		}
	}
}

// NewTokenBucketLimiter refills rate tokens per second up to burst.
func NewTokenBucketLimiter(rate float64, burst int, opts ...LimiterOption) *TokenBucketLimiter {
	l := &TokenBucketLimiter{
		rate:    rate,
		burst:   burst,
		now:     time.Now,
		buckets: make(map[string]*tokenBucket),
		stop:    make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Allow takes one token from key's bucket if one is available.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(l.burst), lastRefill: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.lastRefill).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(l.burst), b.tokens+elapsed*l.rate)
	}
	b.lastRefill = now

	info := RateLimitInfo{Limit: l.burst}
	if b.tokens >= 1 {
		b.tokens--
		info.Remaining = int(b.tokens)
		return true, info
	}
	info.RetryAfter = time.Duration((1 - b.tokens) / l.rate * float64(time.Second))
	return false, info
}

func (l *TokenBucketLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

// cleanup drops buckets not touched within the idle window.
func (l *TokenBucketLimiter) cleanup() {
	threshold := l.now().Add(-l.idleAfter)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastRefill.Before(threshold) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the cleanup goroutine.  Safe to call more than once.
func (l *TokenBucketLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// BucketCount returns the number of tracked keys.
func (l *TokenBucketLimiter) BucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// ClientIP returns the host part of RemoteAddr.  Proxy headers are resolved
// earlier by chi's RealIP.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimit returns middleware that rejects requests over the limit with
// 429 and a Retry-After header.
func RateLimit(limiter RateLimiter, logger logging.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("ratelimit")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientIP(r)
			allowed, info := limiter.Allow(key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			retry := int(math.Ceil(info.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			logger.WithContext(r.Context()).Debug("request rate limited", logging.String("client", key))

			code := errors.ErrCodeRateLimited
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(errors.HTTPStatusForCode(code))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"code":       code.String(),
					"message":    errors.DefaultMessageForCode(code),
					"request_id": logging.RequestIDFromContext(r.Context()),
				},
			})
		})
	}
}

//Personal.AI order the ending
