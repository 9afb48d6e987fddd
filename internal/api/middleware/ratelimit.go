package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ──────────────────────────────────────────────────────────────────────────────
// Token bucket
// ──────────────────────────────────────────────────────────────────────────────

const (
	minBurst     = 10
	staleAfter   = 10 * time.Minute
	sweepEvery   = 5 * time.Minute
	limitMessage = "too many requests, please slow down"
)

// bucket is the token bucket of one client key.
type bucket struct {
	mu       sync.Mutex
	tokens   float64
	lastSeen time.Time
}

// limiter hands out tokens per client key. Buckets start full and refill
// at rate tokens per second up to burst.
type limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   float64
	now     func() time.Time
}

// newLimiter builds a limiter for rps requests per second. A burst of zero
// means max(minBurst, rps).
func newLimiter(rps, burst int, now func() time.Time) *limiter {
	if burst <= 0 {
		burst = max(minBurst, rps)
	}
	if now == nil {
		now = time.Now
	}
	return &limiter{
		buckets: make(map[string]*bucket),
		rate:    float64(rps),
		burst:   float64(burst),
		now:     now,
	}
}

// take deducts one token for key and reports whether one was available.
func (l *limiter) take(key string) bool {
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, lastSeen: now}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = min(l.burst, b.tokens+now.Sub(b.lastSeen).Seconds()*l.rate)
	b.lastSeen = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets idle since before cutoff and returns how many went.
// A dropped bucket comes back full, which an idle client would have
// refilled to anyway.
func (l *limiter) sweep(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, b := range l.buckets {
		b.mu.Lock()
		idle := b.lastSeen.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// ──────────────────────────────────────────────────────────────────────────────
// Middleware
// ──────────────────────────────────────────────────────────────────────────────

// RateLimitMiddleware limits each client IP to rps requests per second with
// bursts of up to burst requests. Over the limit the request is answered
// 429 with the ERR_RATE_LIMITED envelope. Every call builds an independent
// limiter, so route groups given separate middlewares are counted apart.
func RateLimitMiddleware(rps, burst int) gin.HandlerFunc {
	l := newLimiter(rps, burst, nil)

	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for range ticker.C {
			l.sweep(l.now().Add(-staleAfter))
		}
	}()

	return rateLimit(l)
}

func rateLimit(l *limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.take(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   limitMessage,
				"code":    "ERR_RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
