package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vuongngo/reactive-forum-api/internal/config"
	"github.com/vuongngo/reactive-forum-api/internal/metrics"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// staleAfter is how long an idle limiter is kept
const staleAfter = 10 * time.Minute

// RateLimiter keeps one token bucket per caller. Authenticated callers are keyed by user id,
// anonymous ones by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	metrics  *metrics.Metrics
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// NewRateLimiter creates a limiter and starts its cleanup loop
func NewRateLimiter(cfg config.RateLimitConfig, m *metrics.Metrics) *RateLimiter {
	perMinute := cfg.RequestsPerMin
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		metrics:  m,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.cleanupLoop(interval)
	return rl
}

// Middleware rejects callers whose bucket is empty with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(rateLimitKey(c)) {
			rl.metrics.IncrementRateLimited()
			c.Header("Retry-After", "60")
			response.AbortWithError(c, http.StatusTooManyRequests, response.ErrCodeTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastAccessed = rl.now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastAccessed) > staleAfter {
			delete(rl.limiters, key)
		}
	}
}

// Size returns the number of tracked callers
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func rateLimitKey(c *gin.Context) string {
	if userID, ok := c.Get(ContextKeyUserID); ok {
		return fmt.Sprintf("user:%v", userID)
	}
	return "ip:" + c.ClientIP()
}
