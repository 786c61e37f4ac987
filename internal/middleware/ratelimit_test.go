package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/vuongngo/reactive-forum-api/internal/config"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestMetrics()
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 1, Burst: 2, CleanupInterval: time.Hour}, m)
	defer rl.Stop()

	router := gin.New()
	router.GET("/limited", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)

	limited := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, response.ErrCodeTooManyRequests, decodeError(t, limited).Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	// other callers have their own bucket
	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RateLimitedTotal))
	assert.Equal(t, 2, rl.Size())
}

func TestRateLimiter_CleanupDropsStaleEntries(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 60, Burst: 1, CleanupInterval: time.Hour}, nil)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.allow("ip:old")

	rl.now = func() time.Time { return now.Add(staleAfter + time.Minute) }
	rl.allow("ip:new")
	rl.cleanup()

	assert.Equal(t, 1, rl.Size())
}
