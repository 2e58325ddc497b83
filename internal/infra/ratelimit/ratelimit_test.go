package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memCounter) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], window, nil
}

func router(l *Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", l.Middleware("login"), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(r http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareBlocksAfterLimit(t *testing.T) {
	l := New(&memCounter{counts: map[string]int64{}}, 2, time.Minute, zap.NewNop())
	r := router(l)

	assert.Equal(t, http.StatusOK, post(r).Code)
	assert.Equal(t, http.StatusOK, post(r).Code)

	w := post(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "too_many_requests")
}

func TestFailsOpen(t *testing.T) {
	l := New(&memCounter{err: errors.New("connection refused")}, 1, time.Minute, zap.NewNop())
	r := router(l)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r).Code)
	}
}

func TestDisabled(t *testing.T) {
	l := New(nil, 1, time.Minute, zap.NewNop())
	ok, _ := l.Allow(context.Background(), "k")
	assert.True(t, ok)

	var nilLimiter *Limiter
	ok, _ = nilLimiter.Allow(context.Background(), "k")
	assert.True(t, ok)
}
