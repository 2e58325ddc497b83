package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
)

// Counter increments key inside a fixed window and returns the new count
// and the time left in the window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type Limiter struct {
	counter Counter
	limit   int64
	window  time.Duration
	log     *zap.Logger
}

// New returns a limiter. A nil counter disables limiting.
func New(counter Counter, limit int, window time.Duration, log *zap.Logger) *Limiter {
	return &Limiter{
		counter: counter,
		limit:   int64(limit),
		window:  window,
		log:     log,
	}
}

// Allow fails open: a counter error lets the request through.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l == nil || l.counter == nil {
		return true, 0
	}

	n, ttl, err := l.counter.Incr(ctx, key, l.window)
	if err != nil {
		l.log.Warn("rate limit counter unavailable", zap.String("key", key), zap.Error(err))
		return true, 0
	}
	return n <= l.limit, ttl
}

// Middleware throttles per client IP under the given scope.
func (l *Limiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + scope + ":" + c.ClientIP()

		ok, retry := l.Allow(c.Request.Context(), key)
		if !ok {
			secs := int(retry.Seconds())
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			httperr.Write(c, http.StatusTooManyRequests, "too_many_requests", "Muitas tentativas. Aguarde e tente novamente.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// --------------------------------------------------
// Redis
// --------------------------------------------------

type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter parses url (redis://...) and pings the server.
func NewRedisCounter(ctx context.Context, url string) (*RedisCounter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCounter{client: client}, nil
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return n, window, nil
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// key lost its expiry; start a new window
		_ = r.client.Expire(ctx, key, window).Err()
		ttl = window
	}
	return n, ttl, nil
}

func (r *RedisCounter) Close() error {
	return r.client.Close()
}
