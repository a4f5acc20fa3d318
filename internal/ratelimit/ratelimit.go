package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"oversound/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	keyPrefix = "oversound:ratelimit:"
	maxKeys   = 10000
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Local is an in-process token bucket per key.
type Local struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewLocal(rps float64, burst int) *Local {
	if burst < 1 {
		burst = 1
	}
	return &Local{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (l *Local) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow(), nil
}

// counter is the part of *redis.Client the shared limiter needs.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Redis is a fixed-window counter shared by every gateway instance. Each
// key may make limit requests per window.
type Redis struct {
	rdb    counter
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedis(rdb *redis.Client, limit int) *Redis {
	return newRedis(rdb, limit, time.Second)
}

func newRedis(rdb counter, limit int, window time.Duration) *Redis {
	if limit < 1 {
		limit = 1
	}
	return &Redis{rdb: rdb, limit: int64(limit), window: window, now: time.Now}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	slot := r.now().UnixNano() / int64(r.window)
	k := fmt.Sprintf("%s%s:%d", keyPrefix, key, slot)

	n, err := r.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", k, err)
	}
	if n == 1 {
		if err := r.rdb.Expire(ctx, k, 2*r.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", k, err)
		}
	}
	return n <= r.limit, nil
}

// Middleware rejects callers over the limit with 429. A limiter error lets
// the request through.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, err := l.Allow(c.Request.Context(), ip)
		if err != nil {
			slog.Warn("Rate limiter unavailable, allowing request", "ip", ip, "error", err)
			c.Next()
			return
		}
		if !ok {
			metrics.RecordRateLimited()
			slog.Info("Rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
