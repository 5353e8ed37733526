package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/logging"
)

// RateLimitConfig bounds how many requests one client may make per window.
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
}

// Quota is the outcome of counting one request.
type Quota struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// RateLimiter counts requests per client in fixed windows. Counters live in
// Redis so every server process shares them.
type RateLimiter struct {
	redis  redis.Cmdable
	config RateLimitConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewRateLimiter creates a limiter over client.
func NewRateLimiter(client redis.Cmdable, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  client,
		config: config,
		now:    time.Now,
		logger: logging.OrNop(logger),
	}
}

// NewInferenceRateLimiter limits the routes that call the inference service.
// All of them draw from the same per-client budget.
func NewInferenceRateLimiter(client redis.Cmdable, limit int, window time.Duration, prefix string, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(client, RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: prefix + "inference",
	}, logger)
}

// Middleware rejects a client's request with 429 once its budget for the
// window is spent. A Redis failure lets the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		quota, err := rl.Take(c.Request.Context(), c.ClientIP())
		if err != nil {
			rl.logger.Warn("rate limit check failed, allowing request",
				zap.String("client", c.ClientIP()), zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(quota.Reset.Unix(), 10))

		if !quota.Allowed {
			wait := max(int(quota.Reset.Sub(rl.now()).Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(wait))
			rl.logger.Info("inference request throttled", zap.String("client", c.ClientIP()), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: fmt.Sprintf("at most %d analysis requests per %v, try again in %ds", rl.config.Limit, rl.config.Window, wait),
			})
			return
		}

		c.Next()
	}
}

// Take counts one request from client in the current window.
func (rl *RateLimiter) Take(ctx context.Context, client string) (Quota, error) {
	start := rl.now().Truncate(rl.config.Window)
	reset := start.Add(rl.config.Window)
	key := rl.config.KeyPrefix + ":" + client + ":" + strconv.FormatInt(start.Unix(), 10)

	var count *redis.IntCmd
	_, err := rl.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, reset)
		return nil
	})
	if err != nil {
		return Quota{}, fmt.Errorf("failed to count request: %w", err)
	}

	used := int(count.Val())
	return Quota{
		Allowed:   used <= rl.config.Limit,
		Remaining: max(rl.config.Limit-used, 0),
		Reset:     reset,
	}, nil
}
