package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	apperrors "github.com/Payphone-Digital/demonlist/internal/errors"
	"github.com/Payphone-Digital/demonlist/pkg/circuit"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/Payphone-Digital/demonlist/pkg/metrics"
	"github.com/Payphone-Digital/demonlist/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// localWindow is the in-process limiter used when Redis is disabled or
// its breaker is open. It keeps a sliding log of hits per key.
type localWindow struct {
	tokens   map[string][]time.Time
	duration time.Duration
	mu       sync.Mutex
}

func newLocalWindow(duration time.Duration) *localWindow {
	return &localWindow{
		tokens:   make(map[string][]time.Time),
		duration: duration,
	}
}

// cleanup drops hits at least one window old. A hit exactly duration ago
// has expired, the same instant its Redis counter key would.
func (w *localWindow) cleanup(now time.Time) {
	for key, tokens := range w.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) < w.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			w.tokens[key] = valid
		} else {
			delete(w.tokens, key)
		}
	}
}

// hit records one request for key and returns the count inside the window
// together with the time until the oldest hit expires.
func (w *localWindow) hit(key string, now time.Time) (int64, time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cleanup(now)
	tokens := append(w.tokens[key], now)
	w.tokens[key] = tokens
	return int64(len(tokens)), w.duration - now.Sub(tokens[0])
}

// RateLimitConfig describes one limited scope
type RateLimitConfig struct {
	Scope     string // metrics label, e.g. "global" or "login"
	KeyPrefix string
	Limit     int
	Window    time.Duration
}

type RateLimiter struct {
	config  RateLimitConfig
	redis   redis.Client
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	local   *localWindow
	now     func() time.Time
}

// NewRateLimiter counts in Redis through breaker when rdb is enabled and
// falls back to an in-process window otherwise.
func NewRateLimiter(config RateLimitConfig, rdb redis.Client, breaker *circuit.Breaker, m *metrics.Metrics) *RateLimiter {
	if rdb == nil {
		rdb = redis.Disabled()
	}
	return &RateLimiter{
		config:  config,
		redis:   rdb,
		breaker: breaker,
		metrics: m,
		local:   newLocalWindow(config.Window),
		now:     time.Now,
	}
}

// take records one hit for key
func (rl *RateLimiter) take(ctx context.Context, key string) (int64, time.Duration) {
	if rl.redis.IsEnabled() {
		var (
			count int64
			reset time.Duration
		)
		call := func(ctx context.Context) error {
			var err error
			count, reset, err = rl.redis.IncrWindow(ctx, rl.config.KeyPrefix+key, rl.config.Window)
			return err
		}

		var err error
		if rl.breaker != nil {
			err = rl.breaker.Execute(ctx, call)
		} else {
			err = call(ctx)
		}
		if err == nil {
			return count, reset
		}

		logger.GetLogger().Warn("Redis rate limit unavailable, using local window",
			zap.String("scope", rl.config.Scope),
			zap.Error(err))
	}

	return rl.local.hit(key, rl.now())
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		count, reset := rl.take(c.Request.Context(), ip)
		if reset < 0 {
			reset = 0
		}
		remaining := int64(rl.config.Limit) - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header(constants.HeaderRateLimitLimit, strconv.Itoa(rl.config.Limit))
		c.Header(constants.HeaderRateLimitRemaining, strconv.FormatInt(remaining, 10))
		c.Header(constants.HeaderRateLimitReset, fmt.Sprintf("%d", rl.now().Add(reset).Unix()))

		if count > int64(rl.config.Limit) {
			retryAfter := int(math.Ceil(reset.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}

			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("scope", rl.config.Scope),
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int64("current_requests", count),
				zap.Int("max_requests", rl.config.Limit),
				zap.Int("retry_after", retryAfter),
			)
			rl.metrics.RateLimited(rl.config.Scope)

			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
			abortWithError(c, apperrors.ErrRateLimited, gin.H{"retry_after": retryAfter})
			return
		}

		c.Next()
	}
}

// RateLimit limits every client IP to maxRequest requests per duration
// using only the in-process window.
func RateLimit(maxRequest int, duration time.Duration) gin.HandlerFunc {
	return NewRateLimiter(RateLimitConfig{
		Scope:     "global",
		KeyPrefix: constants.KeyRateLimitGlobal,
		Limit:     maxRequest,
		Window:    duration,
	}, nil, nil, nil).Middleware()
}
