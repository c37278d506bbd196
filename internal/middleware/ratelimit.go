package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/pkg/logger"
)

// Limiter counts requests per key inside a fixed window. It reports whether
// the request is allowed and how many requests remain.
type Limiter interface {
	RateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	// Max requests per window
	Max int
	// Window duration
	Window time.Duration
	// Key generator function
	KeyGenerator func(*fiber.Ctx) string
	// Skip function
	Skip func(*fiber.Ctx) bool
	// Custom limit exceeded handler
	LimitReached fiber.Handler
}

// ClientIPKey keys requests by client address
func ClientIPKey(c *fiber.Ctx) string {
	return "ip:" + c.IP()
}

// DefaultRateLimitConfig returns default rate limit config. Requests are
// counted per user once RequireJWT has run, per client address before.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Max:    600,
		Window: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := GetUserID(c); ok {
				return "user:" + userID.String()
			}
			return ClientIPKey(c)
		},
		Skip: HealthSkipper,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "Too Many Requests",
				"message": "Rate limit exceeded. Please try again later.",
			})
		},
	}
}

// RateLimitMiddleware limits requests with a Redis backed counter
type RateLimitMiddleware struct {
	limiter Limiter
	config  RateLimitConfig
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter Limiter, config ...RateLimitConfig) *RateLimitMiddleware {
	cfg := DefaultRateLimitConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return &RateLimitMiddleware{
		limiter: limiter,
		config:  cfg,
	}
}

// Handler returns the rate limit handler
func (m *RateLimitMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.config.Skip != nil && m.config.Skip(c) {
			return c.Next()
		}

		window := m.config.Window
		now := time.Now()
		bucket := now.Unix() / int64(window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%d", m.config.KeyGenerator(c), bucket)
		reset := (bucket + 1) * int64(window.Seconds())

		allowed, remaining, err := m.limiter.RateLimit(c.UserContext(), key, int64(m.config.Max), window)
		if err != nil {
			// Fail open when Redis is unreachable
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(m.config.Max))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

		if !allowed {
			c.Set("X-RateLimit-Remaining", "0")
			c.Set("Retry-After", strconv.FormatInt(reset-now.Unix(), 10))
			return m.config.LimitReached(c)
		}

		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		return c.Next()
	}
}
