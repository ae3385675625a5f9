package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/mood-tracker/internal/config"
	"github.com/spec-kit/mood-tracker/internal/persistence"
	apperrors "github.com/spec-kit/mood-tracker/pkg/util/errorutil"
)

// LoginRateLimiter bounds login attempts per client IP using a Redis
// fixed-window counter. When Redis is unreachable requests pass through.
type LoginRateLimiter struct {
	redis  *persistence.Redis
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

// NewLoginRateLimiter constructs the limiter.
func NewLoginRateLimiter(redis *persistence.Redis, cfg config.RateLimitConfig, logger *zap.Logger) *LoginRateLimiter {
	return &LoginRateLimiter{redis: redis, cfg: cfg, logger: logger}
}

// Handle applies the rate limit for the current request.
func (l *LoginRateLimiter) Handle(c *fiber.Ctx) error {
	if l.redis == nil || l.redis.Client == nil || l.cfg.LoginAttempts <= 0 {
		return c.Next()
	}

	ctx := c.UserContext()
	key := fmt.Sprintf("ratelimit:login:%s", c.IP())

	count, err := l.redis.Client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return c.Next()
	}
	if count == 1 {
		if err := l.redis.Client.Expire(ctx, key, l.cfg.LoginWindow()).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	if count > int64(l.cfg.LoginAttempts) {
		return apperrors.NewRateLimited("too many login attempts; try again later")
	}
	return c.Next()
}
