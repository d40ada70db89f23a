package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const loginRateWindow = time.Minute

// Counter is the subset of the redis client used by the rate limiter.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// LoginRateLimiter allows limit login attempts per client IP per minute using
// a redis counter. With no client, or when redis fails, requests pass through.
func LoginRateLimiter(client Counter, limit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil || limit <= 0 {
			return c.Next()
		}

		ctx := c.UserContext()
		key := fmt.Sprintf("rate_limit:login:%s", c.IP())

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Warn().Err(err).Msg("login rate limiter unavailable")
			return c.Next()
		}

		// First hit opens the window.
		if count == 1 {
			if err := client.Expire(ctx, key, loginRateWindow).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("set rate limit expiry")
			}
		}

		if count > int64(limit) {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(loginRateWindow.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"detail": "Too many login attempts. Try again in a minute.",
			})
		}

		return c.Next()
	}
}
