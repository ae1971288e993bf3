package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window Redis counter. Windows are independent per
// key, so one caller hitting the limit never throttles another.
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Handler limits requests per authenticated user, falling back to the client
// IP on unauthenticated routes.
func (r *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if user := UserFromCtx(c); user != nil {
			key = user.Email
		}

		redisKey := fmt.Sprintf("%s:%s", r.prefix, key)
		count, err := r.rdb.Incr(c.Context(), redisKey).Result()
		if err != nil {
			// Redis being down must not take the API with it.
			return c.Next()
		}
		if count == 1 {
			r.rdb.Expire(c.Context(), redisKey, r.window)
		}
		if count > int64(r.limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": "rate limit exceeded"})
		}
		return c.Next()
	}
}
