package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"canvasclub/cache"
	"canvasclub/models"
)

const (
	RateLimit       = 10
	RateLimitWindow = 1 * time.Minute
)

// RateLimiter is a redis fixed-window limiter keyed on client IP, used on the
// public contact form. Redis being down fails open.
func RateLimiter(redisClient *cache.Redis) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

		count, err := redisClient.Incr(key)
		if err != nil {
			c.Next()
			return
		}

		if count == 1 {
			_ = redisClient.Expire(key, RateLimitWindow)
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", RateLimit))
		if count > RateLimit {
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Message: "Rate limit exceeded. Try again later.",
			})
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", RateLimit-int(count)))
		c.Next()
	}
}
