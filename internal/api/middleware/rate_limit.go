package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"surat-portal/pkg/redis"
	"surat-portal/pkg/response"
)

type hitCounter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit allows at most limit requests per client IP within each fixed
// window of the named scope. Routes sharing a scope share the budget.
// Without Redis, or when Redis fails, requests pass.
func RateLimit(rdb *redis.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	if rdb == nil || limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return rateLimit(rdb, scope, limit, window)
}

func rateLimit(counter hitCounter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(math.Ceil(window.Seconds())))

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", scope, c.ClientIP())
		allowed, err := counter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", retryAfter)
			response.Error(c, http.StatusTooManyRequests, 10004, "Terlalu banyak percobaan, coba lagi nanti")
			c.Abort()
			return
		}

		c.Next()
	}
}
