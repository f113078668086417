package middleware

import (
	"net/http"
	"strconv"

	"ecopark/internal/apperror"
	"ecopark/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewLimiter builds a limiter from a formatted rate such as "10-M". Counters
// live in Redis when rdb is set so every API instance shares them.
func NewLimiter(rate string, rdb *redis.Client) (*limiter.Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}

	store := memory.NewStore()
	if rdb != nil {
		store, err = sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
			Prefix: "ecopark:limiter",
		})
		if err != nil {
			return nil, err
		}
	}
	return limiter.New(store, parsed), nil
}

// RateLimit rejects clients that exceed the limiter's rate, keyed by client IP.
func RateLimit(instance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		lctx, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			logger.Log.WithError(err).Error("rate limiter unavailable")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			abortWith(c, apperror.New(apperror.ErrCodeTooManyRequests, "Too many requests, please try again later"))
			return
		}

		c.Next()
	}
}
