package middleware

import (
	"fmt"

	"blog-cms/helper"
	"blog-cms/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "blogcms:ratelimit"

type RateLimitConfig struct {
	// Rate uses the limiter format, e.g. "20-M" for 20 per minute.
	Rate string
	// Redis shares counters between instances; nil keeps them in memory.
	Redis *redis.Client
}

// RateLimit throttles by client IP and route. It is mounted on the login and
// signup routes to slow down credential guessing.
func RateLimit(cfg RateLimitConfig, httpHelper *helper.HTTPHelper, metrics *Metrics, log logger.Logger) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", cfg.Rate, err)
	}

	var store limiter.Store
	if cfg.Redis != nil {
		store, err = sredis.NewStoreWithOptions(cfg.Redis, limiter.StoreOptions{
			Prefix:   rateLimitPrefix,
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	}

	return mgin.NewMiddleware(
		limiter.New(store, rate),
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return c.ClientIP() + "|" + c.FullPath()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			if metrics != nil {
				metrics.rateLimited.Inc()
			}
			httpHelper.SendTooManyRequests(c, "Too many requests, try again later")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// Fail open when the store is unreachable.
			log.Warn("rate limiter unavailable", "err", err)
			c.Next()
		}),
	), nil
}
