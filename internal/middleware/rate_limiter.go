package middleware

import (
	"net/http"

	"github.com/saadmalik-333/business-insight-pos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "ratelimit"

// RateLimiter limits requests per client IP. formatted uses ulule's syntax
// ("1000-M" = 1000 per minute). With a Redis client the counters are shared by
// every instance; without one (or if the Redis store cannot be built) each
// process counts on its own.
func RateLimiter(formatted string, rdb *redis.Client) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	var store limiter.Store
	if rdb != nil {
		store, err = sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
			Prefix:   rateLimitPrefix,
			MaxRetry: 3,
		})
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter: redis store unavailable, using in-memory store")
			store = nil
		}
	}
	if store == nil {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	}

	return mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// Fail open: a limiter outage must not take checkout down.
			log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("rate limiter error")
			c.Next()
		}),
	), nil
}
