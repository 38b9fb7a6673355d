package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ravigill3969/resource-tracker/backend/utils"
	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 2 * time.Second

// GlobalRateLimiter allows maxRequests per client IP per window, counted in Redis.
func GlobalRateLimiter(redisClient redis.Cmdable, maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("rate_limit:site:%s", getIP(r))

			ctx, cancel := context.WithTimeout(r.Context(), redisOpTimeout)
			allowed, err := checkRateLimit(ctx, redisClient, key, maxRequests, window)
			cancel()

			if err != nil {
				log.Printf("Rate limiter unavailable: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "Internal Error")
				return
			}
			if !allowed {
				utils.RespondError(w, http.StatusTooManyRequests, "Too many requests, please wait and try again")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checkRateLimit counts the hit and reads the key's TTL in one transaction. A key left
// without a TTL (a failed Expire on an earlier hit) gets the window again here.
func checkRateLimit(ctx context.Context, redisClient redis.Cmdable, key string, maxRequests int, window time.Duration) (bool, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return false, err
	}

	if ttl.Val() < 0 {
		if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}

	return incr.Val() <= int64(maxRequests), nil
}
