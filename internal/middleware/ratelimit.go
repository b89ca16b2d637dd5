package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the fixed window length
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window
	RateLimitMaxRequests = 120
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked after exceeding the window
	BlockedIPDuration = 15 * time.Minute
)

// RedisRateLimiter is a fixed-window per-IP counter shared by all instances.
type RedisRateLimiter struct {
	rdb *redis.Client
	ips clientip.Resolver
}

func NewRedisRateLimiter(rdb *redis.Client, ips clientip.Resolver) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, ips: ips}
}

// Handler counts requests per IP and blocks an IP that exceeds the window.
// Redis failures fail open.
func (l *RedisRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := l.ips.ClientIP(r)

		blockedKey := BlockedIPKeyPrefix + ip
		if n, err := l.rdb.Exists(ctx, blockedKey).Result(); err == nil && n > 0 {
			writeTooMany(w, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
			return
		}

		key := RateLimitKeyPrefix + ip
		n, err := l.rdb.Incr(ctx, key).Result()
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("rate limit counter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if n == 1 {
			// First request opens the window
			l.rdb.Expire(ctx, key, RateLimitWindow)
		}

		count := int(n)
		if count > RateLimitMaxRequests {
			if err := l.rdb.Set(ctx, blockedKey, "1", BlockedIPDuration).Err(); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("ip", ip).Msg("failed to block ip")
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Rate limit exceeded. Please try again later.","retry_after":%d}`, int(BlockedIPDuration.Seconds()))))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(RateLimitMaxRequests-count))
		next.ServeHTTP(w, r)
	})
}
