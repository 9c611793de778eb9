package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkoval7/contacts-api/internal/logger"
)

// fixedWindowLua counts requests per key and sets the window expiry on the
// first hit, atomically.
const fixedWindowLua = `
local key = KEYS[1]
local window_ms = tonumber(ARGV[1])

local count = redis.call("INCR", key)
if count == 1 then
  redis.call("PEXPIRE", key, window_ms)
end

return count
`

// RateLimitMiddleware limits each authenticated user to limit requests per
// window, backed by a Redis counter. Requests over the limit get 429. Redis
// failures fail open: throttling is protection, not correctness.
func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	script := redis.NewScript(fixedWindowLua)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user := GetUserFromContext(ctx)
			if user == nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			key := fmt.Sprintf("ratelimit:user:%d", user.ID)
			count, err := script.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64()
			if err != nil {
				logger.Log.Errorw("rate limit check failed", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
