package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kidlab/study-booking/internal/config"
)

// tokenBucketScript refills and debits one bucket atomically.  Running it
// as a Lua script keeps check-and-decrement race-free across server
// instances sharing the same Redis.  Returns {allowed, remaining, retry_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])
	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals * refill_tokens)
			last_refill = last_refill + intervals * interval_ms
		end
	end

	local allowed = 0
	local retry_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)
	return { allowed, tokens, retry_ms }
`)

// NewTokenBucket returns a distributed token-bucket rate limiter backed
// by Redis, guarding the booking and login endpoints.  With rate limiting
// disabled, Redis unavailable, or a Redis error mid-request it lets the
// request through: losing a throttle beats refusing bookings.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}

			vals, err := tokenBucketScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("ratelimit: redis error for key=%s: %v", key, err)
				}
				return next(c)
			}
			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("ratelimit: unexpected script result for key=%s: %#v", key, vals)
				}
				return next(c)
			}
			allowed := toInt64(arr[0]) == 1
			remaining := toInt64(arr[1])
			retryMs := toInt64(arr[2])

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				h.Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error { return next(c) }
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// rateKey builds the bucket key from the configured strategy.  Booking
// requests are anonymous, so strategies involving "user" fall back to the
// client IP via "anon" unless JWT middleware ran earlier in the chain.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := "anon"
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		uid = v
	}
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
