package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitAlgorithm selects the limiting strategy
type RateLimitAlgorithm string

const (
	TokenBucket RateLimitAlgorithm = "token_bucket"
	FixedWindow RateLimitAlgorithm = "fixed_window"
)

// RateLimitType selects what the limit is keyed on
type RateLimitType string

const (
	RateLimitByIP   RateLimitType = "ip"
	RateLimitByUser RateLimitType = "user"
)

// RateLimitConfig configures one limiter instance
type RateLimitConfig struct {
	Limit     int
	Window    int // seconds
	Algorithm RateLimitAlgorithm
	Type      RateLimitType
}

// RateLimitResult reports a limiter decision
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   int64
	Limit     int
}

// RedisRateLimiter implements limiting over redis
type RedisRateLimiter struct {
	redis *redis.Client
}

// NewRedisRateLimiter creates a redis-backed limiter
func NewRedisRateLimiter(redisClient *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{redis: redisClient}
}

// Allow checks whether the request keyed by key may pass
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, config *RateLimitConfig) (*RateLimitResult, error) {
	switch config.Algorithm {
	case FixedWindow:
		return r.fixedWindow(ctx, key, config)
	default:
		return r.tokenBucket(ctx, key, config)
	}
}

// fixedWindow counts requests in the current window with INCR+EXPIRE
func (r *RedisRateLimiter) fixedWindow(ctx context.Context, key string, config *RateLimitConfig) (*RateLimitResult, error) {
	window := int64(config.Window)
	now := time.Now().Unix()
	windowStart := now - now%window
	redisKey := fmt.Sprintf("hms:ratelimit:fw:%s:%d", key, windowStart)

	count, err := r.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, err
	}
	if count == 1 {
		r.redis.Expire(ctx, redisKey, time.Duration(window)*time.Second)
	}

	remaining := config.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:   int(count) <= config.Limit,
		Remaining: remaining,
		ResetAt:   windowStart + window,
		Limit:     config.Limit,
	}, nil
}

// tokenBucket refills Limit tokens per Window via a small lua script so
// the read-modify-write is atomic.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local bucket = redis.call('HMGET', key, 'tokens', 'updated')
local tokens = tonumber(bucket[1])
local updated = tonumber(bucket[2])

if tokens == nil then
  tokens = limit
  updated = now
end

local rate = limit / window
tokens = math.min(limit, tokens + (now - updated) * rate)

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call('HMSET', key, 'tokens', tokens, 'updated', now)
redis.call('EXPIRE', key, window * 2)

return {allowed, math.floor(tokens)}
`)

func (r *RedisRateLimiter) tokenBucket(ctx context.Context, key string, config *RateLimitConfig) (*RateLimitResult, error) {
	redisKey := fmt.Sprintf("hms:ratelimit:tb:%s", key)
	now := time.Now().Unix()

	res, err := tokenBucketScript.Run(ctx, r.redis, []string{redisKey},
		config.Limit, config.Window, now).Int64Slice()
	if err != nil {
		return nil, err
	}

	return &RateLimitResult{
		Allowed:   res[0] == 1,
		Remaining: int(res[1]),
		ResetAt:   now + int64(config.Window),
		Limit:     config.Limit,
	}, nil
}

// RateLimitMiddleware enforces the given config on a route. On redis
// failure the request passes; limiting is protection, not a dependency.
func RateLimitMiddleware(limiter *RedisRateLimiter, config *RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(c, config)

		result, err := limiter.Allow(c.Request.Context(), key, config)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context, config *RateLimitConfig) string {
	switch config.Type {
	case RateLimitByUser:
		if id := CurrentUserID(c); id != 0 {
			return fmt.Sprintf("user:%d:%s", id, c.FullPath())
		}
		fallthrough
	default:
		return fmt.Sprintf("ip:%s:%s", c.ClientIP(), c.FullPath())
	}
}
