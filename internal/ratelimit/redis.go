package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements a per-client sliding window rate limiter using
// Redis. Uses a sorted set where each member is a unique request ID with a
// timestamp score. A Lua script atomically cleans expired entries, checks
// the count, and adds new entries, so concurrent instances see one shared
// window per client.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	window time.Duration
	limit  int
	logger *slog.Logger
}

// Lua script for atomic sliding window rate limiting.
// 1. Remove entries older than the window
// 2. Count remaining entries
// 3. If under the limit, add a new entry and return 1 (allowed)
// 4. If at/over the limit, return 0 (denied)
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

-- Remove entries outside the sliding window
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

-- Count current entries in the window
local count = redis.call('ZCARD', key)

if count < limit then
    -- Under the limit: add this request and allow
    redis.call('ZADD', key, now, member)
    -- Set TTL so the key auto-expires after the window
    -- (EXPIRE wants whole seconds, windows may be fractional)
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return 1
else
    -- At the limit: deny
    return 0
end
`)

// NewRedis connects to Redis and returns a limiter allowing burst requests
// per sliding window of burst x interval. That window keeps the sustained
// rate at one request per interval, same as the local token bucket.
func NewRedis(ctx context.Context, redisURL string, interval time.Duration, burst int, logger *slog.Logger) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisLimiter{
		client: client,
		script: slidingWindowScript,
		window: time.Duration(burst) * interval,
		limit:  burst,
		logger: logger,
	}, nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

func rlKey(key string) string {
	return fmt.Sprintf("rl:%s", key)
}

// Allow reports whether a request from this client is within the rate
// limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	now := time.Now().UnixMilli()
	member := fmt.Sprintf("%d:%d", now, time.Now().UnixNano()%10000) // unique member

	result, err := l.script.Run(ctx, l.client, []string{rlKey(key)},
		now, l.window.Milliseconds(), l.limit, member,
	).Int64()
	if err != nil {
		l.logger.Error("rate limiter script failed", "error", err, "client", key)
		return true // Fail open — allow the request if Redis fails
	}

	if result == 0 {
		l.logger.Debug("rate limited",
			"client", key,
			"limit", l.limit,
		)
		return false
	}

	return true
}
