package ratelimit

import (
	"context"
	"strconv"
	"time"

	"bharat-seva/internal/common/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow prunes, counts and conditionally records in one round trip.
// KEYS[1] window key; ARGV: now ms, cutoff ms, limit, member, window ms.
// Returns {allowed, count}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[2])
local count = redis.call('ZCARD', key)
if count >= limit then
  return {0, count}
end
redis.call('ZADD', key, ARGV[1], ARGV[4])
redis.call('PEXPIRE', key, ARGV[5])
return {1, count + 1}
`)

// RedisLimiter shares windows across processes through sorted sets.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	now    Clock
	logger logger.Logger
}

func NewRedisLimiter(client *redis.Client, prefix string, clock Clock, log logger.Logger) *RedisLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		now:    clock,
		logger: log.With(map[string]interface{}{"component": "ratelimit.redis"}),
	}
}

func (l *RedisLimiter) CheckAndRecord(ctx context.Context, key string, limitPerMinute int) Decision {
	nowMs := l.now().UnixMilli()
	cutoff := nowMs - Window.Milliseconds()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()

	res, err := slidingWindow.Run(ctx, l.client, []string{l.prefix + key},
		nowMs, cutoff, limitPerMinute, member, Window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		// fail open
		l.logger.WithError(err).Warn("rate window check failed, admitting request", map[string]interface{}{
			"key": key,
		})
		return Decision{Allowed: true, Remaining: limitPerMinute}
	}

	if res[0] == 0 {
		return Decision{Allowed: false, Remaining: 0, RetryAfter: Window}
	}
	return Decision{Allowed: true, Remaining: limitPerMinute - int(res[1])}
}
