// Package ratelimit counts attempts per key in Redis using fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowScript increments the counter and starts the window on the first hit.
// It returns the new count and the remaining window in milliseconds.
var windowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

type Limiter struct {
	rdb    redis.Scripter
	prefix string
	limit  int
	window time.Duration
}

func New(rdb redis.Scripter, prefix string, limit int, window time.Duration) *Limiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow records one attempt for key. When the limit is exceeded it returns
// false and how long until the window resets.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := windowScript.Run(ctx, l.rdb, []string{l.key(key)}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("rate limit %s: unexpected script result %v", key, res)
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	if count > int64(l.limit) {
		return false, RetryAfter(ttl), nil
	}

	return true, 0, nil
}

func (l *Limiter) key(key string) string {
	return l.prefix + ":" + key
}

// RetryAfter rounds d up to whole seconds, never below one.
func RetryAfter(d time.Duration) time.Duration {
	secs := (d + time.Second - 1) / time.Second
	if secs < 1 {
		secs = 1
	}
	return secs * time.Second
}
