package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter 固定視窗計數器，抑制折扣碼的列舉與暴力嘗試
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) RateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window, prefix: prefix}
}

// limiterScript INCR 與首個請求的 EXPIRE 必須原子執行，
// 否則計數器可能永不過期
var limiterScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return count
`)

func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := fmt.Sprintf("%s:%s", r.prefix, key)
	count, err := limiterScript.Run(ctx, r.client, []string{fullKey}, r.window.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return count <= r.limit, nil
}
