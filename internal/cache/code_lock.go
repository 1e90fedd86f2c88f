package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CodeLocker 以折扣碼為鍵的諮詢鎖。TTL 限制鎖洩漏的最壞情況；
// 已被持有時立即失敗，由呼叫端決定是否重試，避免排隊飢餓。
type CodeLocker interface {
	// Acquire 成功時回傳持有者 token；鎖被占用時 ok 為 false
	Acquire(ctx context.Context, code string) (token string, ok bool, err error)
	Release(ctx context.Context, code, token string) error
}

type RedisCodeLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCodeLocker(client *redis.Client, ttl time.Duration) CodeLocker {
	return &RedisCodeLocker{client: client, ttl: ttl}
}

func (l *RedisCodeLocker) key(code string) string {
	return fmt.Sprintf("coupon:lock:%s", code)
}

func (l *RedisCodeLocker) Acquire(ctx context.Context, code string) (string, bool, error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, l.key(code), token, l.ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// releaseScript 只釋放自己持有的鎖，避免 TTL 過期後誤刪他人的鎖
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

func (l *RedisCodeLocker) Release(ctx context.Context, code, token string) error {
	return releaseScript.Run(ctx, l.client, []string{l.key(code)}, token).Err()
}
