package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotel-booking-engine/internal/model"

	"github.com/redis/go-redis/v9"
)

// CouponCache 總帳的短效讀取快取。僅用於非變動的驗證路徑；
// 兌換路徑一律繞過快取重讀總帳，寫入後立即失效。
type CouponCache interface {
	// Get 未命中時回傳 (nil, nil)
	Get(ctx context.Context, code string) (*model.Coupon, error)
	Set(ctx context.Context, coupon *model.Coupon) error
	Invalidate(ctx context.Context, code string) error
}

type RedisCouponCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCouponCache(client *redis.Client, ttl time.Duration) CouponCache {
	return &RedisCouponCache{client: client, ttl: ttl}
}

func (c *RedisCouponCache) key(code string) string {
	return fmt.Sprintf("coupon:%s", code)
}

func (c *RedisCouponCache) Get(ctx context.Context, code string) (*model.Coupon, error) {
	val, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var coupon model.Coupon
	if err := json.Unmarshal([]byte(val), &coupon); err != nil {
		return nil, fmt.Errorf("unmarshal cached coupon: %w", err)
	}
	return &coupon, nil
}

func (c *RedisCouponCache) Set(ctx context.Context, coupon *model.Coupon) error {
	data, err := json.Marshal(coupon)
	if err != nil {
		return fmt.Errorf("marshal coupon: %w", err)
	}
	return c.client.Set(ctx, c.key(coupon.Code), data, c.ttl).Err()
}

func (c *RedisCouponCache) Invalidate(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
