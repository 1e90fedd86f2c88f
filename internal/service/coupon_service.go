package service

import (
	"context"
	"fmt"

	"hotel-booking-engine/internal/cache"
	"hotel-booking-engine/internal/clock"
	"hotel-booking-engine/internal/ledger"
	"hotel-booking-engine/internal/model"
	apperrors "hotel-booking-engine/pkg/app_errors"
	"hotel-booking-engine/pkg/logger"

	"go.uber.org/zap"
)

// CouponService 折扣券驗證與兌換。兌換在每個折扣碼上嚴格序列化，
// 不同碼之間完全並行。
type CouponService interface {
	// Validate 非變動檢查；origin 用於來源限流
	Validate(ctx context.Context, code string, orderTotal int64, origin string) (int64, error)
	// Redeem 變動操作，至多消耗一次
	Redeem(ctx context.Context, code string, orderTotal int64, redeemedBy string) (int64, error)
}

type CouponServiceImpl struct {
	ledger  ledger.CouponLedger
	cache   cache.CouponCache
	locker  cache.CodeLocker
	limiter cache.RateLimiter
	clock   clock.Clock
}

func NewCouponService(
	couponLedger ledger.CouponLedger,
	couponCache cache.CouponCache,
	locker cache.CodeLocker,
	limiter cache.RateLimiter,
	clk clock.Clock,
) CouponService {
	return &CouponServiceImpl{
		ledger:  couponLedger,
		cache:   couponCache,
		locker:  locker,
		limiter: limiter,
		clock:   clk,
	}
}

func (s *CouponServiceImpl) Validate(ctx context.Context, code string, orderTotal int64, origin string) (int64, error) {
	normalized := model.NormalizeCode(code)
	if normalized == "" {
		return 0, apperrors.ErrEmptyCouponCode
	}

	if origin != "" {
		allowed, err := s.limiter.Allow(ctx, origin)
		if err != nil {
			// 限流器故障時放行，驗證本身不受影響
			logger.WithComponent("service").Warn("rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return 0, apperrors.ErrRateLimited
		}
	}

	coupon, err := s.cache.Get(ctx, normalized)
	if err != nil {
		logger.WithComponent("service").Warn("coupon cache read failed", zap.String("code", normalized), zap.Error(err))
		coupon = nil
	}
	if coupon == nil {
		coupon, err = s.ledger.FetchCoupon(ctx, normalized)
		if err != nil {
			return 0, err
		}
		if err := s.cache.Set(ctx, coupon); err != nil {
			logger.WithComponent("service").Warn("coupon cache write failed", zap.String("code", normalized), zap.Error(err))
		}
	}

	if coupon.IsUsed() {
		return 0, apperrors.ErrCouponAlreadyUsed
	}

	return model.Discount(coupon.Amount, orderTotal), nil
}

func (s *CouponServiceImpl) Redeem(ctx context.Context, code string, orderTotal int64, redeemedBy string) (int64, error) {
	normalized := model.NormalizeCode(code)
	if normalized == "" {
		return 0, apperrors.ErrEmptyCouponCode
	}

	// 鎖被占用時立即失敗讓呼叫端重試，不排隊等待
	token, ok, err := s.locker.Acquire(ctx, normalized)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperrors.ErrCouponBusy
	}
	defer func() {
		if err := s.locker.Release(ctx, normalized, token); err != nil {
			logger.WithComponent("service").Warn("release coupon lock failed", zap.String("code", normalized), zap.Error(err))
		}
	}()

	// 持鎖後繞過快取重讀總帳：快取可能落後於剛剛提交的兌換
	coupon, err := s.ledger.FetchCoupon(ctx, normalized)
	if err != nil {
		return 0, err
	}
	if coupon.IsUsed() {
		return 0, apperrors.ErrCouponAlreadyUsed
	}

	if err := s.ledger.MarkUsed(ctx, coupon, redeemedBy, s.clock.Now()); err != nil {
		// 回寫失敗時券保持未消耗，呼叫端可安全重試
		return 0, fmt.Errorf("%w: mark coupon %s used: %v", apperrors.ErrPersistenceFailed, normalized, err)
	}

	// 失效本地快取，後續驗證立即看到「已使用」
	if err := s.cache.Invalidate(ctx, normalized); err != nil {
		logger.WithComponent("service").Warn("invalidate coupon cache failed", zap.String("code", normalized), zap.Error(err))
	}

	return model.Discount(coupon.Amount, orderTotal), nil
}
