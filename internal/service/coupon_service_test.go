package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hotel-booking-engine/internal/clock"
	"hotel-booking-engine/internal/mocks"
	"hotel-booking-engine/internal/model"
	"hotel-booking-engine/internal/service"
	apperrors "hotel-booking-engine/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

type couponFixture struct {
	ledger  *mocks.CouponLedgerMock
	cache   *mocks.CouponCacheMock
	locker  *mocks.CodeLockerMock
	limiter *mocks.RateLimiterMock
	svc     service.CouponService
}

func newCouponFixture() *couponFixture {
	f := &couponFixture{
		ledger:  mocks.NewCouponLedgerMock(),
		cache:   mocks.NewCouponCacheMock(),
		locker:  mocks.NewCodeLockerMock(),
		limiter: mocks.NewRateLimiterMock(),
	}
	f.svc = service.NewCouponService(f.ledger, f.cache, f.locker, f.limiter, clock.NewFixed(fixedNow))
	return f
}

func freshCoupon() *model.Coupon {
	return &model.Coupon{Code: "SAVE100", Amount: 100_000, Row: 2}
}

func TestValidateCoupon(t *testing.T) {
	t.Run("Failed - 空白折扣碼", func(t *testing.T) {
		f := newCouponFixture()
		_, err := f.svc.Validate(context.Background(), "  --  ", 1_000_000, "1.2.3.4")
		assert.ErrorIs(t, err, apperrors.ErrEmptyCouponCode)
	})

	t.Run("Success - 快取命中不打總帳", func(t *testing.T) {
		f := newCouponFixture()

		f.limiter.On("Allow", mock.Anything, "1.2.3.4").Return(true, nil)
		f.cache.On("Get", mock.Anything, "SAVE100").Return(freshCoupon(), nil)

		discount, err := f.svc.Validate(context.Background(), "save-100", 1_000_000, "1.2.3.4")

		assert.NoError(t, err)
		assert.Equal(t, int64(100_000), discount)
		f.ledger.AssertNotCalled(t, "FetchCoupon", mock.Anything, mock.Anything)
	})

	t.Run("Success - 快取未命中時讀總帳並回填", func(t *testing.T) {
		f := newCouponFixture()

		f.limiter.On("Allow", mock.Anything, "1.2.3.4").Return(true, nil)
		f.cache.On("Get", mock.Anything, "SAVE100").Return(nil, nil)
		f.ledger.On("FetchCoupon", mock.Anything, "SAVE100").Return(freshCoupon(), nil)
		f.cache.On("Set", mock.Anything, mock.Anything).Return(nil)

		discount, err := f.svc.Validate(context.Background(), "SAVE100", 50_000, "1.2.3.4")

		assert.NoError(t, err)
		// 折抵不得超過訂單總額
		assert.Equal(t, int64(50_000), discount)
		f.cache.AssertExpectations(t)
	})

	t.Run("Failed - 已使用的折扣券", func(t *testing.T) {
		f := newCouponFixture()

		used := freshCoupon()
		used.UsedAt = "2026-01-01T00:00:00Z"

		f.limiter.On("Allow", mock.Anything, "1.2.3.4").Return(true, nil)
		f.cache.On("Get", mock.Anything, "SAVE100").Return(used, nil)

		_, err := f.svc.Validate(context.Background(), "SAVE100", 1_000_000, "1.2.3.4")
		assert.ErrorIs(t, err, apperrors.ErrCouponAlreadyUsed)
	})

	t.Run("Failed - 超過來源限流", func(t *testing.T) {
		f := newCouponFixture()

		f.limiter.On("Allow", mock.Anything, "1.2.3.4").Return(false, nil)

		_, err := f.svc.Validate(context.Background(), "SAVE100", 1_000_000, "1.2.3.4")
		assert.ErrorIs(t, err, apperrors.ErrRateLimited)
		f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Success - 限流器故障時放行", func(t *testing.T) {
		f := newCouponFixture()

		f.limiter.On("Allow", mock.Anything, "1.2.3.4").Return(false, errors.New("redis down"))
		f.cache.On("Get", mock.Anything, "SAVE100").Return(freshCoupon(), nil)

		discount, err := f.svc.Validate(context.Background(), "SAVE100", 1_000_000, "1.2.3.4")
		assert.NoError(t, err)
		assert.Equal(t, int64(100_000), discount)
	})

	t.Run("Failed - 總帳不可用", func(t *testing.T) {
		f := newCouponFixture()

		f.limiter.On("Allow", mock.Anything, "1.2.3.4").Return(true, nil)
		f.cache.On("Get", mock.Anything, "SAVE100").Return(nil, nil)
		f.ledger.On("FetchCoupon", mock.Anything, "SAVE100").
			Return(nil, apperrors.ErrUpstreamUnavailable)

		_, err := f.svc.Validate(context.Background(), "SAVE100", 1_000_000, "1.2.3.4")
		assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	})
}

func TestRedeemCoupon(t *testing.T) {
	t.Run("Success - 持鎖後繞過快取重讀總帳", func(t *testing.T) {
		f := newCouponFixture()

		f.locker.On("Acquire", mock.Anything, "SAVE100").Return("token-1", true, nil)
		f.ledger.On("FetchCoupon", mock.Anything, "SAVE100").Return(freshCoupon(), nil)
		f.ledger.On("MarkUsed", mock.Anything, mock.Anything, "BK20260110-ABCDEF", fixedNow).Return(nil)
		f.cache.On("Invalidate", mock.Anything, "SAVE100").Return(nil)
		f.locker.On("Release", mock.Anything, "SAVE100", "token-1").Return(nil)

		discount, err := f.svc.Redeem(context.Background(), "save-100", 1_000_000, "BK20260110-ABCDEF")

		assert.NoError(t, err)
		assert.Equal(t, int64(100_000), discount)
		f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		f.locker.AssertExpectations(t)
	})

	t.Run("Failed - 鎖被占用", func(t *testing.T) {
		f := newCouponFixture()

		f.locker.On("Acquire", mock.Anything, "SAVE100").Return("", false, nil)

		_, err := f.svc.Redeem(context.Background(), "SAVE100", 1_000_000, "BK1")
		assert.ErrorIs(t, err, apperrors.ErrCouponBusy)
		f.ledger.AssertNotCalled(t, "FetchCoupon", mock.Anything, mock.Anything)
	})

	t.Run("Failed - 重讀後發現已被使用", func(t *testing.T) {
		f := newCouponFixture()

		used := freshCoupon()
		used.UsedAt = "2026-01-05T11:59:00Z"

		f.locker.On("Acquire", mock.Anything, "SAVE100").Return("token-1", true, nil)
		f.ledger.On("FetchCoupon", mock.Anything, "SAVE100").Return(used, nil)
		f.locker.On("Release", mock.Anything, "SAVE100", "token-1").Return(nil)

		_, err := f.svc.Redeem(context.Background(), "SAVE100", 1_000_000, "BK1")

		assert.ErrorIs(t, err, apperrors.ErrCouponAlreadyUsed)
		f.ledger.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.locker.AssertExpectations(t)
	})

	t.Run("Failed - 回寫失敗時券保持未消耗", func(t *testing.T) {
		f := newCouponFixture()

		f.locker.On("Acquire", mock.Anything, "SAVE100").Return("token-1", true, nil)
		f.ledger.On("FetchCoupon", mock.Anything, "SAVE100").Return(freshCoupon(), nil)
		f.ledger.On("MarkUsed", mock.Anything, mock.Anything, "BK1", fixedNow).
			Return(apperrors.ErrUpstreamUnavailable)
		f.locker.On("Release", mock.Anything, "SAVE100", "token-1").Return(nil)

		_, err := f.svc.Redeem(context.Background(), "SAVE100", 1_000_000, "BK1")

		assert.ErrorIs(t, err, apperrors.ErrPersistenceFailed)
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

// memoryLocker 以互斥旗標模擬 SET NX 鎖
type memoryLocker struct {
	mu   sync.Mutex
	held map[string]string
	seq  int
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: make(map[string]string)}
}

func (l *memoryLocker) Acquire(ctx context.Context, code string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[code]; ok {
		return "", false, nil
	}
	l.seq++
	token := string(rune('a' + l.seq%26))
	l.held[code] = token
	return token, true, nil
}

func (l *memoryLocker) Release(ctx context.Context, code, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[code] == token {
		delete(l.held, code)
	}
	return nil
}

// memoryLedger 以記憶體模擬遠端總帳，記錄 MarkUsed 次數
type memoryLedger struct {
	mu        sync.Mutex
	coupon    model.Coupon
	markCalls int
}

func (l *memoryLedger) FetchCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.coupon
	return &c, nil
}

func (l *memoryLedger) MarkUsed(ctx context.Context, coupon *model.Coupon, usedBy string, usedAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markCalls++
	l.coupon.UsedAt = usedAt.UTC().Format(time.RFC3339)
	l.coupon.UsedBy = usedBy
	return nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, code string) (*model.Coupon, error) { return nil, nil }
func (noopCache) Set(ctx context.Context, coupon *model.Coupon) error         { return nil }
func (noopCache) Invalidate(ctx context.Context, code string) error           { return nil }

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(ctx context.Context, key string) (bool, error) { return true, nil }

// TestRedeemCoupon_Concurrent 多個請求同時兌換同一張券，至多成功一次
func TestRedeemCoupon_Concurrent(t *testing.T) {
	ledger := &memoryLedger{coupon: model.Coupon{Code: "SAVE100", Amount: 100_000, Row: 2}}
	svc := service.NewCouponService(ledger, noopCache{}, newMemoryLocker(), allowAllLimiter{}, clock.NewFixed(fixedNow))

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Redeem(context.Background(), "SAVE100", 1_000_000, "BK1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrCouponBusy):
		case errors.Is(err, apperrors.ErrCouponAlreadyUsed):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, ledger.markCalls)
	assert.True(t, ledger.coupon.IsUsed())
}
