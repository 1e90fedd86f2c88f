package mocks

import (
	"context"
	"time"

	"hotel-booking-engine/internal/model"
	"hotel-booking-engine/internal/queue"

	"github.com/stretchr/testify/mock"
)

type CouponLedgerMock struct {
	mock.Mock
}

func NewCouponLedgerMock() *CouponLedgerMock {
	return &CouponLedgerMock{}
}

func (m *CouponLedgerMock) FetchCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *CouponLedgerMock) MarkUsed(ctx context.Context, coupon *model.Coupon, usedBy string, usedAt time.Time) error {
	args := m.Called(ctx, coupon, usedBy, usedAt)
	return args.Error(0)
}

type CouponCacheMock struct {
	mock.Mock
}

func NewCouponCacheMock() *CouponCacheMock {
	return &CouponCacheMock{}
}

func (m *CouponCacheMock) Get(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *CouponCacheMock) Set(ctx context.Context, coupon *model.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *CouponCacheMock) Invalidate(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type CodeLockerMock struct {
	mock.Mock
}

func NewCodeLockerMock() *CodeLockerMock {
	return &CodeLockerMock{}
}

func (m *CodeLockerMock) Acquire(ctx context.Context, code string) (string, bool, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *CodeLockerMock) Release(ctx context.Context, code, token string) error {
	args := m.Called(ctx, code, token)
	return args.Error(0)
}

type RateLimiterMock struct {
	mock.Mock
}

func NewRateLimiterMock() *RateLimiterMock {
	return &RateLimiterMock{}
}

func (m *RateLimiterMock) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type NotificationQueueMock struct {
	mock.Mock
}

func NewNotificationQueueMock() *NotificationQueueMock {
	return &NotificationQueueMock{}
}

func (m *NotificationQueueMock) Publish(ctx context.Context, notification *model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *NotificationQueueMock) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}

type MailerMock struct {
	mock.Mock
}

func NewMailerMock() *MailerMock {
	return &MailerMock{}
}

func (m *MailerMock) Send(ctx context.Context, notification *model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}
