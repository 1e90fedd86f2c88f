package mocks

import (
	"context"

	"hotel-booking-engine/internal/model"

	"github.com/stretchr/testify/mock"
)

type PricingServiceMock struct {
	mock.Mock
}

func NewPricingServiceMock() *PricingServiceMock {
	return &PricingServiceMock{}
}

func (m *PricingServiceMock) Quote(ctx context.Context, req model.QuoteRequest) (*model.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *PricingServiceMock) CalendarPrices(ctx context.Context, hotelID int, from, to string) ([]*model.CalendarDay, error) {
	args := m.Called(ctx, hotelID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CalendarDay), args.Error(1)
}

func (m *PricingServiceMock) ListRooms(ctx context.Context, hotelID int) ([]*model.Room, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Room), args.Error(1)
}

type BookingServiceMock struct {
	mock.Mock
}

func NewBookingServiceMock() *BookingServiceMock {
	return &BookingServiceMock{}
}

func (m *BookingServiceMock) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.BookingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookingResponse), args.Error(1)
}

func (m *BookingServiceMock) CheckAvailability(ctx context.Context, roomID int, checkIn, checkOut string, roomCount int) error {
	args := m.Called(ctx, roomID, checkIn, checkOut, roomCount)
	return args.Error(0)
}

func (m *BookingServiceMock) GetByAccessToken(ctx context.Context, token string) (*model.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) GetByCode(ctx context.Context, code string) (*model.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) ListRoomBookings(ctx context.Context, roomID int) ([]*model.Booking, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) ConfirmPayment(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BookingServiceMock) Confirm(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BookingServiceMock) Complete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BookingServiceMock) Cancel(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BookingServiceMock) MarkNoShow(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CouponServiceMock struct {
	mock.Mock
}

func NewCouponServiceMock() *CouponServiceMock {
	return &CouponServiceMock{}
}

func (m *CouponServiceMock) Validate(ctx context.Context, code string, orderTotal int64, origin string) (int64, error) {
	args := m.Called(ctx, code, orderTotal, origin)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CouponServiceMock) Redeem(ctx context.Context, code string, orderTotal int64, redeemedBy string) (int64, error) {
	args := m.Called(ctx, code, orderTotal, redeemedBy)
	return args.Get(0).(int64), args.Error(1)
}
