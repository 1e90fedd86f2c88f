package mocks

import (
	"context"
	"time"

	"hotel-booking-engine/internal/model"

	"github.com/stretchr/testify/mock"
)

// TxManagerMock 直接在當前 context 執行 fn，不開真正的交易
type TxManagerMock struct {
	BeginErr error
}

func NewTxManagerMock() *TxManagerMock {
	return &TxManagerMock{}
}

func (m *TxManagerMock) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}
	return fn(ctx)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func NewRoomRepositoryMock() *RoomRepositoryMock {
	return &RoomRepositoryMock{}
}

func (m *RoomRepositoryMock) FindByID(ctx context.Context, id int) (*model.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *RoomRepositoryMock) ListByHotelID(ctx context.Context, hotelID int) ([]*model.Room, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Room), args.Error(1)
}

func (m *RoomRepositoryMock) ListSurchargeRules(ctx context.Context, roomID int) ([]*model.SurchargeRule, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SurchargeRule), args.Error(1)
}

type RateRepositoryMock struct {
	mock.Mock
}

func NewRateRepositoryMock() *RateRepositoryMock {
	return &RateRepositoryMock{}
}

func (m *RateRepositoryMock) ListRange(ctx context.Context, roomID int, from, to time.Time) ([]*model.RoomRate, error) {
	args := m.Called(ctx, roomID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RoomRate), args.Error(1)
}

func (m *RateRepositoryMock) ListByHotelRange(ctx context.Context, hotelID int, from, to time.Time) ([]*model.RoomRate, error) {
	args := m.Called(ctx, hotelID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RoomRate), args.Error(1)
}

func (m *RateRepositoryMock) ListRangeForUpdate(ctx context.Context, roomID int, from, to time.Time) ([]*model.RoomRate, error) {
	args := m.Called(ctx, roomID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RoomRate), args.Error(1)
}

func (m *RateRepositoryMock) EnsureRow(ctx context.Context, roomID int, date time.Time, stock int) error {
	args := m.Called(ctx, roomID, date, stock)
	return args.Error(0)
}

func (m *RateRepositoryMock) DecrementStock(ctx context.Context, roomID int, date time.Time, quantity int) error {
	args := m.Called(ctx, roomID, date, quantity)
	return args.Error(0)
}

func (m *RateRepositoryMock) IncrementStock(ctx context.Context, roomID int, date time.Time, quantity, capacity int) error {
	args := m.Called(ctx, roomID, date, quantity, capacity)
	return args.Error(0)
}

type BookingRepositoryMock struct {
	mock.Mock
}

func NewBookingRepositoryMock() *BookingRepositoryMock {
	return &BookingRepositoryMock{}
}

func (m *BookingRepositoryMock) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) FindByID(ctx context.Context, id int) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) FindByAccessToken(ctx context.Context, token string) (*model.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) ListByRoomID(ctx context.Context, roomID int) ([]*model.Booking, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) UpdateStatus(ctx context.Context, id int, status model.BookingStatus) (*model.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) UpdatePaymentStatus(ctx context.Context, id int, status model.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
