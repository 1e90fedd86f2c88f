package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel-booking-engine/internal/handler"
	"hotel-booking-engine/internal/mocks"
	"hotel-booking-engine/internal/model"
	apperrors "hotel-booking-engine/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateBookingHandler(t *testing.T) {
	request := model.CreateBookingRequest{
		RoomID:     1,
		CheckIn:    "2026-01-10",
		CheckOut:   "2026-01-12",
		RoomCount:  1,
		Adults:     2,
		GuestName:  "王小明",
		GuestPhone: "+886-912345678",
	}

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewBookingServiceMock()
		router := newTestRouter()
		handler.NewBookingHandler(mockService).RegisterRoutes(router)

		mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(&model.BookingResponse{
			BookingID:     42,
			BookingCode:   "BK20260110-ABCDEF",
			AccessToken:   "0123456789abcdef0123456789abcdef",
			Status:        model.BookingStatusPendingPayment,
			PaymentStatus: model.PaymentStatusUnpaid,
			GrandTotal:    2_000_000,
		}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/bookings", request)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrRoomUnavailable", func(t *testing.T) {
		mockService := mocks.NewBookingServiceMock()
		router := newTestRouter()
		handler.NewBookingHandler(mockService).RegisterRoutes(router)

		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, &apperrors.RoomUnavailableError{RoomID: 1, Reason: "sold_out"}).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/bookings", request)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failed - ErrInvalidDateRange", func(t *testing.T) {
		mockService := mocks.NewBookingServiceMock()
		router := newTestRouter()
		handler.NewBookingHandler(mockService).RegisterRoutes(router)

		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrInvalidDateRange).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/bookings", request)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetBookingHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewBookingServiceMock()
		router := newTestRouter()
		handler.NewBookingHandler(mockService).RegisterRoutes(router)

		mockService.On("GetByAccessToken", mock.Anything, "abc123").
			Return(&model.Booking{ID: 42, AccessToken: "abc123"}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/bookings/abc123", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		mockService := mocks.NewBookingServiceMock()
		router := newTestRouter()
		handler.NewBookingHandler(mockService).RegisterRoutes(router)

		mockService.On("GetByAccessToken", mock.Anything, "missing").
			Return(nil, apperrors.ErrBookingNotFound).Once()

		req := httptest.NewRequest("GET", "/api/v1/bookings/missing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCancelBookingHandler(t *testing.T) {
	t.Run("Failed - 終態訂單回 409", func(t *testing.T) {
		mockService := mocks.NewBookingServiceMock()
		router := newTestRouter()
		handler.NewBookingHandler(mockService).RegisterRoutes(router)

		mockService.On("GetByAccessToken", mock.Anything, "abc123").
			Return(&model.Booking{ID: 42, Status: model.BookingStatusCompleted}, nil).Once()
		mockService.On("Cancel", mock.Anything, 42).
			Return(apperrors.ErrInvalidStatus).Once()

		req := httptest.NewRequest("PUT", "/api/v1/bookings/abc123/cancel", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
