package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"hotel-booking-engine/internal/model"
	"hotel-booking-engine/internal/service"
	apperrors "hotel-booking-engine/pkg/app_errors"
	"hotel-booking-engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("bookings", h.CreateBooking)
		router.GET("bookings/:token", h.GetBooking)
		router.GET("availability", h.CheckAvailability)
		router.GET("admin/bookings/:code", h.GetBookingByCode)
		router.GET("rooms/:id/bookings", h.ListRoomBookings)
		router.PUT("bookings/:token/payment", h.ConfirmPayment)
		router.PUT("bookings/:token/confirm", h.ConfirmBooking)
		router.PUT("bookings/:token/complete", h.CompleteBooking)
		router.PUT("bookings/:token/cancel", h.CancelBooking)
		router.PUT("bookings/:token/no-show", h.MarkNoShow)
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateBooking(c, req)
	if err != nil {
		h.handleBookingError(c, err, "CreateBooking")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetBooking 對客查詢一律走存取憑證，不暴露流水號
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.service.GetByAccessToken(c, c.Param("token"))
	if err != nil {
		h.handleBookingError(c, err, "GetBooking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetBookingByCode 後台查詢，走對客分享的訂單編號
func (h *BookingHandler) GetBookingByCode(c *gin.Context) {
	booking, err := h.service.GetByCode(c, c.Param("code"))
	if err != nil {
		h.handleBookingError(c, err, "GetBookingByCode")
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) ListRoomBookings(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
		return
	}

	bookings, err := h.service.ListRoomBookings(c, roomID)
	if err != nil {
		h.handleBookingError(c, err, "ListRoomBookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

type availabilityQuery struct {
	RoomID    int    `form:"room_id" binding:"required"`
	CheckIn   string `form:"check_in" binding:"required"`
	CheckOut  string `form:"check_out" binding:"required"`
	RoomCount int    `form:"room_count"`
}

func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var q availabilityQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}
	if q.RoomCount < 1 {
		q.RoomCount = 1
	}

	err := h.service.CheckAvailability(c, q.RoomID, q.CheckIn, q.CheckOut, q.RoomCount)
	if err != nil {
		var unavailable *apperrors.RoomUnavailableError
		if errors.As(err, &unavailable) {
			c.JSON(http.StatusOK, gin.H{
				"available": false,
				"reason":    unavailable.Reason,
				"date":      unavailable.Date.Format(time.DateOnly),
			})
			return
		}
		h.handleBookingError(c, err, "CheckAvailability")
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": true})
}

func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	h.runTransition(c, "ConfirmPayment", h.service.ConfirmPayment)
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.runTransition(c, "ConfirmBooking", h.service.Confirm)
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.runTransition(c, "CompleteBooking", h.service.Complete)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.runTransition(c, "CancelBooking", h.service.Cancel)
}

func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	h.runTransition(c, "MarkNoShow", h.service.MarkNoShow)
}

// runTransition 狀態轉換操作同樣以存取憑證定位訂單
func (h *BookingHandler) runTransition(c *gin.Context, operation string, fn func(ctx context.Context, id int) error) {
	booking, err := h.service.GetByAccessToken(c, c.Param("token"))
	if err != nil {
		h.handleBookingError(c, err, operation)
		return
	}

	if err := fn(c, booking.ID); err != nil {
		h.handleBookingError(c, err, operation)
		return
	}

	c.Status(http.StatusOK)
}

func (h *BookingHandler) handleBookingError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidDateRange):
		log.Warn("Invalid date range")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
	case errors.Is(err, apperrors.ErrRoomNotFound):
		log.Warn("Room not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, apperrors.ErrBookingNotFound):
		log.Warn("Booking not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, apperrors.ErrRoomUnavailable), errors.Is(err, apperrors.ErrInsufficientStock):
		log.Warn("Room unavailable")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidStatus):
		log.Warn("Invalid status transition")
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
	case errors.Is(err, apperrors.ErrCouponNotFound):
		log.Warn("Coupon not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
	case errors.Is(err, apperrors.ErrCouponAlreadyUsed):
		log.Warn("Coupon already used")
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon already used"})
	case errors.Is(err, apperrors.ErrCouponBusy):
		log.Warn("Coupon busy")
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon redemption in progress, please retry"})
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		log.Error("Upstream unavailable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream service unavailable"})
	case errors.Is(err, apperrors.ErrPersistenceFailed):
		log.Error("Persistence failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Persistence failed, please retry"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
