package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hotel-booking-engine/internal/model"
	"hotel-booking-engine/internal/service"
	apperrors "hotel-booking-engine/pkg/app_errors"
	"hotel-booking-engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PricingHandler struct {
	service service.PricingService
}

func NewPricingHandler(service service.PricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

func (h *PricingHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("quotes", h.CreateQuote)
		router.GET("hotels/:id/calendar", h.GetCalendar)
		router.GET("hotels/:id/rooms", h.ListRooms)
	}
}

func (h *PricingHandler) CreateQuote(c *gin.Context) {
	var req model.QuoteRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	quote, err := h.service.Quote(c, req)
	if err != nil {
		h.handlePricingError(c, err, "CreateQuote")
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *PricingHandler) GetCalendar(c *gin.Context) {
	hotelID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel id"})
		return
	}

	from := c.Query("from")
	to := c.Query("to")

	days, err := h.service.CalendarPrices(c, hotelID, from, to)
	if err != nil {
		h.handlePricingError(c, err, "GetCalendar")
		return
	}

	c.JSON(http.StatusOK, days)
}

func (h *PricingHandler) ListRooms(c *gin.Context) {
	hotelID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel id"})
		return
	}

	rooms, err := h.service.ListRooms(c, hotelID)
	if err != nil {
		h.handlePricingError(c, err, "ListRooms")
		return
	}

	c.JSON(http.StatusOK, rooms)
}

func (h *PricingHandler) handlePricingError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidDateRange):
		log.Warn("Invalid date range")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
	case errors.Is(err, apperrors.ErrRoomNotFound):
		log.Warn("Room not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
