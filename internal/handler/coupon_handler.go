package handler

import (
	"errors"
	"net/http"

	"hotel-booking-engine/internal/service"
	apperrors "hotel-booking-engine/pkg/app_errors"
	"hotel-booking-engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(service service.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

func (h *CouponHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("coupons/validate", h.ValidateCoupon)
	}
}

type validateCouponRequest struct {
	Code       string `json:"code" binding:"required"`
	OrderTotal int64  `json:"order_total" binding:"required,min=0"`
}

func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req validateCouponRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	// 以客戶端 IP 作為限流鍵，抑制折扣碼列舉
	discount, err := h.service.Validate(c, req.Code, req.OrderTotal, c.ClientIP())
	if err != nil {
		h.handleCouponError(c, err, "ValidateCoupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"discount": discount,
	})
}

func (h *CouponHandler) handleCouponError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEmptyCouponCode):
		log.Warn("Empty coupon code")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty coupon code"})
	case errors.Is(err, apperrors.ErrRateLimited):
		log.Warn("Rate limited")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many validation attempts"})
	case errors.Is(err, apperrors.ErrCouponNotFound):
		log.Warn("Coupon not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
	case errors.Is(err, apperrors.ErrCouponAlreadyUsed):
		log.Warn("Coupon already used")
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon already used"})
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		log.Error("Ledger unavailable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Coupon service unavailable"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
