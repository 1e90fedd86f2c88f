package apperrors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrRoomUnavailable     = errors.New("room unavailable")
	ErrInvalidStatus       = errors.New("invalid status transition")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponAlreadyUsed   = errors.New("coupon already used")
	ErrCouponBusy          = errors.New("coupon redemption in progress")
	ErrEmptyCouponCode     = errors.New("empty coupon code")
	ErrRateLimited         = errors.New("too many validation attempts")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrPersistenceFailed   = errors.New("persistence failed")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)

// ValidationError 帶欄位名稱的輸入驗證錯誤
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// RoomUnavailableError 某一晚不可預訂；整個請求以第一個失敗的日期中止
type RoomUnavailableError struct {
	RoomID int
	Date   time.Time
	Reason string // stop_sell / sold_out / insufficient_stock
}

func (e *RoomUnavailableError) Error() string {
	return fmt.Sprintf("room %d unavailable on %s: %s", e.RoomID, e.Date.Format("2006-01-02"), e.Reason)
}

func (e *RoomUnavailableError) Is(target error) bool {
	return target == ErrRoomUnavailable
}
