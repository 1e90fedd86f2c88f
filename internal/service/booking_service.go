package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"hotel-booking-engine/internal/clock"
	"hotel-booking-engine/internal/model"
	"hotel-booking-engine/internal/queue"
	"hotel-booking-engine/internal/repository"
	apperrors "hotel-booking-engine/pkg/app_errors"
	"hotel-booking-engine/pkg/logger"

	"go.uber.org/zap"
)

// MaxStayNights 單筆訂單晚數上限，避免超長區間的扣減循環失控
const MaxStayNights = 30

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\-\s]{6,19}$`)

// BookingService 訂房管理：可售檢查、建立訂單、狀態轉換。
// 建立訂單的持久化與整段日期的庫存扣減包在同一筆交易，
// 任何一晚失敗即整筆回滾，不會留下部分扣減。
type BookingService interface {
	CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.BookingResponse, error)
	CheckAvailability(ctx context.Context, roomID int, checkIn, checkOut string, roomCount int) error
	GetByAccessToken(ctx context.Context, token string) (*model.Booking, error)
	GetByCode(ctx context.Context, code string) (*model.Booking, error)
	ListRoomBookings(ctx context.Context, roomID int) ([]*model.Booking, error)
	ConfirmPayment(ctx context.Context, id int) error
	Confirm(ctx context.Context, id int) error
	Complete(ctx context.Context, id int) error
	Cancel(ctx context.Context, id int) error
	MarkNoShow(ctx context.Context, id int) error
}

type BookingServiceImpl struct {
	txm         repository.TxManager
	bookingRepo repository.BookingRepository
	rateRepo    repository.RateRepository
	roomRepo    repository.RoomRepository
	pricing     PricingService
	coupons     CouponService
	queue       queue.NotificationQueue
	clock       clock.Clock
}

func NewBookingService(
	txm repository.TxManager,
	bookingRepo repository.BookingRepository,
	rateRepo repository.RateRepository,
	roomRepo repository.RoomRepository,
	pricing PricingService,
	coupons CouponService,
	notificationQueue queue.NotificationQueue,
	clk clock.Clock,
) BookingService {
	return &BookingServiceImpl{
		txm:         txm,
		bookingRepo: bookingRepo,
		rateRepo:    rateRepo,
		roomRepo:    roomRepo,
		pricing:     pricing,
		coupons:     coupons,
		queue:       notificationQueue,
		clock:       clk,
	}
}

func validateCreateRequest(req *model.CreateBookingRequest) error {
	if req.RoomID <= 0 {
		return apperrors.NewValidationError("room_id", "is required")
	}
	if req.CheckIn == "" {
		return apperrors.NewValidationError("check_in", "is required")
	}
	if req.CheckOut == "" {
		return apperrors.NewValidationError("check_out", "is required")
	}
	if req.GuestName == "" {
		return apperrors.NewValidationError("guest_name", "is required")
	}
	if req.GuestPhone == "" {
		return apperrors.NewValidationError("guest_phone", "is required")
	}
	if !phonePattern.MatchString(req.GuestPhone) {
		return apperrors.NewValidationError("guest_phone", "has invalid format")
	}
	if req.RoomCount < 1 {
		return apperrors.NewValidationError("room_count", "must be at least 1")
	}
	if req.Adults < 1 {
		return apperrors.NewValidationError("adults", "must be at least 1")
	}
	if req.Children != len(req.ChildrenAges) {
		return apperrors.NewValidationError("children_ages", "must match children count")
	}
	if req.PackageType == "" {
		req.PackageType = model.PackageRoomOnly
	}
	if !req.PackageType.IsValid() {
		return apperrors.NewValidationError("package_type", "unknown package type")
	}
	return nil
}

func (s *BookingServiceImpl) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.BookingResponse, error) {
	if err := validateCreateRequest(&req); err != nil {
		return nil, err
	}

	from, to, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if int(to.Sub(from).Hours()/24) > MaxStayNights {
		return nil, apperrors.ErrInvalidDateRange
	}

	room, err := s.roomRepo.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricing.Quote(ctx, model.QuoteRequest{
		RoomID:       req.RoomID,
		CheckIn:      req.CheckIn,
		CheckOut:     req.CheckOut,
		RoomCount:    req.RoomCount,
		Adults:       req.Adults,
		Children:     req.Children,
		ChildrenAges: req.ChildrenAges,
		PackageType:  req.PackageType,
	})
	if err != nil {
		return nil, err
	}

	// 先做一次唯讀可售檢查：失敗時完全沒有副作用，錯誤也帶得出具體日期
	if err := s.checkRange(ctx, room, from, to, req.RoomCount); err != nil {
		return nil, err
	}

	bookingCode, err := s.generateBookingCode()
	if err != nil {
		return nil, err
	}
	accessToken, err := generateAccessToken()
	if err != nil {
		return nil, err
	}

	snapshot := quote.Snapshot
	var couponCode *string
	if req.CouponCode != "" {
		discount, err := s.coupons.Redeem(ctx, req.CouponCode, snapshot.GrandTotal, bookingCode)
		if err != nil {
			return nil, err
		}
		snapshot.DiscountTotal = discount
		snapshot.GrandTotal -= discount
		normalized := model.NormalizeCode(req.CouponCode)
		couponCode = &normalized
	}

	booking := &model.Booking{
		BookingCode:   bookingCode,
		AccessToken:   accessToken,
		RoomID:        req.RoomID,
		CheckIn:       from,
		CheckOut:      to,
		RoomCount:     req.RoomCount,
		Adults:        req.Adults,
		Children:      req.Children,
		ChildrenAges:  req.ChildrenAges,
		PackageType:   req.PackageType,
		GuestName:     req.GuestName,
		GuestPhone:    req.GuestPhone,
		GuestEmail:    req.GuestEmail,
		CouponCode:    couponCode,
		Snapshot:      snapshot,
		Status:        model.BookingStatusPendingPayment,
		PaymentStatus: model.PaymentStatusUnpaid,
	}

	err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
		// 鎖住範圍內既有列，關閉「檢查通過、扣減撞車」的窄縫
		if _, err := s.rateRepo.ListRangeForUpdate(txCtx, req.RoomID, from, to); err != nil {
			return err
		}

		if _, err := s.bookingRepo.Create(txCtx, booking); err != nil {
			return err
		}

		for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
			if err := s.rateRepo.EnsureRow(txCtx, req.RoomID, d, room.TotalRooms); err != nil {
				return err
			}
			if err := s.rateRepo.DecrementStock(txCtx, req.RoomID, d, req.RoomCount); err != nil {
				if errors.Is(err, apperrors.ErrInsufficientStock) {
					return &apperrors.RoomUnavailableError{RoomID: req.RoomID, Date: d, Reason: "insufficient_stock"}
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, booking, model.TemplateBookingPending)

	return &model.BookingResponse{
		BookingID:     booking.ID,
		BookingCode:   booking.BookingCode,
		AccessToken:   booking.AccessToken,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		GrandTotal:    booking.Snapshot.GrandTotal,
	}, nil
}

// CheckAvailability 唯讀可售查詢，供訂房前的介面使用
func (s *BookingServiceImpl) CheckAvailability(ctx context.Context, roomID int, checkIn, checkOut string, roomCount int) error {
	if roomCount < 1 {
		return apperrors.NewValidationError("room_count", "must be at least 1")
	}
	from, to, err := parseStayRange(checkIn, checkOut)
	if err != nil {
		return err
	}
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	return s.checkRange(ctx, room, from, to, roomCount)
}

// checkRange 逐晚檢查；第一個失敗的日期即中止整個請求。
// 沒有 Rate Store 列的日期視為尚未限制，可售上限是房型總間數。
func (s *BookingServiceImpl) checkRange(ctx context.Context, room *model.Room, from, to time.Time, roomCount int) error {
	rates, err := s.rateRepo.ListRange(ctx, room.ID, from, to)
	if err != nil {
		return err
	}

	ratesByDate := make(map[string]*model.RoomRate, len(rates))
	for _, rate := range rates {
		ratesByDate[rate.Date.Format(dateLayout)] = rate
	}

	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		rate, ok := ratesByDate[d.Format(dateLayout)]
		if !ok {
			if roomCount > room.TotalRooms {
				return &apperrors.RoomUnavailableError{RoomID: room.ID, Date: d, Reason: "insufficient_stock"}
			}
			continue
		}

		switch {
		case rate.SaleStatus == model.SaleStopSell:
			return &apperrors.RoomUnavailableError{RoomID: room.ID, Date: d, Reason: "stop_sell"}
		case rate.SaleStatus == model.SaleSoldOut:
			return &apperrors.RoomUnavailableError{RoomID: room.ID, Date: d, Reason: "sold_out"}
		case rate.Stock < roomCount:
			return &apperrors.RoomUnavailableError{RoomID: room.ID, Date: d, Reason: "insufficient_stock"}
		}
	}

	return nil
}

func (s *BookingServiceImpl) GetByAccessToken(ctx context.Context, token string) (*model.Booking, error) {
	if token == "" {
		return nil, apperrors.ErrBookingNotFound
	}
	return s.bookingRepo.FindByAccessToken(ctx, token)
}

// GetByCode 後台以訂單編號查詢
func (s *BookingServiceImpl) GetByCode(ctx context.Context, code string) (*model.Booking, error) {
	if code == "" {
		return nil, apperrors.ErrBookingNotFound
	}
	return s.bookingRepo.FindByCode(ctx, code)
}

// ListRoomBookings 後台查詢某房型的所有訂單
func (s *BookingServiceImpl) ListRoomBookings(ctx context.Context, roomID int) ([]*model.Booking, error) {
	if _, err := s.roomRepo.FindByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListByRoomID(ctx, roomID)
}

// ConfirmPayment 付款入帳：訂單轉 processing、付款轉 paid
func (s *BookingServiceImpl) ConfirmPayment(ctx context.Context, id int) error {
	var updated *model.Booking

	err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(model.BookingStatusProcessing) {
			return apperrors.ErrInvalidStatus
		}
		if !booking.PaymentStatus.CanTransitionTo(model.PaymentStatusPaid) {
			return apperrors.ErrInvalidStatus
		}

		updated, err = s.bookingRepo.UpdateStatus(txCtx, id, model.BookingStatusProcessing)
		if err != nil {
			return err
		}
		return s.bookingRepo.UpdatePaymentStatus(txCtx, id, model.PaymentStatusPaid)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, updated, model.TemplateBookingProcessing)
	return nil
}

func (s *BookingServiceImpl) Confirm(ctx context.Context, id int) error {
	return s.transition(ctx, id, model.BookingStatusConfirmed)
}

func (s *BookingServiceImpl) Complete(ctx context.Context, id int) error {
	var updated *model.Booking

	err := s.txm.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(model.BookingStatusCompleted) {
			return apperrors.ErrInvalidStatus
		}
		updated, err = s.bookingRepo.UpdateStatus(txCtx, id, model.BookingStatusCompleted)
		return err
	})
	if err != nil {
		return err
	}

	s.notify(ctx, updated, model.TemplateBookingCompleted)
	return nil
}

// Cancel 取消訂單並逐晚釋放庫存，上限為房型總間數
func (s *BookingServiceImpl) Cancel(ctx context.Context, id int) error {
	return s.txm.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(model.BookingStatusCancelled) {
			return apperrors.ErrInvalidStatus
		}

		room, err := s.roomRepo.FindByID(txCtx, booking.RoomID)
		if err != nil {
			return err
		}

		if _, err := s.bookingRepo.UpdateStatus(txCtx, id, model.BookingStatusCancelled); err != nil {
			return err
		}

		for d := booking.CheckIn; d.Before(booking.CheckOut); d = d.AddDate(0, 0, 1) {
			if err := s.rateRepo.IncrementStock(txCtx, booking.RoomID, d, booking.RoomCount, room.TotalRooms); err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkNoShow 未入住不釋放庫存，房費照算
func (s *BookingServiceImpl) MarkNoShow(ctx context.Context, id int) error {
	return s.transition(ctx, id, model.BookingStatusNoShow)
}

func (s *BookingServiceImpl) transition(ctx context.Context, id int, target model.BookingStatus) error {
	return s.txm.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(target) {
			return apperrors.ErrInvalidStatus
		}
		_, err = s.bookingRepo.UpdateStatus(txCtx, id, target)
		return err
	})
}

// notify 投遞失敗只記錄，不影響訂單結果
func (s *BookingServiceImpl) notify(ctx context.Context, booking *model.Booking, templateKey string) {
	recipient := booking.GuestEmail
	if recipient == "" {
		recipient = booking.GuestPhone
	}

	notification := &model.Notification{
		TemplateKey: templateKey,
		Recipient:   recipient,
		BookingCode: booking.BookingCode,
		Payload: map[string]string{
			"guest_name":  booking.GuestName,
			"check_in":    booking.CheckIn.Format(dateLayout),
			"check_out":   booking.CheckOut.Format(dateLayout),
			"grand_total": strconv.FormatInt(booking.Snapshot.GrandTotal, 10),
		},
	}

	if err := s.queue.Publish(ctx, notification); err != nil {
		logger.WithComponent("service").Warn("publish notification failed",
			zap.String("booking_code", booking.BookingCode),
			zap.String("template_key", templateKey),
			zap.Error(err),
		)
	}
}

const bookingCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateBookingCode 產生對客分享用的訂單編號：前綴 + 日期 + 隨機尾碼。
// 不保證全域唯一，碰撞機率實務上可忽略。
func (s *BookingServiceImpl) generateBookingCode() (string, error) {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	for i, b := range suffix {
		suffix[i] = bookingCodeCharset[int(b)%len(bookingCodeCharset)]
	}
	return fmt.Sprintf("BK%s-%s", s.clock.Now().Format("20060102"), string(suffix)), nil
}

// generateAccessToken 產生對客 URL 用的存取憑證，可直接放進 URL 不需再編碼
func generateAccessToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
