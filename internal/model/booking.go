package model

import "time"

// BookingStatus 訂單狀態類型
type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusProcessing     BookingStatus = "processing"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusNoShow         BookingStatus = "no_show"
)

// IsValid 驗證狀態是否有效
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPendingPayment, BookingStatusProcessing, BookingStatusConfirmed,
		BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// IsTerminal 終態後不允許任何轉換
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusPendingPayment: {BookingStatusProcessing, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusNoShow},
		BookingStatusProcessing:     {BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow},
		BookingStatusConfirmed:      {BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow},
		BookingStatusCompleted:      {},
		BookingStatusCancelled:      {},
		BookingStatusNoShow:         {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// PaymentStatus 付款狀態類型
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// CanTransitionTo 檢查付款狀態是否可以轉換到目標狀態
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	transitions := map[PaymentStatus][]PaymentStatus{
		PaymentStatusUnpaid:   {PaymentStatusPartial, PaymentStatusPaid},
		PaymentStatusPartial:  {PaymentStatusPaid, PaymentStatusRefunded},
		PaymentStatusPaid:     {PaymentStatusRefunded},
		PaymentStatusRefunded: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Booking 訂房模型。Snapshot 是建立當下的計價快照，之後即使房價調整也不得重算。
// AccessToken 取代流水號 ID 出現在所有對客 URL，避免訂單被列舉。
type Booking struct {
	ID            int             `json:"id" db:"id"`
	BookingCode   string          `json:"booking_code" db:"booking_code"`
	AccessToken   string          `json:"access_token" db:"access_token"`
	RoomID        int             `json:"room_id" db:"room_id"`
	CheckIn       time.Time       `json:"check_in" db:"check_in"`
	CheckOut      time.Time       `json:"check_out" db:"check_out"`
	RoomCount     int             `json:"room_count" db:"room_count"`
	Adults        int             `json:"adults" db:"adults"`
	Children      int             `json:"children" db:"children"`
	ChildrenAges  []int           `json:"children_ages" db:"children_ages"`
	PackageType   PackageType     `json:"package_type" db:"package_type"`
	GuestName     string          `json:"guest_name" db:"guest_name"`
	GuestPhone    string          `json:"guest_phone" db:"guest_phone"`
	GuestEmail    string          `json:"guest_email" db:"guest_email"`
	CouponCode    *string         `json:"coupon_code,omitempty" db:"coupon_code"`
	Snapshot      PricingSnapshot `json:"snapshot" db:"snapshot"`
	Status        BookingStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Nights 入住晚數（check_in 含、check_out 不含）
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// IsDeleted 檢查訂單是否已刪除
func (b *Booking) IsDeleted() bool {
	return b.DeletedAt != nil
}

// CreateBookingRequest 建立訂單請求
type CreateBookingRequest struct {
	RoomID       int         `json:"room_id" binding:"required"`
	CheckIn      string      `json:"check_in" binding:"required"`
	CheckOut     string      `json:"check_out" binding:"required"`
	RoomCount    int         `json:"room_count" binding:"required,min=1"`
	Adults       int         `json:"adults" binding:"required,min=1"`
	Children     int         `json:"children"`
	ChildrenAges []int       `json:"children_ages"`
	PackageType  PackageType `json:"package_type"`
	GuestName    string      `json:"guest_name" binding:"required"`
	GuestPhone   string      `json:"guest_phone" binding:"required"`
	GuestEmail   string      `json:"guest_email"`
	CouponCode   string      `json:"coupon_code"`
}

// BookingResponse 建立訂單響應
type BookingResponse struct {
	BookingID     int           `json:"booking_id"`
	BookingCode   string        `json:"booking_code"`
	AccessToken   string        `json:"access_token"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	GrandTotal    int64         `json:"grand_total"`
}
