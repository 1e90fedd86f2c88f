package model

// Notification 通知訊息：狀態轉換時以模板代號加資料載荷送往信件渠道。
// 投遞失敗不會回滾訂單。
type Notification struct {
	TemplateKey string            `json:"template_key"`
	Recipient   string            `json:"recipient"`
	BookingCode string            `json:"booking_code"`
	Payload     map[string]string `json:"payload"`
}

const (
	TemplateBookingPending    = "booking_pending"
	TemplateBookingProcessing = "booking_processing"
	TemplateBookingCompleted  = "booking_completed"
)
