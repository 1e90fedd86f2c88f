package mailer

import (
	"context"

	"hotel-booking-engine/internal/model"

	"go.uber.org/zap"
)

// Mailer 信件渠道的邊界。模板渲染與實際寄送由外部系統負責，
// 核心只交付模板代號與資料載荷。
type Mailer interface {
	Send(ctx context.Context, notification *model.Notification) error
}

// LogMailer 把通知寫入結構化日誌，開發環境與測試用
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) Mailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, notification *model.Notification) error {
	m.log.Info("dispatch notification",
		zap.String("template_key", notification.TemplateKey),
		zap.String("recipient", notification.Recipient),
		zap.String("booking_code", notification.BookingCode),
	)
	return nil
}
