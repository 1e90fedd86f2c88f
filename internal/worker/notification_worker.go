package worker

import (
	"context"

	"hotel-booking-engine/internal/mailer"
	"hotel-booking-engine/internal/queue"
	"hotel-booking-engine/pkg/logger"

	"go.uber.org/zap"
)

type NotificationWorker interface {
	// 訂閱通知隊列
	Start(ctx context.Context) error
}

type NotificationWorkerImpl struct {
	mailer mailer.Mailer
	queue  queue.NotificationQueue
}

func NewNotificationWorker(mailer mailer.Mailer, queue queue.NotificationQueue) NotificationWorker {
	return &NotificationWorkerImpl{
		mailer: mailer,
		queue:  queue,
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			// 寄送失敗只記錄並重試，絕不回滾訂單
			if err := w.mailer.Send(ctx, msg.Data); err != nil {
				logger.WithComponent("worker").Warn("send notification failed",
					zap.String("template_key", msg.Data.TemplateKey),
					zap.String("booking_code", msg.Data.BookingCode),
					zap.Error(err),
				)
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
