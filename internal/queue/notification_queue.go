package queue

import (
	"context"

	"hotel-booking-engine/internal/model"
)

type Delivery struct {
	Data *model.Notification
	Ack  func()
	Nack func(requeue bool)
}

type NotificationQueue interface {
	// 發送通知到隊列
	Publish(ctx context.Context, notification *model.Notification) error
	// 訂閱通知隊列
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type MemoryNotificationQueue struct {
	// 使用 Go channel 模擬 MQ 隊列，開發與測試環境用
	ch chan *model.Notification
}

func NewMemoryNotificationQueue(bufferSize int) NotificationQueue {
	return &MemoryNotificationQueue{
		ch: make(chan *model.Notification, bufferSize),
	}
}

func (q *MemoryNotificationQueue) Publish(ctx context.Context, notification *model.Notification) error {
	q.ch <- notification
	return nil
}

func (q *MemoryNotificationQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case notification, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: notification,
					Ack:  func() { /* 記憶體版不需特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- notification
						}
					},
				}
			}
		}
	}()

	return out, nil
}
