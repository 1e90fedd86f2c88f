package queue

import (
	"context"
	"testing"
	"time"

	"hotel-booking-engine/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestMemoryNotificationQueue(t *testing.T) {
	t.Run("Publish 後 Subscribe 可以收到通知", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		q := NewMemoryNotificationQueue(10)

		deliveries, err := q.Subscribe(ctx)
		assert.NoError(t, err)

		notification := &model.Notification{
			TemplateKey: model.TemplateBookingPending,
			Recipient:   "guest@example.com",
			BookingCode: "BK20260110-ABCDEF",
		}
		assert.NoError(t, q.Publish(ctx, notification))

		select {
		case d := <-deliveries:
			assert.Equal(t, "BK20260110-ABCDEF", d.Data.BookingCode)
			d.Ack()
		case <-time.After(time.Second):
			t.Fatal("沒有在時間內收到通知")
		}
	})

	t.Run("Nack(requeue) 會重新投遞", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		q := NewMemoryNotificationQueue(10)

		deliveries, err := q.Subscribe(ctx)
		assert.NoError(t, err)

		assert.NoError(t, q.Publish(ctx, &model.Notification{BookingCode: "BK1"}))

		first := <-deliveries
		first.Nack(true)

		select {
		case second := <-deliveries:
			assert.Equal(t, "BK1", second.Data.BookingCode)
			second.Ack()
		case <-time.After(time.Second):
			t.Fatal("重新投遞的通知沒有在時間內收到")
		}
	})

	t.Run("取消 context 後通道關閉", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		q := NewMemoryNotificationQueue(10)
		deliveries, err := q.Subscribe(ctx)
		assert.NoError(t, err)

		cancel()

		select {
		case _, ok := <-deliveries:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("通道沒有在時間內關閉")
		}
	})
}
