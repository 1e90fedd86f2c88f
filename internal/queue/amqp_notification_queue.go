package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"hotel-booking-engine/internal/model"
	"hotel-booking-engine/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const notificationQueueName = "booking.notifications"

// AMQPNotificationQueue RabbitMQ 版 NotificationQueue，隊列宣告為 durable
type AMQPNotificationQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPNotificationQueue(url string) (NotificationQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if _, err := ch.QueueDeclare(notificationQueueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	return &AMQPNotificationQueue{conn: conn, ch: ch}, nil
}

func (q *AMQPNotificationQueue) Publish(ctx context.Context, notification *model.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	return q.ch.PublishWithContext(ctx, "", notificationQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (q *AMQPNotificationQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	if err := q.ch.Qos(50, 0, false); err != nil {
		logger.WithComponent("mq").Warn("set QoS failed", zap.Error(err))
	}

	msgs, err := q.ch.Consume(notificationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("amqp consume: %w", err)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}

				var notification model.Notification
				if err := json.Unmarshal(d.Body, &notification); err != nil {
					logger.WithComponent("mq").Warn("unmarshal notification failed", zap.Error(err))
					_ = d.Nack(false, false) // 丟棄無法解析的消息，避免死循環
					continue
				}

				delivery := d
				out <- Delivery{
					Data: &notification,
					Ack:  func() { _ = delivery.Ack(false) },
					Nack: func(requeue bool) { _ = delivery.Nack(false, requeue) },
				}
			}
		}
	}()

	return out, nil
}

func (q *AMQPNotificationQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		return err
	}
	return q.conn.Close()
}
