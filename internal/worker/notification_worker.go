package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/elegantjewellery/jewellery-api/internal/model"
	"github.com/elegantjewellery/jewellery-api/internal/repository"
)

const (
	notificationQueueName = "notifications"
	dlxExchange           = "notifications.dlx"
	dlqQueueName          = "notifications.dlq"
	idempotencyTTL        = 24 * time.Hour
)

// Mailer sends the store's transactional mail.
type Mailer interface {
	SendWelcome(toEmail, userName string) error
	SendOrderConfirmation(toEmail, userName string, order *model.Order) error
	SendOrderStatusUpdate(toEmail, userName string, order *model.Order) error
}

// NotificationWorker consumes notification events and delivers email.
// Events are deduplicated through Redis so a redelivered message never
// produces a second mail.
type NotificationWorker struct {
	channel     *amqp.Channel
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	mailer      Mailer
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewNotificationWorker(
	ch *amqp.Channel,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	mailer Mailer,
	redisClient *redis.Client,
	log *slog.Logger,
) *NotificationWorker {
	return &NotificationWorker{
		channel:     ch,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		mailer:      mailer,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, notificationQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(notificationQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": notificationQueueName,
	}); err != nil {
		return fmt.Errorf("declare notification queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *NotificationWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(notificationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("notification worker started")
	return nil
}

func (w *NotificationWorker) Stop() { close(w.done) }

func (w *NotificationWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event model.NotificationMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		w.log.Error("unmarshal notification", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("event_id", event.EventID, "type", event.Type, "user_id", event.UserID)

	idempotencyKey := "notification_sent:" + event.EventID.String()
	if w.redisClient != nil {
		exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
		if err != nil {
			log.Error("check idempotency key", "error", err)
			_ = msg.Nack(false, true)
			return
		}
		if exists > 0 {
			log.Info("notification already sent, skipping")
			_ = msg.Ack(false)
			return
		}
	}

	if err := w.deliver(ctx, event); err != nil {
		log.Error("deliver notification failed", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if w.redisClient != nil {
		if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
			log.Error("set idempotency key", "error", err)
		}
	}

	_ = msg.Ack(false)
	log.Info("notification delivered")
}

func (w *NotificationWorker) deliver(ctx context.Context, event model.NotificationMessage) error {
	user, err := w.userRepo.GetByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found: %s", event.UserID)
	}

	switch event.Type {
	case model.NotificationUserRegistered:
		return w.mailer.SendWelcome(user.Email, user.FirstName)

	case model.NotificationOrderCreated, model.NotificationOrderStatusChanged:
		order, err := w.orderRepo.GetByID(ctx, event.OrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if order == nil {
			return fmt.Errorf("order not found: %s", event.OrderID)
		}
		if event.Type == model.NotificationOrderCreated {
			return w.mailer.SendOrderConfirmation(user.Email, user.FirstName, order)
		}
		return w.mailer.SendOrderStatusUpdate(user.Email, user.FirstName, order)

	default:
		return fmt.Errorf("unknown notification type: %s", event.Type)
	}
}
