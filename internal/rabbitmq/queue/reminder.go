package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

const (
	ExchangeName   = "reminder-exchange"
	MainQueueName  = "reminder-delivery"
	RetryQueueName = "reminder-delivery-retry"
	DLQName        = "reminder-delivery-dlq"
	RoutingKey     = "reminder.sent"
)

// ReminderMessage asks the delivery workers to push a SENT reminder to the
// user. It carries no question text.
type ReminderMessage struct {
	MessageID  uuid.UUID `json:"message_id"`
	ReminderID int64     `json:"reminder_id"`
	UserID     int64     `json:"user_id"`
	SentAt     time.Time `json:"sent_at"`
}

// ReminderQueue publishes and consumes delivery requests.
type ReminderQueue struct {
	Publisher *rabbitmq.Publisher
	Consumer  *rabbitmq.Consumer
}

// NewReminderQueue declares the exchange, the delivery queue with its retry
// and dead-letter queues, and binds them on ch.
func NewReminderQueue(ch *rabbitmq.Channel, retryTTL time.Duration) (*ReminderQueue, error) {
	exchange := rabbitmq.NewExchange(ExchangeName, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	_, err := qm.DeclareQueue(DLQName, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	if retryTTL <= 0 {
		retryTTL = 5 * time.Second
	}

	retryArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": MainQueueName,
		"x-message-ttl":             int32(retryTTL / time.Millisecond),
	}

	_, err = qm.DeclareQueue(RetryQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args:    retryArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	mainArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DLQName,
	}

	mainQ, err := qm.DeclareQueue(MainQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args:    mainArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	if err := ch.QueueBind(mainQ.Name, RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the main queue: %w", err)
	}

	pub := rabbitmq.NewPublisher(ch, exchange.Name())
	cons := rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(mainQ.Name))

	return &ReminderQueue{Publisher: pub, Consumer: cons}, nil
}

// Publish sends msg to the delivery queue.
func (q *ReminderQueue) Publish(msg ReminderMessage, strategy retry.Strategy) error {
	if msg.MessageID == uuid.Nil {
		msg.MessageID = uuid.New()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.Publisher.PublishWithRetry(body, RoutingKey, "application/json", strategy)
}

// Consume decodes delivery requests into out until ctx is done or the
// consumer stops.
func (q *ReminderQueue) Consume(ctx context.Context, out chan<- ReminderMessage, strategy retry.Strategy) error {
	msgChan := make(chan []byte)

	go func() {
		for m := range msgChan {
			msg, err := DecodeMessage(m)
			if err != nil {
				zlog.Logger.Error().Err(err).Msg("failed to unmarshal message")
				continue
			}

			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return q.Consumer.ConsumeWithRetry(msgChan, strategy)
}

// DecodeMessage parses a delivery request body.
func DecodeMessage(body []byte) (ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return ReminderMessage{}, err
	}
	if msg.ReminderID <= 0 {
		return ReminderMessage{}, fmt.Errorf("message %s has no reminder id", msg.MessageID)
	}

	return msg, nil
}
