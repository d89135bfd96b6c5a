package worker

import (
	"context"
	"sync"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
	"github.com/aliskhannn/checkin-scheduler/internal/rabbitmq/queue"
)

//go:generate mockgen -source=delivery.go -destination=../mocks/worker/mock.go -package=mocks
type reminderConsumer interface {
	Consume(ctx context.Context, out chan<- queue.ReminderMessage, strategy retry.Strategy) error
}

type messageHandler interface {
	HandleMessage(ctx context.Context, msg queue.ReminderMessage, strategy retry.Strategy) int
}

type reminderService interface {
	GetStatus(ctx context.Context, id int64) (model.Status, error)
}

// Delivery drains the delivery queue with a fixed pool of workers.
type Delivery struct {
	queue   reminderConsumer
	handler messageHandler
	service reminderService
}

func NewDelivery(q reminderConsumer, h messageHandler, s reminderService) *Delivery {
	return &Delivery{
		queue:   q,
		handler: h,
		service: s,
	}
}

// Run blocks until ctx is done and every worker has returned.
func (d *Delivery) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	msgChan := make(chan queue.ReminderMessage, workerCount*10)

	go func() {
		if err := d.queue.Consume(ctx, msgChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume messages")
		}
	}()

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Printf("delivery worker-%d started", id)

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Printf("delivery worker-%d shutting down", id)
					return
				case msg, ok := <-msgChan:
					if !ok {
						zlog.Logger.Printf("delivery worker-%d channel closed, shutting down", id)
						return
					}

					d.process(ctx, msg, strategy)
				}
			}
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Print("delivery stopped")
}

// process skips reminders that moved on from SENT before their push went out,
// e.g. ones the user already opened in the web app.
func (d *Delivery) process(ctx context.Context, msg queue.ReminderMessage, strategy retry.Strategy) {
	status, err := d.service.GetStatus(ctx, msg.ReminderID)
	if err != nil {
		zlog.Logger.Error().Err(err).Int64("reminder_id", msg.ReminderID).Msg("failed to get reminder status")
		return
	}

	if status != model.StatusSent {
		zlog.Logger.Info().
			Int64("reminder_id", msg.ReminderID).
			Str("status", string(status)).
			Msg("reminder no longer awaiting delivery, skipping")
		return
	}

	d.handler.HandleMessage(ctx, msg, strategy)
}
