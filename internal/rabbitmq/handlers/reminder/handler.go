package reminder

import (
	"context"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/rabbitmq/queue"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/reminder/mock.go -package=mocks
type deliveryService interface {
	Channels() []string
	Send(ctx context.Context, channel string, msg queue.ReminderMessage) error
}

type Handler struct {
	service deliveryService
}

func NewHandler(svc deliveryService) *Handler {
	return &Handler{
		service: svc,
	}
}

// HandleMessage pushes the reminder over every configured channel, retrying
// each one independently. It reports how many channels succeeded.
func (h *Handler) HandleMessage(ctx context.Context, msg queue.ReminderMessage, strategy retry.Strategy) int {
	zlog.Logger.Info().Int64("reminder_id", msg.ReminderID).Time("sent_at", msg.SentAt).Msg("delivering reminder")

	delivered := 0
	for _, channel := range h.service.Channels() {
		err := retry.Do(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return h.service.Send(ctx, channel, msg)
			}
		}, strategy)
		if err != nil {
			zlog.Logger.Error().Err(err).
				Int64("reminder_id", msg.ReminderID).
				Str("channel", channel).
				Msg("failed to deliver reminder")
			continue
		}

		delivered++
	}

	if delivered == 0 {
		zlog.Logger.Warn().Int64("reminder_id", msg.ReminderID).Msg("reminder was not delivered on any channel")
		return 0
	}

	zlog.Logger.Info().Int64("reminder_id", msg.ReminderID).Int("channels", delivered).Msg("reminder delivered")

	return delivered
}
