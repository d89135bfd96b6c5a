package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/aliskhannn/checkin-scheduler/internal/mocks/worker"
	"github.com/aliskhannn/checkin-scheduler/internal/model"
	"github.com/aliskhannn/checkin-scheduler/internal/rabbitmq/queue"
)

func feed(msg queue.ReminderMessage) func(context.Context, chan<- queue.ReminderMessage, retry.Strategy) error {
	return func(_ context.Context, out chan<- queue.ReminderMessage, _ retry.Strategy) error {
		out <- msg
		return nil
	}
}

func TestDelivery_Run_HandleMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConsumer := mocks.NewMockreminderConsumer(ctrl)
	mockHandler := mocks.NewMockmessageHandler(ctrl)
	mockService := mocks.NewMockreminderService(ctrl)

	d := NewDelivery(mockConsumer, mockHandler, mockService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	msg := queue.ReminderMessage{ReminderID: 5, UserID: 1, SentAt: time.Now()}
	handled := make(chan struct{})

	mockConsumer.EXPECT().Consume(gomock.Any(), gomock.Any(), strategy).DoAndReturn(feed(msg))
	mockService.EXPECT().GetStatus(gomock.Any(), int64(5)).Return(model.StatusSent, nil)
	mockHandler.EXPECT().HandleMessage(gomock.Any(), msg, strategy).DoAndReturn(
		func(context.Context, queue.ReminderMessage, retry.Strategy) int {
			close(handled)
			return 1
		},
	)

	stopped := make(chan struct{})
	go func() {
		d.Run(ctx, strategy, 2)
		close(stopped)
	}()

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("message was not handled")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case <-stopped:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestDelivery_Run_SkipsAcknowledged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConsumer := mocks.NewMockreminderConsumer(ctrl)
	mockHandler := mocks.NewMockmessageHandler(ctrl)
	mockService := mocks.NewMockreminderService(ctrl)

	d := NewDelivery(mockConsumer, mockHandler, mockService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	msg := queue.ReminderMessage{ReminderID: 6}
	checked := make(chan struct{})

	mockConsumer.EXPECT().Consume(gomock.Any(), gomock.Any(), strategy).DoAndReturn(feed(msg))
	mockService.EXPECT().GetStatus(gomock.Any(), int64(6)).DoAndReturn(
		func(context.Context, int64) (model.Status, error) {
			close(checked)
			return model.StatusAcknowledged, nil
		},
	)

	go d.Run(ctx, strategy, 1)

	<-checked
	time.Sleep(20 * time.Millisecond)
	cancel()
}

func TestDelivery_Run_GetStatusError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConsumer := mocks.NewMockreminderConsumer(ctrl)
	mockHandler := mocks.NewMockmessageHandler(ctrl)
	mockService := mocks.NewMockreminderService(ctrl)

	d := NewDelivery(mockConsumer, mockHandler, mockService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	msg := queue.ReminderMessage{ReminderID: 7}
	checked := make(chan struct{})

	mockConsumer.EXPECT().Consume(gomock.Any(), gomock.Any(), strategy).DoAndReturn(feed(msg))
	mockService.EXPECT().GetStatus(gomock.Any(), int64(7)).DoAndReturn(
		func(context.Context, int64) (model.Status, error) {
			close(checked)
			return model.Status(""), errors.New("db error")
		},
	)

	go d.Run(ctx, strategy, 1)

	<-checked
	time.Sleep(20 * time.Millisecond)
	cancel()
}

func TestDelivery_Run_ContextCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConsumer := mocks.NewMockreminderConsumer(ctrl)
	mockHandler := mocks.NewMockmessageHandler(ctrl)
	mockService := mocks.NewMockreminderService(ctrl)

	d := NewDelivery(mockConsumer, mockHandler, mockService)

	ctx, cancel := context.WithCancel(context.Background())
	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}

	mockConsumer.EXPECT().Consume(gomock.Any(), gomock.Any(), strategy).DoAndReturn(
		func(ctx context.Context, _ chan<- queue.ReminderMessage, _ retry.Strategy) error {
			<-ctx.Done()
			return nil
		},
	).AnyTimes()

	stopped := make(chan struct{})
	go func() {
		d.Run(ctx, strategy, 3)
		close(stopped)
	}()

	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("delivery did not stop")
	}
}
