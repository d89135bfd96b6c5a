package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/aliskhannn/checkin-scheduler/internal/mocks/rabbitmq/handlers/reminder"
	"github.com/aliskhannn/checkin-scheduler/internal/rabbitmq/queue"
)

func testMessage() queue.ReminderMessage {
	return queue.ReminderMessage{
		ReminderID: 42,
		UserID:     1,
		SentAt:     time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestHandler_HandleMessage_AllChannels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockdeliveryService(ctrl)
	h := NewHandler(mockService)

	msg := testMessage()
	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}

	mockService.EXPECT().Channels().Return([]string{"email", "ntfy"})
	mockService.EXPECT().Send(gomock.Any(), "email", msg).Return(nil)
	mockService.EXPECT().Send(gomock.Any(), "ntfy", msg).Return(nil)

	assert.Equal(t, 2, h.HandleMessage(context.Background(), msg, strategy))
}

func TestHandler_HandleMessage_OneChannelFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockdeliveryService(ctrl)
	h := NewHandler(mockService)

	msg := testMessage()
	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}

	// a failing channel does not stop the others
	mockService.EXPECT().Channels().Return([]string{"email", "ntfy", "telegram"})
	mockService.EXPECT().Send(gomock.Any(), "email", msg).Return(errors.New("smtp down"))
	mockService.EXPECT().Send(gomock.Any(), "ntfy", msg).Return(nil)
	mockService.EXPECT().Send(gomock.Any(), "telegram", msg).Return(nil)

	assert.Equal(t, 2, h.HandleMessage(context.Background(), msg, strategy))
}

func TestHandler_HandleMessage_AllFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockdeliveryService(ctrl)
	h := NewHandler(mockService)

	msg := testMessage()
	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}

	mockService.EXPECT().Channels().Return([]string{"ntfy"})
	mockService.EXPECT().Send(gomock.Any(), "ntfy", msg).Return(errors.New("timeout"))

	assert.Equal(t, 0, h.HandleMessage(context.Background(), msg, strategy))
}

func TestHandler_HandleMessage_ContextCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockdeliveryService(ctrl)
	h := NewHandler(mockService)

	msg := testMessage()
	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Send is never called once the context is gone
	mockService.EXPECT().Channels().Return([]string{"ntfy"})

	assert.Equal(t, 0, h.HandleMessage(ctx, msg, strategy))
}
