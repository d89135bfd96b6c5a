package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/aliskhannn/checkin-scheduler/internal/mocks/service/reminder"
	"github.com/aliskhannn/checkin-scheduler/internal/model"
	"github.com/aliskhannn/checkin-scheduler/internal/rabbitmq/queue"
	reminderrepo "github.com/aliskhannn/checkin-scheduler/internal/repository/reminder"
)

// memCache keeps statuses in a map and answers misses with redis.Nil like
// the real client.
type memCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string)}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *memCache) SetEX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (c *memCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestService_GetStatus_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(nil, nil, nil, nil, cacheMock, "")

	cacheMock.EXPECT().Get(gomock.Any(), "reminder:7:status").Return("sent", nil)

	status, err := svc.GetStatus(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusSent, status)
}

func TestService_GetStatus_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, nil, nil, nil, cacheMock, "")

	// one lookup only: a miss must not be retried before hitting the database
	cacheMock.EXPECT().Get(gomock.Any(), "reminder:7:status").Return("", redis.Nil).Times(1)
	repoMock.EXPECT().GetStatusByID(gomock.Any(), int64(7)).Return(model.StatusScheduled, nil)
	cacheMock.EXPECT().SetEX(gomock.Any(), "reminder:7:status", "scheduled", statusTTL).
		Return(redis.NewStatusResult("OK", nil))

	start := time.Now()
	status, err := svc.GetStatus(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, status)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestService_GetStatus_CacheDownFallsBackOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, nil, nil, nil, cacheMock, "")

	cacheMock.EXPECT().Get(gomock.Any(), "reminder:8:status").Return("", errors.New("connection refused")).Times(1)
	repoMock.EXPECT().GetStatusByID(gomock.Any(), int64(8)).Return(model.StatusSent, nil)
	cacheMock.EXPECT().SetEX(gomock.Any(), "reminder:8:status", "sent", statusTTL).
		Return(redis.NewStatusResult("", errors.New("connection refused")))

	status, err := svc.GetStatus(context.Background(), 8)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusSent, status)
}

func TestService_GetStatus_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, nil, nil, nil, cacheMock, "")

	cacheMock.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", redis.Nil)
	repoMock.EXPECT().GetStatusByID(gomock.Any(), int64(9)).Return(model.Status(""), reminderrepo.ErrReminderNotFound)

	_, err := svc.GetStatus(context.Background(), 9)
	assert.ErrorIs(t, err, reminderrepo.ErrReminderNotFound)
}

func TestService_AcknowledgeDuringDispatchIsNotOverwritten(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	queueMock := mocks.NewMockreminderPublisher(ctrl)
	statusCache := newMemCache()
	svc := NewService(repoMock, nil, queueMock, nil, statusCache, "")

	strategy := retry.Strategy{Attempts: 1}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	claimed := model.Reminder{ID: 11, UserID: 1, Status: model.StatusSent, SentTime: &now}

	// the user opens the reminder after the claim commits but before the
	// sweep gets to it
	repoMock.EXPECT().ClaimDue(gomock.Any(), now, 10).DoAndReturn(
		func(ctx context.Context, _ time.Time, _ int) ([]model.Reminder, error) {
			_, err := svc.Acknowledge(ctx, strategy, 11)
			require.NoError(t, err)
			return []model.Reminder{claimed}, nil
		})
	repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(11), model.StatusAcknowledged, nil).
		Return(model.Reminder{ID: 11, Status: model.StatusAcknowledged}, nil)
	queueMock.EXPECT().Publish(gomock.Any(), strategy).Return(nil)
	repoMock.EXPECT().GetStatusByID(gomock.Any(), int64(11)).Return(model.StatusAcknowledged, nil)

	n, err := svc.DispatchDue(context.Background(), strategy, now, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	status, err := svc.GetStatus(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAcknowledged, status)
}

func TestService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	respMock := mocks.NewMockresponseRepository(ctrl)
	svc := NewService(repoMock, respMock, nil, nil, nil, "")

	r := model.Reminder{ID: 3, UserID: 1, Status: model.StatusAcknowledged}
	responses := []model.Response{{ID: 10, QuestionText: "q", ResponseText: "a"}}

	repoMock.EXPECT().GetByID(gomock.Any(), int64(3)).Return(r, nil)
	respMock.EXPECT().ListByReminder(gomock.Any(), int64(3)).Return(responses, nil)

	d, err := svc.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, r, d.Reminder)
	assert.Equal(t, responses, d.Responses)
	assert.Equal(t, 1, d.ResponseCount)
}

func TestService_Acknowledge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, nil, nil, nil, cacheMock, "")

	strategy := retry.Strategy{Attempts: 1}
	updated := model.Reminder{ID: 4, Status: model.StatusAcknowledged}

	repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(4), model.StatusAcknowledged, nil).Return(updated, nil)
	cacheMock.EXPECT().Del(gomock.Any(), "reminder:4:status").Return(redis.NewIntResult(1, nil))

	r, err := svc.Acknowledge(context.Background(), strategy, 4)
	assert.NoError(t, err)
	assert.Equal(t, updated, r)
}

func TestService_Acknowledge_InvalidTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	svc := NewService(repoMock, nil, nil, nil, nil, "")

	repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(4), model.StatusAcknowledged, nil).
		Return(model.Reminder{}, model.ErrInvalidTransition)

	_, err := svc.Acknowledge(context.Background(), retry.Strategy{}, 4)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, nil, nil, nil, cacheMock, "")

	strategy := retry.Strategy{}
	sent := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	status := model.StatusSent

	t.Run("status and sent time", func(t *testing.T) {
		repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(5), model.StatusSent, &sent).
			Return(model.Reminder{ID: 5, Status: model.StatusSent, SentTime: &sent}, nil)
		cacheMock.EXPECT().Del(gomock.Any(), "reminder:5:status").Return(redis.NewIntResult(0, nil))

		r, err := svc.Update(context.Background(), strategy, 5, &status, &sent)
		require.NoError(t, err)
		assert.Equal(t, model.StatusSent, r.Status)
	})

	t.Run("sent time only", func(t *testing.T) {
		repoMock.EXPECT().SetSentTime(gomock.Any(), int64(5), sent).
			Return(model.Reminder{ID: 5, Status: model.StatusScheduled, SentTime: &sent}, nil)

		r, err := svc.Update(context.Background(), strategy, 5, nil, &sent)
		require.NoError(t, err)
		assert.Equal(t, &sent, r.SentTime)
	})

	t.Run("nothing", func(t *testing.T) {
		_, err := svc.Update(context.Background(), strategy, 5, nil, nil)
		assert.ErrorIs(t, err, ErrEmptyUpdate)
	})
}

func TestService_Complete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	respMock := mocks.NewMockresponseRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, respMock, nil, nil, cacheMock, "")

	strategy := retry.Strategy{}

	t.Run("with responses", func(t *testing.T) {
		repoMock.EXPECT().GetStatusByID(gomock.Any(), int64(6)).Return(model.StatusAcknowledged, nil)
		respMock.EXPECT().CountByReminder(gomock.Any(), int64(6)).Return(2, nil)
		repoMock.EXPECT().UpdateStatus(gomock.Any(), int64(6), model.StatusCompleted, nil).
			Return(model.Reminder{ID: 6, Status: model.StatusCompleted}, nil)
		cacheMock.EXPECT().Del(gomock.Any(), "reminder:6:status").Return(redis.NewIntResult(1, nil))

		r, err := svc.Complete(context.Background(), strategy, 6)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, r.Status)
	})

	t.Run("without responses", func(t *testing.T) {
		repoMock.EXPECT().GetStatusByID(gomock.Any(), int64(6)).Return(model.StatusSent, nil)
		respMock.EXPECT().CountByReminder(gomock.Any(), int64(6)).Return(0, nil)

		_, err := svc.Complete(context.Background(), strategy, 6)
		assert.ErrorIs(t, err, ErrNoResponses)
	})

	t.Run("missing reminder", func(t *testing.T) {
		repoMock.EXPECT().GetStatusByID(gomock.Any(), int64(60)).
			Return(model.Status(""), reminderrepo.ErrReminderNotFound)

		_, err := svc.Complete(context.Background(), strategy, 60)
		assert.ErrorIs(t, err, reminderrepo.ErrReminderNotFound)
	})
}

func TestService_DispatchDue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	queueMock := mocks.NewMockreminderPublisher(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, nil, queueMock, nil, cacheMock, "")

	strategy := retry.Strategy{}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	claimed := []model.Reminder{
		{ID: 1, UserID: 1, Status: model.StatusSent, SentTime: &now},
		{ID: 2, UserID: 1, Status: model.StatusSent, SentTime: &now},
	}

	repoMock.EXPECT().ClaimDue(gomock.Any(), now, 50).Return(claimed, nil)
	cacheMock.EXPECT().Del(gomock.Any(), "reminder:1:status").Return(redis.NewIntResult(0, nil))
	cacheMock.EXPECT().Del(gomock.Any(), "reminder:2:status").Return(redis.NewIntResult(0, nil))
	queueMock.EXPECT().Publish(queue.ReminderMessage{ReminderID: 1, UserID: 1, SentAt: now}, strategy).Return(nil)
	queueMock.EXPECT().Publish(queue.ReminderMessage{ReminderID: 2, UserID: 1, SentAt: now}, strategy).
		Return(errors.New("broker down"))

	n, err := svc.DispatchDue(context.Background(), strategy, now, 50)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_DispatchDue_ClaimError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMockreminderRepository(ctrl)
	svc := NewService(repoMock, nil, nil, nil, nil, "")

	repoMock.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), 10).Return(nil, errors.New("db down"))

	_, err := svc.DispatchDue(context.Background(), retry.Strategy{}, time.Now(), 10)
	assert.Error(t, err)
}

func TestService_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ntfyMock := mocks.NewMockNotifier(ctrl)
	emailMock := mocks.NewMockNotifier(ctrl)
	svc := NewService(nil, nil, nil, map[string]Notifier{
		"ntfy":  ntfyMock,
		"email": emailMock,
	}, nil, "https://pwa.example.com/")

	assert.Equal(t, []string{"email", "ntfy"}, svc.Channels())

	msg := queue.ReminderMessage{ReminderID: 12}
	ntfyMock.EXPECT().
		Send(gomock.Any(), "Time to check in", "Tap to answer a few quick questions", "https://pwa.example.com/reminder/12").
		Return(nil)

	assert.NoError(t, svc.Send(context.Background(), "ntfy", msg))

	err := svc.Send(context.Background(), "sms", msg)
	assert.ErrorIs(t, err, ErrUnknownChannel)
}
