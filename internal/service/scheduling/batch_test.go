package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mocks "github.com/aliskhannn/checkin-scheduler/internal/mocks/service/scheduling"
	"github.com/aliskhannn/checkin-scheduler/internal/model"
	"github.com/aliskhannn/checkin-scheduler/internal/service/intelligence"
)

func TestScheduleAll_IsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	usersMock := mocks.NewMockuserRepository(ctrl)
	plannerMock := mocks.NewMockplanner(ctrl)
	store := newMemStore()

	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

	usersMock.EXPECT().ListUserIDs(gomock.Any()).Return([]int64{1, 2, 3}, nil)
	usersMock.EXPECT().GetUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64) (model.User, error) {
			return utcUser(id), nil
		}).Times(3)
	plannerMock.EXPECT().Plan(gomock.Any(), gomock.Any(), now).
		DoAndReturn(func(_ context.Context, id int64, _ time.Time) (intelligence.Plan, error) {
			if id == 2 {
				return intelligence.Plan{}, errors.New("history unavailable")
			}
			return planWith(6), nil
		}).Times(3)

	s := NewScheduler(usersMock, store, plannerMock, 2)

	res, err := s.ScheduleAll(context.Background(), now)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Users)
	assert.Equal(t, 4, res.TotalScheduled)
	assert.Equal(t, []int64{2}, res.Failed)
}

func TestScheduleAll_PanicIsContained(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	usersMock := mocks.NewMockuserRepository(ctrl)
	plannerMock := mocks.NewMockplanner(ctrl)

	usersMock.EXPECT().ListUserIDs(gomock.Any()).Return([]int64{1}, nil)
	usersMock.EXPECT().GetUser(gomock.Any(), int64(1)).Return(utcUser(1), nil)
	plannerMock.EXPECT().Plan(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(context.Context, int64, time.Time) (intelligence.Plan, error) {
			panic("boom")
		})

	s := NewScheduler(usersMock, newMemStore(), plannerMock, 1)

	res, err := s.ScheduleAll(context.Background(), time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, res.Failed)
}

func TestScheduleAll_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	usersMock := mocks.NewMockuserRepository(ctrl)
	usersMock.EXPECT().ListUserIDs(gomock.Any()).Return(nil, errors.New("db down"))

	s := NewScheduler(usersMock, newMemStore(), nil, 1)

	_, err := s.ScheduleAll(context.Background(), time.Now())
	assert.Error(t, err)
}
