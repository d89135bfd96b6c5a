package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
	"github.com/aliskhannn/checkin-scheduler/internal/rabbitmq/queue"
)

var (
	ErrNoResponses    = errors.New("reminder has no responses")
	ErrEmptyUpdate    = errors.New("nothing to update")
	ErrUnknownChannel = errors.New("unknown notification channel")
)

const (
	noticeTitle = "Time to check in"
	noticeBody  = "Tap to answer a few quick questions"

	// statusTTL bounds how long a refill that raced a transition can serve
	// the old status.
	statusTTL = 30 * time.Second
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/reminder/mock.go -package=mocks

type reminderPublisher interface {
	Publish(msg queue.ReminderMessage, strategy retry.Strategy) error
}

type reminderRepository interface {
	GetByID(ctx context.Context, id int64) (model.Reminder, error)
	GetStatusByID(ctx context.Context, id int64) (model.Status, error)
	List(ctx context.Context, filter model.ReminderFilter) ([]model.Reminder, error)
	Next(ctx context.Context, userID int64, now time.Time) (model.Reminder, error)
	Upcoming(ctx context.Context, userID int64, now time.Time, limit int) ([]model.Reminder, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status, sentTime *time.Time) (model.Reminder, error)
	SetSentTime(ctx context.Context, id int64, sentTime time.Time) (model.Reminder, error)
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error)
}

type responseRepository interface {
	CountByReminder(ctx context.Context, reminderID int64) (int, error)
	ListByReminder(ctx context.Context, reminderID int64) ([]model.Response, error)
}

// Notifier pushes a check-in prompt over one channel.
type Notifier interface {
	Send(ctx context.Context, title, body, link string) error
}

// cache is the subset of the wbf redis client the status cache needs. Reads
// are single attempts; a miss goes straight to the database.
type cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Detail is a reminder together with the responses recorded against it.
type Detail struct {
	model.Reminder
	ResponseCount int              `json:"response_count"`
	Responses     []model.Response `json:"responses"`
}

type Service struct {
	repo       reminderRepository
	responses  responseRepository
	queue      reminderPublisher
	notifiers  map[string]Notifier
	cache      cache
	pwaBaseURL string
}

func NewService(
	repo reminderRepository,
	responses responseRepository,
	queue reminderPublisher,
	notifiers map[string]Notifier,
	cache cache,
	pwaBaseURL string,
) *Service {
	return &Service{
		repo:       repo,
		responses:  responses,
		queue:      queue,
		notifiers:  notifiers,
		cache:      cache,
		pwaBaseURL: strings.TrimRight(pwaBaseURL, "/"),
	}
}

func statusKey(id int64) string {
	return fmt.Sprintf("reminder:%d:status", id)
}

func (s *Service) cacheStatus(ctx context.Context, id int64, status model.Status) {
	if err := s.cache.SetEX(ctx, statusKey(id), string(status), statusTTL).Err(); err != nil {
		zlog.Logger.Error().Err(err).Int64("id", id).Msg("failed to cache reminder status")
	}
}

// invalidateStatus drops the cached status after a transition. The next read
// refills it from the database, so a writer never overwrites a newer status.
func (s *Service) invalidateStatus(ctx context.Context, strategy retry.Strategy, id int64) {
	if strategy.Attempts < 1 {
		strategy.Attempts = 1
	}

	err := retry.Do(func() error {
		return s.cache.Del(ctx, statusKey(id)).Err()
	}, strategy)
	if err != nil {
		zlog.Logger.Error().Err(err).Int64("id", id).Msg("failed to invalidate reminder status")
	}
}

// GetByID returns the reminder with its responses.
func (s *Service) GetByID(ctx context.Context, id int64) (Detail, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("get reminder: %w", err)
	}

	responses, err := s.responses.ListByReminder(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("list reminder responses: %w", err)
	}

	return Detail{Reminder: r, ResponseCount: len(responses), Responses: responses}, nil
}

func (s *Service) List(ctx context.Context, filter model.ReminderFilter) ([]model.Reminder, error) {
	reminders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	return reminders, nil
}

// Next returns the oldest due reminder still waiting to be sent.
func (s *Service) Next(ctx context.Context, userID int64, now time.Time) (model.Reminder, error) {
	r, err := s.repo.Next(ctx, userID, now)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("get next reminder: %w", err)
	}

	return r, nil
}

func (s *Service) Upcoming(ctx context.Context, userID int64, now time.Time, limit int) ([]model.Reminder, error) {
	reminders, err := s.repo.Upcoming(ctx, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming reminders: %w", err)
	}

	return reminders, nil
}

// GetStatus reads the status from cache, falling back to the database on a
// miss and refilling the cache.
func (s *Service) GetStatus(ctx context.Context, id int64) (model.Status, error) {
	cached, err := s.cache.Get(ctx, statusKey(id))
	if err == nil {
		if status, parseErr := model.ParseStatus(cached); parseErr == nil {
			return status, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Int64("id", id).Msg("failed to get reminder status from cache")
	}

	status, err := s.repo.GetStatusByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get reminder status: %w", err)
	}

	s.cacheStatus(ctx, id, status)

	return status, nil
}

// Acknowledge records that the user opened the reminder.
func (s *Service) Acknowledge(ctx context.Context, strategy retry.Strategy, id int64) (model.Reminder, error) {
	return s.setStatus(ctx, strategy, id, model.StatusAcknowledged, nil)
}

// Update applies a status change, a sent_time change, or both.
func (s *Service) Update(ctx context.Context, strategy retry.Strategy, id int64, status *model.Status, sentTime *time.Time) (model.Reminder, error) {
	switch {
	case status != nil:
		return s.setStatus(ctx, strategy, id, *status, sentTime)
	case sentTime != nil:
		r, err := s.repo.SetSentTime(ctx, id, *sentTime)
		if err != nil {
			return model.Reminder{}, fmt.Errorf("set sent time: %w", err)
		}
		return r, nil
	default:
		return model.Reminder{}, ErrEmptyUpdate
	}
}

// Complete marks the reminder COMPLETED once at least one response is
// recorded against it.
func (s *Service) Complete(ctx context.Context, strategy retry.Strategy, id int64) (model.Reminder, error) {
	if _, err := s.repo.GetStatusByID(ctx, id); err != nil {
		return model.Reminder{}, fmt.Errorf("get reminder status: %w", err)
	}

	n, err := s.responses.CountByReminder(ctx, id)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("count responses: %w", err)
	}
	if n == 0 {
		return model.Reminder{}, ErrNoResponses
	}

	return s.setStatus(ctx, strategy, id, model.StatusCompleted, nil)
}

func (s *Service) setStatus(ctx context.Context, strategy retry.Strategy, id int64, status model.Status, sentTime *time.Time) (model.Reminder, error) {
	r, err := s.repo.UpdateStatus(ctx, id, status, sentTime)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("update reminder status: %w", err)
	}

	s.invalidateStatus(ctx, strategy, id)

	return r, nil
}

// DispatchDue promotes up to limit due reminders to SENT and queues one
// delivery request for each. It returns how many were queued.
func (s *Service) DispatchDue(ctx context.Context, strategy retry.Strategy, now time.Time, limit int) (int, error) {
	claimed, err := s.repo.ClaimDue(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("claim due reminders: %w", err)
	}

	queued := 0
	for _, r := range claimed {
		s.invalidateStatus(ctx, strategy, r.ID)

		sentAt := now.UTC()
		if r.SentTime != nil {
			sentAt = *r.SentTime
		}

		msg := queue.ReminderMessage{ReminderID: r.ID, UserID: r.UserID, SentAt: sentAt}
		if err := s.queue.Publish(msg, strategy); err != nil {
			zlog.Logger.Error().Err(err).Int64("id", r.ID).Msg("failed to publish reminder for delivery")
			continue
		}

		queued++
	}

	return queued, nil
}

// Channels lists the configured delivery channels in a stable order.
func (s *Service) Channels() []string {
	channels := make([]string, 0, len(s.notifiers))
	for name := range s.notifiers {
		channels = append(channels, name)
	}
	sort.Strings(channels)

	return channels
}

// Link returns the URL that opens the reminder in the web app.
func (s *Service) Link(reminderID int64) string {
	return fmt.Sprintf("%s/reminder/%d", s.pwaBaseURL, reminderID)
}

// Send pushes the generic check-in prompt for msg over channel. The prompt
// carries no question text.
func (s *Service) Send(ctx context.Context, channel string, msg queue.ReminderMessage) error {
	notifier, ok := s.notifiers[channel]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}

	if err := notifier.Send(ctx, noticeTitle, noticeBody, s.Link(msg.ReminderID)); err != nil {
		return fmt.Errorf("send via %s: %w", channel, err)
	}

	return nil
}
