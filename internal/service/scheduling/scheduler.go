package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
	"github.com/aliskhannn/checkin-scheduler/internal/service/intelligence"
)

//go:generate mockgen -source=scheduler.go -destination=../../mocks/service/scheduling/mock.go -package=mocks

type userRepository interface {
	GetUser(ctx context.Context, id int64) (model.User, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
}

type reminderStore interface {
	ExistsAt(ctx context.Context, userID int64, scheduledTime time.Time) (bool, error)
	CreateReminder(ctx context.Context, reminder model.Reminder) (model.Reminder, bool, error)
}

type planner interface {
	Plan(ctx context.Context, userID int64, now time.Time) (intelligence.Plan, error)
}

// Result describes one scheduling run for one user.
type Result struct {
	Scheduled      []model.Reminder
	Skipped        int // slots in the past or already taken
	TotalQuestions int
	Categories     []model.Category
	Reasoning      string
}

// Scheduler turns a question plan into reminders inside a user's day.
type Scheduler struct {
	users       userRepository
	reminders   reminderStore
	planner     planner
	concurrency int
}

// NewScheduler creates a scheduler. concurrency bounds how many users
// ScheduleAll processes at once.
func NewScheduler(users userRepository, reminders reminderStore, planner planner, concurrency int) *Scheduler {
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Scheduler{users: users, reminders: reminders, planner: planner, concurrency: concurrency}
}

// ScheduleUser runs one scheduling cycle for the user at now.
func (s *Scheduler) ScheduleUser(ctx context.Context, userID int64, now time.Time) (Result, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("get user: %w", err)
	}

	if !dayHasFutureSlot(user, now) {
		zlog.Logger.Debug().Int64("user_id", userID).Msg("no slots left today, skipping plan")
		return Result{}, nil
	}

	plan, err := s.planner.Plan(ctx, userID, now)
	if err != nil {
		return Result{}, fmt.Errorf("plan questions: %w", err)
	}

	questions := plan.TaggedQuestions()
	res := Result{
		TotalQuestions: len(questions),
		Categories:     plan.Targets(),
		Reasoning:      plan.Reasoning,
	}
	if len(questions) == 0 {
		return res, nil
	}

	slots, err := s.openSlots(ctx, user, SlotCount(len(questions)), now)
	if err != nil {
		return res, err
	}
	res.Skipped = SlotCount(len(questions)) - len(slots)

	// Questions go only to slots that are still open, so a late run packs
	// the whole plan into the remaining reminders instead of dropping the
	// chunks that belonged to passed or taken slots.
	for i, chunk := range Distribute(questions, len(slots)) {
		if len(chunk) == 0 {
			continue
		}

		texts, categories := splitChunk(chunk)

		reminder, created, err := s.reminders.CreateReminder(ctx, model.Reminder{
			UserID:        userID,
			ScheduledTime: slots[i],
			Questions:     model.NumberQuestions(texts),
			Categories:    categories,
		})
		if err != nil {
			return res, fmt.Errorf("create reminder at %s: %w", slots[i].Format(time.RFC3339), err)
		}
		if !created {
			// a concurrent run took the slot after the pre-check
			res.Skipped++
			continue
		}

		res.Scheduled = append(res.Scheduled, reminder)
	}

	return res, nil
}

// splitChunk returns the question texts of chunk and the distinct categories
// they ask about, in first-seen order. A reminder is tagged only with
// categories it actually carries a question for, so eligibility does not
// count a category as asked when slicing left it out.
func splitChunk(chunk []intelligence.TaggedQuestion) ([]string, []model.Category) {
	texts := make([]string, 0, len(chunk))
	var categories []model.Category
	seen := make(map[model.Category]bool)

	for _, q := range chunk {
		texts = append(texts, q.Text)
		if !seen[q.Category] {
			seen[q.Category] = true
			categories = append(categories, q.Category)
		}
	}

	return texts, categories
}

// dayHasFutureSlot reports whether any slot of the densest layout is still
// ahead of now. When none is, the plan would have nowhere to go.
func dayHasFutureSlot(user model.User, now time.Time) bool {
	wake, end := user.Window()
	for _, minute := range SlotMinutes(wake, end, maxSlots) {
		if LocalInstant(now, user.Location, minute).After(now) {
			return true
		}
	}
	return false
}

// openSlots returns the UTC instants of today's slots that are still in the
// future and not yet taken by another reminder.
func (s *Scheduler) openSlots(ctx context.Context, user model.User, n int, now time.Time) ([]time.Time, error) {
	wake, end := user.Window()

	var open []time.Time
	for _, minute := range SlotMinutes(wake, end, n) {
		at := LocalInstant(now, user.Location, minute)
		if !at.After(now) {
			zlog.Logger.Debug().Int64("user_id", user.ID).Time("slot", at).Msg("slot already passed")
			continue
		}

		at = at.UTC()
		exists, err := s.reminders.ExistsAt(ctx, user.ID, at)
		if err != nil {
			return nil, fmt.Errorf("check slot %s: %w", at.Format(time.RFC3339), err)
		}
		if exists {
			zlog.Logger.Debug().Int64("user_id", user.ID).Time("slot", at).Msg("slot already scheduled")
			continue
		}

		open = append(open, at)
	}

	return open, nil
}
