package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"golang.org/x/sync/errgroup"
)

// BatchResult summarises a scheduling run over every user.
type BatchResult struct {
	RunID          string  `json:"run_id"`
	Users          int     `json:"users"`
	TotalScheduled int     `json:"total_scheduled"`
	Failed         []int64 `json:"failed"`
}

// ScheduleAll runs ScheduleUser for every user. A failing user is logged and
// recorded in the result; it never stops the others.
func (s *Scheduler) ScheduleAll(ctx context.Context, now time.Time) (BatchResult, error) {
	ids, err := s.users.ListUserIDs(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list users: %w", err)
	}

	res := BatchResult{RunID: uuid.NewString(), Users: len(ids)}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		id := id
		g.Go(func() error {
			scheduled, err := s.scheduleIsolated(ctx, id, now)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				res.Failed = append(res.Failed, id)
				zlog.Logger.Error().Err(err).Str("run_id", res.RunID).Int64("user_id", id).
					Msg("failed to schedule reminders for user")
				return nil
			}

			res.TotalScheduled += scheduled
			return nil
		})
	}

	_ = g.Wait()

	zlog.Logger.Info().Str("run_id", res.RunID).Int("users", res.Users).
		Int("scheduled", res.TotalScheduled).Int("failed", len(res.Failed)).
		Msg("scheduling run finished")

	return res, ctx.Err()
}

func (s *Scheduler) scheduleIsolated(ctx context.Context, userID int64, now time.Time) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	res, err := s.ScheduleUser(ctx, userID, now)
	return len(res.Scheduled), err
}
