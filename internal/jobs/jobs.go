package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/service/scheduling"
)

//go:generate mockgen -source=jobs.go -destination=../mocks/jobs/mock.go -package=mocks
type dispatcher interface {
	DispatchDue(ctx context.Context, strategy retry.Strategy, now time.Time, limit int) (int, error)
}

type generator interface {
	ScheduleAll(ctx context.Context, now time.Time) (scheduling.BatchResult, error)
}

// Config holds the cron specs and the sweep batch size.
type Config struct {
	SweepSpec      string
	GenerationSpec string
	SweepBatchSize int
	Strategy       retry.Strategy
}

// Runner drives the periodic dispatch sweep and the all-users generation run.
type Runner struct {
	cron       *cron.Cron
	cfg        Config
	dispatcher dispatcher
	generator  generator
	now        func() time.Time

	ctx context.Context
}

func NewRunner(cfg Config, d dispatcher, g generator) *Runner {
	logger := cronLogger{}

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	return &Runner{
		cron:       c,
		cfg:        cfg,
		dispatcher: d,
		generator:  g,
		now:        time.Now,
		ctx:        context.Background(),
	}
}

// Start registers both jobs and starts the cron loop. Job contexts derive
// from ctx.
func (r *Runner) Start(ctx context.Context) error {
	r.ctx = ctx

	if _, err := r.cron.AddFunc(r.cfg.SweepSpec, r.Sweep); err != nil {
		return fmt.Errorf("add dispatch sweep: %w", err)
	}

	if r.cfg.GenerationSpec != "" {
		if _, err := r.cron.AddFunc(r.cfg.GenerationSpec, r.Generate); err != nil {
			return fmt.Errorf("add generation run: %w", err)
		}
	}

	r.cron.Start()
	zlog.Logger.Info().
		Str("sweep", r.cfg.SweepSpec).
		Str("generation", r.cfg.GenerationSpec).
		Msg("jobs started")

	return nil
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	zlog.Logger.Info().Msg("jobs stopped")
}

// Sweep promotes due reminders to SENT and queues them for delivery.
func (r *Runner) Sweep() {
	n, err := r.dispatcher.DispatchDue(r.ctx, r.cfg.Strategy, r.now().UTC(), r.cfg.SweepBatchSize)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("dispatch sweep failed")
		return
	}

	if n > 0 {
		zlog.Logger.Info().Int("dispatched", n).Msg("dispatch sweep finished")
	}
}

// Generate runs one scheduling cycle for every user.
func (r *Runner) Generate() {
	if _, err := r.generator.ScheduleAll(r.ctx, r.now().UTC()); err != nil {
		zlog.Logger.Error().Err(err).Msg("generation run failed")
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	zlog.Logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	zlog.Logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
