package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/api/handlers/health"
	reminderapi "github.com/aliskhannn/checkin-scheduler/internal/api/handlers/reminder"
	"github.com/aliskhannn/checkin-scheduler/internal/api/router"
	"github.com/aliskhannn/checkin-scheduler/internal/api/server"
	"github.com/aliskhannn/checkin-scheduler/internal/config"
	"github.com/aliskhannn/checkin-scheduler/internal/jobs"
	"github.com/aliskhannn/checkin-scheduler/internal/model"
	remindermsg "github.com/aliskhannn/checkin-scheduler/internal/rabbitmq/handlers/reminder"
	"github.com/aliskhannn/checkin-scheduler/internal/rabbitmq/queue"
	reminderrepo "github.com/aliskhannn/checkin-scheduler/internal/repository/reminder"
	responserepo "github.com/aliskhannn/checkin-scheduler/internal/repository/response"
	userrepo "github.com/aliskhannn/checkin-scheduler/internal/repository/user"
	"github.com/aliskhannn/checkin-scheduler/internal/service/intelligence"
	remindersvc "github.com/aliskhannn/checkin-scheduler/internal/service/reminder"
	"github.com/aliskhannn/checkin-scheduler/internal/service/scheduling"
	"github.com/aliskhannn/checkin-scheduler/internal/worker"
	"github.com/aliskhannn/checkin-scheduler/pkg/deepseek"
	"github.com/aliskhannn/checkin-scheduler/pkg/email"
	"github.com/aliskhannn/checkin-scheduler/pkg/ntfy"
	"github.com/aliskhannn/checkin-scheduler/pkg/ollama"
	"github.com/aliskhannn/checkin-scheduler/pkg/telegram"
)

type chatClient interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	val := validator.New()

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
	}

	q, err := queue.NewReminderQueue(ch, cfg.Retry.Delay)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create reminder queue")
	}

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Database)
	if err = rdb.Ping(ctx).Err(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	intervals, err := cfg.Scheduler.Intervals()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("invalid scheduler config")
	}
	catalog := model.NewCatalog(intervals)

	llm, err := newChatClient(cfg.LLM)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Str("provider", cfg.LLM.Provider).Msg("failed to create llm client")
	}

	reminders := reminderrepo.NewRepository(db)
	responses := responserepo.NewRepository(db)
	users := userrepo.NewRepository(db)

	generator := intelligence.NewGenerator(llm, responses, intelligence.NewLimiter(cfg.LLM.RatePerMinute), cfg.LLM.Timeout)
	planner := intelligence.NewService(catalog, responses, reminders, generator, intelligence.Options{
		Lookback:     time.Duration(cfg.Scheduler.LookbackHours) * time.Hour,
		HistoryLimit: cfg.Scheduler.HistoryLimit,
		MaxTargets:   cfg.Scheduler.MaxTargets,
	})
	sched := scheduling.NewScheduler(users, reminders, planner, cfg.Scheduler.UserConcurrency)

	notifiers := newNotifiers(cfg)
	service := remindersvc.NewService(reminders, responses, q, notifiers, rdb, cfg.Ntfy.PWABaseURL)

	delivery := worker.NewDelivery(q, remindermsg.NewHandler(service), service)
	go delivery.Run(ctx, cfg.Retry, cfg.Workers.Count)

	runner := jobs.NewRunner(jobs.Config{
		SweepSpec:      cfg.Scheduler.SweepSpec,
		GenerationSpec: cfg.Scheduler.GenerationSpec,
		SweepBatchSize: cfg.Scheduler.SweepBatchSize,
		Strategy:       cfg.Retry,
	}, service, sched)
	if err := runner.Start(ctx); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to start jobs")
	}

	r := router.New(reminderapi.NewHandler(service, sched, val, cfg), health.NewHandler(db.Master))
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	zlog.Logger.Info().Str("addr", cfg.Server.HTTPPort).Strs("channels", service.Channels()).Msg("scheduler started")

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	runner.Stop()

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close master DB")
	}

	for i, s := range db.Slaves {
		if err := s.Close(); err != nil {
			zlog.Logger.Error().Err(err).Int("slave", i).Msg("failed to close slave DB")
		}
	}

	if err := ch.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
	}

	if err := conn.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
	}
}

func newChatClient(cfg config.LLM) (chatClient, error) {
	switch cfg.Provider {
	case "deepseek":
		c, err := deepseek.NewClient(cfg.APIKey, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "ollama", "":
		return ollama.NewClient(cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.Timeout), nil
	default:
		return nil, errors.New("unknown llm provider " + cfg.Provider)
	}
}

// newNotifiers builds the configured delivery channels. Channels missing
// their credentials are skipped with a warning.
func newNotifiers(cfg *config.Config) map[string]remindersvc.Notifier {
	notifiers := make(map[string]remindersvc.Notifier, len(cfg.Notify.Channels))

	for _, name := range cfg.Notify.Channels {
		switch name {
		case "ntfy":
			c, err := ntfy.NewClient(cfg.Ntfy.Server, cfg.Ntfy.Topic, cfg.Ntfy.Timeout)
			if err != nil {
				zlog.Logger.Warn().Err(err).Msg("ntfy channel disabled")
				continue
			}
			notifiers[name] = c
		case "email":
			if cfg.Email.SMTPHost == "" || cfg.Email.To == "" {
				zlog.Logger.Warn().Msg("email channel disabled: smtp host or recipient missing")
				continue
			}
			notifiers[name] = email.NewClient(
				cfg.Email.SMTPHost,
				cfg.Email.SMTPPort,
				cfg.Email.Username,
				cfg.Email.Password,
				cfg.Email.From,
				cfg.Email.To,
			)
		case "telegram":
			if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == "" {
				zlog.Logger.Warn().Msg("telegram channel disabled: token or chat id missing")
				continue
			}
			notifiers[name] = telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.ChatID)
		default:
			zlog.Logger.Warn().Str("channel", name).Msg("unknown notification channel")
		}
	}

	return notifiers
}
