package intelligence

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/intelligence/mock.go -package=mocks

type responseReader interface {
	ListResponses(ctx context.Context, q model.ResponseQuery) ([]model.Response, error)
}

type reminderHistory interface {
	ListAsked(ctx context.Context, userID int64, limit int) ([]model.AskedEntry, error)
}

type chatClient interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
}

// Options tune target selection.
type Options struct {
	Lookback     time.Duration
	HistoryLimit int
	MaxTargets   int
}

func (o Options) withDefaults() Options {
	if o.Lookback <= 0 {
		o.Lookback = 24 * time.Hour
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 100
	}
	if o.MaxTargets <= 0 {
		o.MaxTargets = 3
	}
	return o
}

// Plan is what one scheduling cycle should ask a user.
type Plan struct {
	Selection Selection
	Coverage  Coverage
	Questions []CategoryQuestions
	Reasoning string
}

// Targets returns the target categories in selection order.
func (p Plan) Targets() []model.Category {
	return p.Selection.Targets
}

// TaggedQuestion is one generated question and the category it asks about.
type TaggedQuestion struct {
	Category model.Category
	Text     string
}

// TaggedQuestions returns every generated question, grouped by category in
// target order.
func (p Plan) TaggedQuestions() []TaggedQuestion {
	var out []TaggedQuestion
	for _, cq := range p.Questions {
		for _, q := range cq.Questions {
			out = append(out, TaggedQuestion{Category: cq.Category, Text: q})
		}
	}
	return out
}

type Service struct {
	catalog   *model.Catalog
	responses responseReader
	reminders reminderHistory
	generator *Generator
	opts      Options
}

func NewService(
	catalog *model.Catalog,
	responses responseReader,
	reminders reminderHistory,
	generator *Generator,
	opts Options,
) *Service {
	return &Service{
		catalog:   catalog,
		responses: responses,
		reminders: reminders,
		generator: generator,
		opts:      opts.withDefaults(),
	}
}

// Catalog returns the category catalog the service selects from.
func (s *Service) Catalog() *model.Catalog {
	return s.catalog
}

// Plan selects target categories for the user at now and generates their
// questions.
func (s *Service) Plan(ctx context.Context, userID int64, now time.Time) (Plan, error) {
	entries, err := s.reminders.ListAsked(ctx, userID, s.opts.HistoryLimit)
	if err != nil {
		return Plan{}, fmt.Errorf("list asked categories: %w", err)
	}

	eligible, fallback := Eligible(s.catalog, LastAsked(entries), now)
	if fallback {
		zlog.Logger.Warn().Int64("user_id", userID).Str("category", string(eligible[0])).
			Msg("no eligible categories, falling back to most askable")
	}

	since := now.Add(-s.opts.Lookback)
	responses, err := s.responses.ListResponses(ctx, model.ResponseQuery{UserID: userID, Since: &since})
	if err != nil {
		return Plan{}, fmt.Errorf("list responses: %w", err)
	}

	cov := AnalyzeCoverage(s.catalog, responses)
	if cov.Quarantined > 0 {
		zlog.Logger.Warn().Int64("user_id", userID).Int("count", cov.Quarantined).
			Msg("responses with unknown category ignored for coverage")
	}

	sel := Select(s.catalog, cov, eligible, fallback, s.opts.MaxTargets)

	plan := Plan{
		Selection: sel,
		Coverage:  cov,
		Questions: s.generator.Generate(ctx, userID, sel.Targets),
	}
	plan.Reasoning = s.reasoning(plan)

	return plan, nil
}

func (s *Service) reasoning(p Plan) string {
	return fmt.Sprintf(
		"Covering %d gap categories and %d recent categories. "+
			"Total responses in last %dh: %d. "+
			"Eligible categories (respecting frequency limits): %d/%d",
		len(p.Selection.Gaps), p.Selection.RecentTargets(),
		int(s.opts.Lookback.Hours()), p.Coverage.Total,
		len(p.Selection.Eligible), s.catalog.Len(),
	)
}
