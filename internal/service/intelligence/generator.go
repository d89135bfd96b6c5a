package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wb-go/wbf/zlog"
	"golang.org/x/time/rate"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

const (
	maxQuestionsPerCategory = 4
	contextExamples         = 3
)

const systemPrompt = `You write short check-in questions for a personal health journal.
Ask for specifics rather than yes or no answers, keep each question to one sentence,
and stay friendly without being chatty.
Reply with a JSON array of one to three question strings and nothing else.`

var errNoModel = errors.New("no language model configured")

// CategoryQuestions holds the generated questions for one target category.
type CategoryQuestions struct {
	Category  model.Category
	Questions []string
}

// Generator asks the language model for questions and falls back to a canned
// question per category whenever that fails.
type Generator struct {
	llm       chatClient
	responses responseReader
	limiter   *rate.Limiter
	timeout   time.Duration
}

// NewGenerator creates a question generator. A nil limiter disables rate
// limiting and a zero timeout leaves the call bounded by ctx only.
func NewGenerator(llm chatClient, responses responseReader, limiter *rate.Limiter, timeout time.Duration) *Generator {
	return &Generator{llm: llm, responses: responses, limiter: limiter, timeout: timeout}
}

// NewLimiter allows perMinute model calls per minute with a matching burst.
// Non-positive values disable limiting.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// FallbackQuestion is the canned question used when generation fails.
func FallbackQuestion(cat model.Category) string {
	return fmt.Sprintf("How are you doing with your %s?", cat.Words())
}

// Generate returns 1 to 4 questions for every target, in target order.
// It never fails; errors are logged and replaced by the fallback question.
func (g *Generator) Generate(ctx context.Context, userID int64, targets []model.Category) []CategoryQuestions {
	out := make([]CategoryQuestions, 0, len(targets))
	for _, cat := range targets {
		out = append(out, CategoryQuestions{Category: cat, Questions: g.forCategory(ctx, userID, cat)})
	}
	return out
}

func (g *Generator) forCategory(ctx context.Context, userID int64, cat model.Category) []string {
	var examples []model.Response
	if g.responses != nil {
		var err error
		examples, err = g.responses.ListResponses(ctx, model.ResponseQuery{
			UserID:   userID,
			Category: &cat,
			Limit:    contextExamples,
		})
		if err != nil {
			zlog.Logger.Warn().Err(err).Int64("user_id", userID).Str("category", string(cat)).
				Msg("failed to load recent responses, generating without context")
		}
	}

	questions, err := g.ask(ctx, cat, examples)
	if err != nil {
		zlog.Logger.Warn().Err(err).Int64("user_id", userID).Str("category", string(cat)).
			Msg("question generation failed, using fallback")
		return []string{FallbackQuestion(cat)}
	}

	if len(questions) > maxQuestionsPerCategory {
		questions = questions[:maxQuestionsPerCategory]
	}

	return questions
}

func (g *Generator) ask(ctx context.Context, cat model.Category, examples []model.Response) ([]string, error) {
	if g.llm == nil {
		return nil, errNoModel
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	prompt, err := buildPrompt(cat, examples)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	type reply struct {
		text string
		err  error
	}

	// buffered: the sender must never block once the caller has timed out
	done := make(chan reply, 1)
	go func() {
		text, err := g.llm.Chat(callCtx, systemPrompt, prompt)
		done <- reply{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("chat: %w", r.err)
		}
		return ParseQuestions(r.text)
	case <-callCtx.Done():
		return nil, fmt.Errorf("chat: %w", callCtx.Err())
	}
}

type promptExample struct {
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
}

func buildPrompt(cat model.Category, examples []model.Response) (string, error) {
	prompt := fmt.Sprintf("Write check-in questions about: %s.", cat.Words())
	if len(examples) == 0 {
		return prompt, nil
	}

	recent := make([]promptExample, 0, len(examples))
	for _, e := range examples {
		recent = append(recent, promptExample{Timestamp: e.Timestamp, Question: e.QuestionText, Response: e.ResponseText})
	}

	data, err := json.MarshalIndent(map[string][]promptExample{"recent_responses": recent}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode prompt context: %w", err)
	}

	return prompt + "\n\nRecent answers from this user:\n" + string(data), nil
}
