package critic

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/verdict/ai/provider"
	"github.com/teranos/verdict/errors"
	"github.com/teranos/verdict/template"
)

// Evaluator runs critics over content: render prompt, ask the provider,
// parse the score.
type Evaluator struct {
	engine *template.Engine
	client provider.Client
	logger *zap.SugaredLogger
}

// NewEvaluator wires an evaluator.
func NewEvaluator(engine *template.Engine, client provider.Client, logger *zap.SugaredLogger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Evaluator{engine: engine, client: client, logger: logger}
}

// Report is the outcome of evaluating one context against a registry.
type Report struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// Evaluate runs every named critic (all critics in the registry when
// names is empty) against ctx and aggregates the outcome.
//
// Provider and score-parsing failures are per-critic soft failures,
// recorded in the result and excluded from aggregation. A template that
// references an unregistered partial is a wiring mistake, not absent
// data: it aborts the whole evaluation loudly.
func (ev *Evaluator) Evaluate(ctx context.Context, reg *Registry, names []string, data template.Context) (*Report, error) {
	if len(names) == 0 {
		names = reg.Names()
	}
	if len(names) == 0 {
		return nil, errors.New("no critics to evaluate")
	}

	results := make([]Result, 0, len(names))
	for _, name := range names {
		c, ok := reg.Get(name)
		if !ok {
			return nil, errors.NewNotFoundError("critic %q", name)
		}

		r, err := ev.evaluateOne(ctx, c, reg.Partials(), data)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return &Report{Results: results, Summary: Aggregate(results)}, nil
}

func (ev *Evaluator) evaluateOne(ctx context.Context, c *Critic, partials template.Partials, data template.Context) (Result, error) {
	result := Result{Critic: c.Name, Weight: c.Weight}

	prompt, err := ev.engine.Render(c.Template, data, partials)
	if err != nil {
		if template.IsPartialNotFound(err) {
			return Result{}, errors.Wrapf(err, "critic %q", c.Name)
		}
		// Other render failures are soft: record and move on
		result.Err = err.Error()
		return result, nil
	}

	start := time.Now()
	resp, err := ev.client.Chat(ctx, provider.ChatRequest{
		SystemPrompt: c.System,
		UserPrompt:   prompt,
	})
	if err != nil {
		ev.logger.Warnw("critic provider call failed",
			"critic", c.Name,
			"provider", ev.client.Name(),
			"error", err,
		)
		result.Err = err.Error()
		return result, nil
	}

	result.Reply = resp.Content
	result.Model = resp.Model

	score, err := ParseScore(resp.Content, c.Scale)
	if err != nil {
		ev.logger.Warnw("critic reply had no parseable score",
			"critic", c.Name,
			"reply_length", len(resp.Content),
		)
		result.Err = err.Error()
		return result, nil
	}

	result.Score = score
	result.Normalized = c.Scale.Normalize(score)

	ev.logger.Debugw("critic scored",
		"critic", c.Name,
		"score", score,
		"normalized", result.Normalized,
		"duration_ms", time.Since(start).Milliseconds(),
		"tokens", resp.Usage.TotalTokens,
	)

	return result, nil
}
