package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yachtexcel/yachtexcel/pkg/metrics"
	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

const consensusSystemPrompt = "You are a yacht management assistant. Answer concisely and factually."

// Answer is one provider's reply, or its error.
type Answer struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Content     string  `json:"content,omitempty"`
	Error       string  `json:"error,omitempty"`
	LatencyMS   int64   `json:"latencyMs"`
	TotalTokens int     `json:"totalTokens,omitempty"`
	Centrality  float64 `json:"centrality,omitempty"`
}

func (a Answer) OK() bool {
	return a.Error == ""
}

type Result struct {
	Answer    string   `json:"answer"`
	HTML      string   `json:"html,omitempty"`
	Provider  string   `json:"provider"`
	Agreement float64  `json:"agreement"`
	Answers   []Answer `json:"answers"`
}

// Question is a consensus prompt.
type Question struct {
	Prompt string
	// System overrides the default system prompt.
	System string
	UserID string
}

type Consensus struct {
	timeout time.Duration
	usage   store.UsageStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

type ConsensusOption func(*Consensus)

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) ConsensusOption {
	return func(c *Consensus) {
		c.timeout = d
	}
}

func WithUsageStore(u store.UsageStore) ConsensusOption {
	return func(c *Consensus) {
		c.usage = u
	}
}

func WithMetrics(m *metrics.Metrics) ConsensusOption {
	return func(c *Consensus) {
		c.metrics = m
	}
}

func WithLogger(l *zap.Logger) ConsensusOption {
	return func(c *Consensus) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewConsensus(opts ...ConsensusOption) *Consensus {
	c := &Consensus{
		timeout: 60 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AllFailedError is returned when no provider produced an answer.
type AllFailedError struct {
	Answers []Answer
}

func (e *AllFailedError) Error() string {
	msgs := make([]string, 0, len(e.Answers))
	for _, a := range e.Answers {
		msgs = append(msgs, a.Provider+": "+a.Error)
	}
	return "ai: all providers failed: " + strings.Join(msgs, "; ")
}

// Ask sends the question to every provider concurrently. Providers that
// fail are reported in the result; Ask only fails when all of them do. The
// consensus answer is the one with the highest mean similarity to the
// others, earlier providers winning ties.
func (c *Consensus) Ask(ctx context.Context, providers []Provider, q Question) (*Result, error) {
	if len(providers) == 0 {
		return nil, ErrNoProvider
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return nil, errors.New("ai: empty question")
	}
	system := q.System
	if system == "" {
		system = consensusSystemPrompt
	}
	req := Prompt(system, q.Prompt)

	answers := make([]Answer, len(providers))
	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() error {
			answers[i] = c.call(ctx, p, req)
			return nil
		})
	}
	_ = g.Wait()

	c.record(ctx, answers, q.UserID)

	var texts []string
	var idx []int
	for i, a := range answers {
		if a.OK() {
			texts = append(texts, a.Content)
			idx = append(idx, i)
		}
	}
	if len(texts) == 0 {
		return nil, &AllFailedError{Answers: answers}
	}

	agreement, centrality := Agreement(texts)
	for k, i := range idx {
		answers[i].Centrality = centrality[k]
	}
	winner := answers[idx[mostCentral(centrality)]]

	res := &Result{
		Answer:    winner.Content,
		Provider:  winner.Provider,
		Agreement: agreement,
		Answers:   answers,
	}
	if html, err := RenderHTML(winner.Content); err == nil {
		res.HTML = html
	}

	c.logger.Info("consensus answered",
		zap.Int("providers", len(providers)),
		zap.Int("answered", len(texts)),
		zap.String("winner", winner.Provider),
		zap.Float64("agreement", agreement))
	return res, nil
}

func (c *Consensus) call(ctx context.Context, p Provider, req ChatRequest) Answer {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.Chat(callCtx, req)
	elapsed := time.Since(start)
	c.metrics.ObserveAICall(p.Name(), elapsed, err)

	a := Answer{Provider: p.Name(), Model: p.Model(), LatencyMS: elapsed.Milliseconds()}
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		a.Error = err.Error()
		c.logger.Warn("AI provider call failed", zap.String("provider", p.Name()), zap.Error(err))
		return a
	}
	a.Content = resp.Content
	a.TotalTokens = resp.TotalTokens
	if resp.Model != "" {
		a.Model = resp.Model
	}
	return a
}

func (c *Consensus) record(ctx context.Context, answers []Answer, userID string) {
	if c.usage == nil {
		return
	}
	for _, a := range answers {
		err := c.usage.RecordUsage(ctx, &model.AIUsageLog{
			Provider:    a.Provider,
			Model:       a.Model,
			Operation:   "consensus",
			LatencyMS:   a.LatencyMS,
			Success:     a.OK(),
			Error:       a.Error,
			TotalTokens: a.TotalTokens,
			CreatedBy:   userID,
		})
		if err != nil {
			c.logger.Warn("failed to record AI usage", zap.String("provider", a.Provider), zap.Error(err))
		}
	}
}
