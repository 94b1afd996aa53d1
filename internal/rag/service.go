package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/samcharles93/tera/internal/inference"
	"github.com/samcharles93/tera/internal/logger"
	"github.com/samcharles93/tera/internal/model"
)

// NoRelevantContent is the answer when retrieval supplied nothing. Absence
// of saved content is a terminal outcome, not an error: the assistant only
// answers from saved content.
const NoRelevantContent = "None of your saved content is relevant to this question. " +
	"I can only answer based on your saved content."

// DefaultConfig is the fixed generation configuration used for answers.
// The constant seed makes output reproducible for a given prompt and model;
// callers wanting diversity can override it via WithConfig.
func DefaultConfig() inference.Config {
	return inference.Config{
		Seed:          398752958,
		Temperature:   0.3,
		RepeatPenalty: 1.1,
		RepeatLastN:   64,
		MaxNewTokens:  400,
		EndOfText:     inference.DefaultEndOfText,
	}
}

// Service answers questions from caller-supplied snippets using the shared
// model handle.
type Service struct {
	provider *model.Provider
	cfg      inference.Config
	log      logger.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithConfig(cfg inference.Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

func WithLogger(log logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the date source used in prompt assembly.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(provider *model.Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		cfg:      DefaultConfig(),
		log:      logger.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer generates a reply to the query grounded in the snippets. An empty
// snippet list short-circuits to NoRelevantContent without touching the
// model or tokenizer. The decode loop is CPU-bound and runs on its own
// goroutine; Answer blocks until it finishes or fails.
func (s *Service) Answer(ctx context.Context, query string, snippets []Snippet) (string, error) {
	if len(snippets) == 0 {
		return NoRelevantContent, nil
	}

	prompt, err := Assemble(query, snippets, s.now())
	if err != nil {
		return "", err
	}

	handle, err := s.provider.Handle(ctx)
	if err != nil {
		return "", fmt.Errorf("load model: %w", err)
	}

	cfg := s.cfg
	// Stop at the first line break, like the end-of-text marker. The
	// sentinel only applies when the vocabulary encodes a newline as a
	// single token.
	if ids, err := handle.Tokenizer.Encode("\n"); err == nil && len(ids) == 1 {
		cfg.ExtraStopTokens = append(append([]int(nil), cfg.ExtraStopTokens...), ids[0])
	}

	gen := inference.NewGenerator(handle.Model.NewSession(), handle.Tokenizer, cfg, s.log)

	type result struct {
		text  string
		stats inference.Stats
		err   error
	}
	done := make(chan result, 1)
	go func() {
		text, stats, err := gen.Run(ctx, prompt)
		done <- result{text: text, stats: stats, err: err}
	}()
	res := <-done
	if res.err != nil {
		return "", res.err
	}

	s.log.Debug("answer generated",
		"generated_tokens", res.stats.TokensGenerated,
		"tokens_per_second", fmt.Sprintf("%.2f", res.stats.TPS),
	)
	return res.text, nil
}
