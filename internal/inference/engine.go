package inference

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samcharles93/tera/internal/logger"
	"github.com/samcharles93/tera/internal/logits"
	"github.com/samcharles93/tera/internal/model"
	"github.com/samcharles93/tera/internal/tokenizer"
)

// DefaultEndOfText is the end-of-text marker resolved against the vocabulary
// at the start of every run.
const DefaultEndOfText = "<|endoftext|>"

// Config is the per-run generation configuration. A zero value for a field
// selects its documented default.
type Config struct {
	Seed        int64
	Temperature float64
	TopP        float64

	// RepeatPenalty of 1 disables repetition suppression. RepeatLastN
	// bounds how many trailing tokens count toward the penalty window.
	RepeatPenalty float32
	RepeatLastN   int

	MaxNewTokens int

	// EndOfText is the vocabulary entry whose id always terminates
	// generation. ExtraStopTokens are additional sentinel ids, e.g. a
	// literal newline token.
	EndOfText       string
	ExtraStopTokens []int
}

// Stats describes one finished run. Diagnostic only; it never influences the
// generated text.
type Stats struct {
	TokensGenerated int
	Duration        time.Duration
	TPS             float64
}

// Generator drives the decode loop for a single run. It owns the growing
// token sequence and the sampler state; the session carries the model's
// decode state between steps, so a Generator must not be reused.
type Generator struct {
	session model.Session
	tok     tokenizer.Tokenizer
	sampler *logits.Sampler
	cfg     Config
	log     logger.Logger
}

func NewGenerator(session model.Session, tok tokenizer.Tokenizer, cfg Config, log logger.Logger) *Generator {
	if cfg.RepeatPenalty <= 0 {
		cfg.RepeatPenalty = 1
	}
	if cfg.RepeatLastN <= 0 {
		cfg.RepeatLastN = 64
	}
	if cfg.MaxNewTokens <= 0 {
		cfg.MaxNewTokens = 400
	}
	if cfg.EndOfText == "" {
		cfg.EndOfText = DefaultEndOfText
	}
	if log == nil {
		log = logger.Default()
	}
	return &Generator{
		session: session,
		tok:     tok,
		sampler: logits.NewSampler(logits.Config{
			Seed:        cfg.Seed,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
		}),
		cfg: cfg,
		log: log,
	}
}

// Run generates a completion for the prompt. The first decode step feeds the
// whole encoded prompt to the session; every later step feeds only the token
// just appended, relying on the session to carry state forward.
func (g *Generator) Run(ctx context.Context, prompt string) (string, Stats, error) {
	var stats Stats

	tokens, err := g.tok.Encode(prompt)
	if err != nil {
		return "", stats, fmt.Errorf("encode prompt: %w", err)
	}
	if len(tokens) == 0 {
		return "", stats, ErrEmptyPrompt
	}

	eos, ok := g.tok.TokenID(g.cfg.EndOfText)
	if !ok {
		return "", stats, fmt.Errorf("%w: %q", ErrMissingStopToken, g.cfg.EndOfText)
	}
	stop := append([]int{eos}, g.cfg.ExtraStopTokens...)

	start := time.Now()
	var response strings.Builder

	for index := 0; index < g.cfg.MaxNewTokens; index++ {
		if err := ctx.Err(); err != nil {
			return "", stats, err
		}

		window := tokens
		if index > 0 {
			window = tokens[len(tokens)-1:]
		}
		scores, err := g.session.Forward(window)
		if err != nil {
			return "", stats, &GenerationError{Step: index, Err: err}
		}

		if g.cfg.RepeatPenalty != 1 {
			startAt := len(tokens) - g.cfg.RepeatLastN
			if startAt < 0 {
				startAt = 0
			}
			logits.ApplyRepeatPenalty(scores, g.cfg.RepeatPenalty, tokens[startAt:])
		}

		next := g.sampler.Sample(scores)
		tokens = append(tokens, next)
		stats.TokensGenerated++

		if slices.Contains(stop, next) {
			break
		}

		fragment, err := g.tok.Decode([]int{next})
		if err != nil {
			return "", stats, &GenerationError{Step: index, Err: err}
		}
		response.WriteString(fragment)
	}

	stats.Duration = time.Since(start)
	if stats.Duration.Seconds() > 0 {
		stats.TPS = float64(stats.TokensGenerated) / stats.Duration.Seconds()
	}
	g.log.Debug("generation finished",
		"generated_tokens", stats.TokensGenerated,
		"tokens_per_second", fmt.Sprintf("%.2f", stats.TPS),
	)

	return strings.TrimSpace(response.String()), stats, nil
}
