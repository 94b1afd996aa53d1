package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/tera/internal/inference"
	"github.com/samcharles93/tera/internal/model"
	"github.com/samcharles93/tera/internal/rag"
	"github.com/samcharles93/tera/internal/registry"
)

func askCmd() *cli.Command {
	var (
		snippetsPath  string
		temp          float64
		topP          float64
		repeatPenalty float64
		repeatLastN   int64
		maxTokens     int64
		seed          int64
	)

	defaults := rag.DefaultConfig()

	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a question from saved content snippets",
		ArgsUsage: "<question>",
		Flags: append(append(modelFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "snippets",
				Aliases:     []string{"s"},
				Usage:       "path to a JSON file with content snippets (- for stdin)",
				Destination: &snippetsPath,
			},
			&cli.Float64Flag{
				Name:        "temp",
				Aliases:     []string{"temperature", "t"},
				Usage:       "sampling temperature (0 = greedy)",
				Value:       defaults.Temperature,
				Destination: &temp,
			},
			&cli.Float64Flag{
				Name:        "top-p",
				Aliases:     []string{"top_p", "topp"},
				Usage:       "top_p sampling parameter (0 = disabled)",
				Value:       defaults.TopP,
				Destination: &topP,
			},
			&cli.Float64Flag{
				Name:        "repeat-penalty",
				Aliases:     []string{"repeat_penalty"},
				Usage:       "repetition penalty (1.0 = disabled)",
				Value:       float64(defaults.RepeatPenalty),
				Destination: &repeatPenalty,
			},
			&cli.Int64Flag{
				Name:        "repeat-last-n",
				Aliases:     []string{"repeat_last_n"},
				Usage:       "last n tokens to penalize",
				Value:       int64(defaults.RepeatLastN),
				Destination: &repeatLastN,
			},
			&cli.Int64Flag{
				Name:        "max-tokens",
				Aliases:     []string{"n"},
				Usage:       "max tokens to generate",
				Value:       int64(defaults.MaxNewTokens),
				Destination: &maxTokens,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "sampling RNG seed",
				Value:       defaults.Seed,
				Destination: &seed,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyAskConfig(c, LoadConfig(), &temp, &topP, &repeatPenalty, &repeatLastN, &maxTokens, &seed)
			log := newLogger()

			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return cli.Exit("error: a question is required", 1)
			}
			if modelRef == "" {
				return cli.Exit("error: --model is required (a registry name or model directory)", 1)
			}

			snippets, err := readSnippets(snippetsPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read snippets: %v", err), 1)
			}

			mgr, err := registry.NewManager(registry.DefaultBaseDir())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open registry: %v", err), 1)
			}
			dir, err := mgr.Resolve(modelRef)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: resolve model %q: %v", modelRef, err), 1)
			}

			provider := model.NewProvider(func(context.Context) (*model.Handle, error) {
				return model.Load(dir)
			})
			svc := rag.NewService(provider,
				rag.WithLogger(log),
				rag.WithConfig(inference.Config{
					Seed:          seed,
					Temperature:   temp,
					TopP:          topP,
					RepeatPenalty: float32(repeatPenalty),
					RepeatLastN:   int(repeatLastN),
					MaxNewTokens:  int(maxTokens),
				}),
			)

			answer, err := svc.Answer(ctx, query, snippets)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: generate answer: %v", err), 1)
			}

			fmt.Println(answer)
			return nil
		},
	}
}

// readSnippets loads a JSON array of snippets from a file or stdin. An empty
// path means no snippets, which yields the fixed no-content answer.
func readSnippets(path string) ([]rag.Snippet, error) {
	if path == "" {
		return nil, nil
	}
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var snippets []rag.Snippet
	if err := json.Unmarshal(raw, &snippets); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return snippets, nil
}
