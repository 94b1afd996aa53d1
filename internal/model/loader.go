package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/samcharles93/tera/internal/tokenizer"
)

// Spec describes the model.json artifact sitting next to tokenizer.json in a
// model directory.
type Spec struct {
	VocabSize int   `json:"vocab_size"`
	Hidden    int   `json:"hidden_size"`
	Seed      int64 `json:"seed"`
}

// Load reads a model directory (model.json + tokenizer.json) and returns a
// ready Handle.
func Load(dir string) (*Handle, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "model.json"))
	if err != nil {
		return nil, fmt.Errorf("read model.json: %w", err)
	}
	var spec Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse model.json: %w", err)
	}
	if spec.VocabSize <= 0 || spec.Hidden <= 0 {
		return nil, fmt.Errorf("model.json: vocab_size and hidden_size must be positive")
	}

	tok, err := tokenizer.LoadFile(filepath.Join(dir, "tokenizer.json"))
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	return &Handle{
		Model:     NewTinyLM(spec.VocabSize, spec.Hidden, spec.Seed),
		Tokenizer: tok,
	}, nil
}
