package tokenizer

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

type tokenizerJSON struct {
	AddedTokens []addedToken   `json:"added_tokens"`
	Model       tokenizerModel `json:"model"`
}

type addedToken struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

type tokenizerModel struct {
	Type   string            `json:"type"`
	Vocab  map[string]int    `json:"vocab"`
	Merges []json.RawMessage `json:"merges"`
}

// LoadFile reads a tokenizer.json file and builds a BPE tokenizer from it.
func LoadFile(path string) (*BPE, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(raw)
}

// LoadBytes builds a BPE tokenizer from tokenizer.json contents. Only the
// byte-level BPE subset of the format is supported: model.vocab, model.merges
// and added_tokens.
func LoadBytes(raw []byte) (*BPE, error) {
	var spec tokenizerJSON
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse tokenizer.json: %w", err)
	}
	if len(spec.Model.Vocab) == 0 {
		return nil, fmt.Errorf("tokenizer.json has no vocabulary")
	}

	maxID := -1
	for _, id := range spec.Model.Vocab {
		if id > maxID {
			maxID = id
		}
	}
	for _, at := range spec.AddedTokens {
		if at.ID > maxID {
			maxID = at.ID
		}
	}

	tokens := make([]string, maxID+1)
	seen := make([]bool, maxID+1)
	for tok, id := range spec.Model.Vocab {
		if id < 0 {
			return nil, fmt.Errorf("negative token id for %q", tok)
		}
		tokens[id] = tok
		seen[id] = true
	}
	for _, at := range spec.AddedTokens {
		if at.ID < 0 {
			return nil, fmt.Errorf("negative token id for %q", at.Content)
		}
		tokens[at.ID] = at.Content
		seen[at.ID] = true
	}
	for i := range tokens {
		if !seen[i] {
			tokens[i] = fmt.Sprintf("<unused_%d>", i)
		}
	}

	merges, err := decodeMerges(spec.Model.Merges)
	if err != nil {
		return nil, err
	}
	return NewBPE(tokens, merges)
}

// decodeMerges accepts both merge encodings in the wild: "left right" strings
// and ["left","right"] pairs.
func decodeMerges(raw []json.RawMessage) ([]string, error) {
	merges := make([]string, 0, len(raw))
	for i, entry := range raw {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			merges = append(merges, s)
			continue
		}
		var parts []string
		if err := json.Unmarshal(entry, &parts); err != nil || len(parts) != 2 {
			return nil, fmt.Errorf("merge entry %d is neither string nor pair", i)
		}
		merges = append(merges, parts[0]+" "+parts[1])
	}
	return merges, nil
}
