package rag

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrEmptyQuery reports a blank question, rejected before any model work.
var ErrEmptyQuery = errors.New("query is empty")

// Snippet is one retrieved context record. The slice order handed to
// Assemble is the caller's relevance ranking and is preserved verbatim.
type Snippet struct {
	Content  string `json:"content"`
	Metadata any    `json:"metadata"`
}

const systemPersona = "As a friendly and helpful AI assistant named Tera. " +
	"Your answer should be very concise and to the point. " +
	"Do not repeat question or references."

// Assemble builds the model instruction: persona and current date in the
// system turn, the question and the JSON-serialized references in the user
// turn. Pure; identical inputs produce identical output.
func Assemble(query string, snippets []Snippet, now time.Time) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	refs, err := json.Marshal(snippets)
	if err != nil {
		return "", fmt.Errorf("serialize references: %w", err)
	}
	date := now.Format("Monday, January 2, 2006")
	return fmt.Sprintf("<|im_start|>system\n%s Today is %s<|im_end|>\n"+
		"<|im_start|>user\nquestion: \"%s\"\nreferences: \"%s\"\n<|im_end|>\n"+
		"<|im_start|>assistant\n",
		systemPersona, date, query, refs), nil
}
