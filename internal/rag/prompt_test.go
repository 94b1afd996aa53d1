package rag

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testDate = time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC)

func TestAssembleContainsAllParts(t *testing.T) {
	t.Parallel()
	snippets := []Snippet{
		{Content: "Paris is the capital of France.", Metadata: map[string]any{"id": 1}},
	}
	prompt, err := Assemble("What is the capital of France?", snippets, testDate)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, want := range []string{
		"named Tera",
		"Today is Friday, March 8, 2024",
		`question: "What is the capital of France?"`,
		`"content":"Paris is the capital of France."`,
		"<|im_start|>assistant",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAssemblePreservesSnippetOrder(t *testing.T) {
	t.Parallel()
	snippets := []Snippet{
		{Content: "first"},
		{Content: "second"},
		{Content: "third"},
	}
	prompt, err := Assemble("q", snippets, testDate)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	i1 := strings.Index(prompt, "first")
	i2 := strings.Index(prompt, "second")
	i3 := strings.Index(prompt, "third")
	if i1 < 0 || i2 < 0 || i3 < 0 || !(i1 < i2 && i2 < i3) {
		t.Fatalf("snippet order not preserved: %d %d %d", i1, i2, i3)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	t.Parallel()
	snippets := []Snippet{{Content: "x", Metadata: map[string]any{"k": "v"}}}
	a, err := Assemble("q", snippets, testDate)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	b, err := Assemble("q", snippets, testDate)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if a != b {
		t.Fatal("identical inputs produced different prompts")
	}
}

func TestAssembleEmptyQuery(t *testing.T) {
	t.Parallel()
	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := Assemble(q, []Snippet{{Content: "x"}}, testDate); !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("query %q: err = %v, want ErrEmptyQuery", q, err)
		}
	}
}
