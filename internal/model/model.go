// Package model defines the boundary to the loaded language model. The
// forward pass itself lives behind the Session interface; the generation
// engine only ever sees token ids in and logits out.
package model

import "github.com/samcharles93/tera/internal/tokenizer"

// Session owns the decode state of a single generation run. After the first
// Forward call seeds it with the full prompt window, subsequent calls only
// need the newly appended token; the session carries the history forward.
// Sessions must not be shared across concurrent runs.
type Session interface {
	Forward(window []int) ([]float32, error)
}

// Model is a loaded set of weights. NewSession returns an isolated decode
// session sharing the immutable weights, cheap enough to create per request.
type Model interface {
	NewSession() Session
}

// Handle pairs a model with its tokenizer. The two are loaded together and
// must never be mixed across models.
type Handle struct {
	Model     Model
	Tokenizer tokenizer.Tokenizer
}
