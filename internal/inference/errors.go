package inference

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPrompt reports a prompt that encoded to zero tokens.
	ErrEmptyPrompt = errors.New("prompt encoded to zero tokens")
	// ErrMissingStopToken reports a vocabulary without the end-of-text
	// entry, which means the model and tokenizer do not belong together.
	ErrMissingStopToken = errors.New("end-of-text token missing from vocabulary")
)

// GenerationError wraps a tokenizer or model failure inside the decode loop.
// The run is abandoned whole; no partial response escapes.
type GenerationError struct {
	Step int
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at step %d: %v", e.Step, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
