package tokenizer

// Tokenizer is the capability consumed by the generation engine.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
	// TokenID reports the id for an exact vocabulary entry.
	TokenID(token string) (int, bool)
}
