package logits

// ApplyRepeatPenalty down-weights logits of tokens present in the recent
// window, in place. Positive logits are divided by the penalty and negative
// logits multiplied, so a penalty above 1 always pushes a score toward
// rejection. Each id is penalized at most once regardless of how often it
// appears in the window. A penalty of 1 leaves the vector untouched.
func ApplyRepeatPenalty(logits []float32, penalty float32, recent []int) {
	if penalty == 1 || len(recent) == 0 {
		return
	}
	seen := make(map[int]struct{}, len(recent))
	for _, id := range recent {
		if id < 0 || id >= len(logits) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if logits[id] > 0 {
			logits[id] /= penalty
		} else {
			logits[id] *= penalty
		}
	}
}
