package tokenizer

import (
	"fmt"
	"regexp"
	"strings"
)

type pair struct {
	a string
	b string
}

// BPE is a byte-level BPE tokenizer compatible with GPT-2 style vocabularies.
type BPE struct {
	encoder     map[string]int
	decoder     []string
	ranks       map[pair]int
	cache       map[string][]string
	byteEncoder map[byte]string
	byteDecoder map[string]byte
	pattern     *regexp.Regexp
	special     []string
}

// NewBPE builds a tokenizer from a dense token list and merge rules.
// Merge lines have the form "left right"; blank lines and comments are skipped.
func NewBPE(tokens []string, merges []string) (*BPE, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty token list")
	}
	encoder := make(map[string]int, len(tokens))
	for i, t := range tokens {
		encoder[t] = i
	}

	ranks := make(map[pair]int, len(merges))
	rank := 0
	for _, line := range merges {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, " ")
		if len(parts) != 2 {
			continue
		}
		p := pair{a: parts[0], b: parts[1]}
		if _, ok := ranks[p]; !ok {
			ranks[p] = rank
			rank++
		}
	}

	byteEncoder, byteDecoder := bytesToUnicode()
	// Go regexp has no lookahead, so the trailing-whitespace branch of the
	// GPT-2 pattern collapses to a plain \s+ match.
	pat := regexp.MustCompile(`'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+`)

	return &BPE{
		encoder:     encoder,
		decoder:     append([]string(nil), tokens...),
		ranks:       ranks,
		cache:       make(map[string][]string),
		byteEncoder: byteEncoder,
		byteDecoder: byteDecoder,
		pattern:     pat,
		special:     collectSpecials(tokens),
	}, nil
}

func (t *BPE) Encode(text string) ([]int, error) {
	var ids []int
	for _, part := range splitSpecials(text, t.special) {
		if part.isSpecial {
			id, ok := t.encoder[part.text]
			if !ok {
				return nil, fmt.Errorf("unknown special token: %q", part.text)
			}
			ids = append(ids, id)
			continue
		}
		for _, chunk := range t.pattern.FindAllString(part.text, -1) {
			for _, merged := range t.bpe(t.byteEncode(chunk)) {
				id, ok := t.encoder[merged]
				if !ok {
					return nil, fmt.Errorf("token not in vocabulary: %q", merged)
				}
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (t *BPE) Decode(ids []int) (string, error) {
	var b []byte
	for _, id := range ids {
		if id < 0 || id >= len(t.decoder) {
			return "", fmt.Errorf("token id out of range: %d", id)
		}
		for _, r := range t.decoder[id] {
			if by, ok := t.byteDecoder[string(r)]; ok {
				b = append(b, by)
			} else {
				b = append(b, string(r)...)
			}
		}
	}
	return string(b), nil
}

func (t *BPE) TokenID(token string) (int, bool) {
	id, ok := t.encoder[token]
	return id, ok
}

func (t *BPE) byteEncode(s string) string {
	var b strings.Builder
	for _, by := range []byte(s) {
		b.WriteString(t.byteEncoder[by])
	}
	return b.String()
}

func (t *BPE) bpe(token string) []string {
	if v, ok := t.cache[token]; ok {
		return v
	}
	word := splitRunes(token)
	pairs := getPairs(word)
	for len(pairs) > 0 {
		bestRank := int(^uint(0) >> 1)
		bestPair := pair{}
		found := false
		for p := range pairs {
			if rank, ok := t.ranks[p]; ok && rank < bestRank {
				bestRank = rank
				bestPair = p
				found = true
			}
		}
		if !found {
			break
		}
		word = mergePair(word, bestPair)
		if len(word) == 1 {
			break
		}
		pairs = getPairs(word)
	}
	t.cache[token] = word
	return word
}
