package tokenizer

import (
	"reflect"
	"testing"
)

func newTestBPE(t *testing.T) *BPE {
	t.Helper()
	tokens := []string{"h", "e", "l", "o", "he", "ll", "hell", "<|endoftext|>", "Ġ", "w", "r", "d"}
	merges := []string{"h e", "l l", "he ll"}
	bpe, err := NewBPE(tokens, merges)
	if err != nil {
		t.Fatalf("NewBPE: %v", err)
	}
	return bpe
}

func TestEncodeAppliesMerges(t *testing.T) {
	t.Parallel()
	bpe := newTestBPE(t)
	ids, err := bpe.Encode("hello")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// "hell" from merged he+ll, then bare "o".
	want := []int{6, 3}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("Encode(\"hello\") = %v, want %v", ids, want)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	bpe := newTestBPE(t)
	ids, err := bpe.Encode("hello hello")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	text, err := bpe.Decode(ids)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text != "hello hello" {
		t.Fatalf("round trip = %q", text)
	}
}

func TestSpecialTokenAtomic(t *testing.T) {
	t.Parallel()
	bpe := newTestBPE(t)
	ids, err := bpe.Encode("hello<|endoftext|>")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if ids[len(ids)-1] != 7 {
		t.Fatalf("expected trailing special id 7, got %v", ids)
	}
}

func TestTokenID(t *testing.T) {
	t.Parallel()
	bpe := newTestBPE(t)
	id, ok := bpe.TokenID("<|endoftext|>")
	if !ok || id != 7 {
		t.Fatalf("TokenID(<|endoftext|>) = %d, %v", id, ok)
	}
	if _, ok := bpe.TokenID("missing"); ok {
		t.Fatal("expected lookup miss for unknown token")
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	t.Parallel()
	bpe := newTestBPE(t)
	if _, err := bpe.Decode([]int{999}); err == nil {
		t.Fatal("expected error for out-of-range id")
	}
}

func TestLoadBytes(t *testing.T) {
	t.Parallel()
	raw := []byte(`{
		"added_tokens": [{"id": 5, "content": "<|endoftext|>"}],
		"model": {
			"type": "BPE",
			"vocab": {"h": 0, "i": 1, "hi": 2},
			"merges": ["h i"]
		}
	}`)
	bpe, err := LoadBytes(raw)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	ids, err := bpe.Encode("hi")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{2}) {
		t.Fatalf("Encode(\"hi\") = %v, want [2]", ids)
	}
	if id, ok := bpe.TokenID("<|endoftext|>"); !ok || id != 5 {
		t.Fatalf("added token lookup = %d, %v", id, ok)
	}
}

func TestLoadBytesPairMerges(t *testing.T) {
	t.Parallel()
	raw := []byte(`{
		"model": {
			"type": "BPE",
			"vocab": {"h": 0, "i": 1, "hi": 2},
			"merges": [["h", "i"]]
		}
	}`)
	bpe, err := LoadBytes(raw)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	ids, err := bpe.Encode("hi")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{2}) {
		t.Fatalf("Encode(\"hi\") = %v, want [2]", ids)
	}
}
