package model

import (
	"fmt"
	"math/rand"
)

// TinyLM is a small deterministic language model: an embedding table feeding
// a leaky accumulator, projected back to vocabulary logits. It exists so the
// whole pipeline runs without external weights; real backends implement
// Model/Session the same way.
type TinyLM struct {
	vocab  int
	hidden int
	decay  float32
	emb    []float32 // [vocab * hidden]
	proj   []float32 // [hidden * vocab]
}

// NewTinyLM constructs a model with weights derived deterministically from
// the seed.
func NewTinyLM(vocab, hidden int, seed int64) *TinyLM {
	m := &TinyLM{
		vocab:  vocab,
		hidden: hidden,
		decay:  0.85,
		emb:    make([]float32, vocab*hidden),
		proj:   make([]float32, hidden*vocab),
	}
	rng := rand.New(rand.NewSource(seed))
	for i := range m.emb {
		m.emb[i] = rng.Float32()*2 - 1
	}
	for i := range m.proj {
		m.proj[i] = rng.Float32()*2 - 1
	}
	return m
}

func (m *TinyLM) VocabSize() int { return m.vocab }

// NewSession returns a fresh decode session. The weights are shared; only
// the hidden accumulator is per-session.
func (m *TinyLM) NewSession() Session {
	return &tinySession{m: m, h: make([]float32, m.hidden)}
}

type tinySession struct {
	m *TinyLM
	h []float32
}

// Forward folds the window into the session state one token at a time and
// returns the logits after the last token.
func (s *tinySession) Forward(window []int) ([]float32, error) {
	if len(window) == 0 {
		return nil, fmt.Errorf("empty token window")
	}
	m := s.m
	for _, id := range window {
		if id < 0 || id >= m.vocab {
			return nil, fmt.Errorf("token id %d outside vocabulary of %d", id, m.vocab)
		}
		row := m.emb[id*m.hidden : (id+1)*m.hidden]
		for i := range s.h {
			s.h[i] = m.decay*s.h[i] + row[i]
		}
	}
	logits := make([]float32, m.vocab)
	for j := 0; j < m.vocab; j++ {
		var sum float32
		for i := 0; i < m.hidden; i++ {
			sum += s.h[i] * m.proj[i*m.vocab+j]
		}
		logits[j] = sum
	}
	return logits, nil
}
