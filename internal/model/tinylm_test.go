package model

import "testing"

func TestTinyLMDeterministic(t *testing.T) {
	t.Parallel()
	a := NewTinyLM(8, 4, 17).NewSession()
	b := NewTinyLM(8, 4, 17).NewSession()

	la, err := a.Forward([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	lb, err := b.Forward([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	for i := range la {
		if la[i] != lb[i] {
			t.Fatalf("logit %d differs: %f vs %f", i, la[i], lb[i])
		}
	}
}

// Incremental decode: feeding a prompt then one token at a time must match
// feeding the full sequence into a fresh session.
func TestTinyLMIncrementalMatchesFull(t *testing.T) {
	t.Parallel()
	m := NewTinyLM(8, 4, 17)

	inc := m.NewSession()
	if _, err := inc.Forward([]int{1, 2}); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	got, err := inc.Forward([]int{5})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	full := m.NewSession()
	want, err := full.Forward([]int{1, 2, 5})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("logit %d differs: %f vs %f", i, got[i], want[i])
		}
	}
}

// Sessions from the same model must not share decode state.
func TestTinyLMSessionIsolation(t *testing.T) {
	t.Parallel()
	m := NewTinyLM(8, 4, 17)

	s1 := m.NewSession()
	if _, err := s1.Forward([]int{7, 7, 7}); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	fresh := m.NewSession()
	got, err := fresh.Forward([]int{1})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	want, err := NewTinyLM(8, 4, 17).NewSession().Forward([]int{1})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatal("session state leaked between sessions")
		}
	}
}

func TestTinyLMForwardErrors(t *testing.T) {
	t.Parallel()
	s := NewTinyLM(4, 2, 1).NewSession()
	if _, err := s.Forward(nil); err == nil {
		t.Fatal("expected error for empty window")
	}
	if _, err := s.Forward([]int{4}); err == nil {
		t.Fatal("expected error for out-of-vocabulary id")
	}
}
