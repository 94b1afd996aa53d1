package logits

import (
	"math"
	"math/rand"
	"sort"
)

// Config configures the behaviour of a Sampler.
type Config struct {
	Seed        int64
	Temperature float64
	TopP        float64
}

// Sampler draws token ids from a logits vector. The random stream advances on
// every call, so results are deterministic per seed but vary across calls.
type Sampler struct {
	rng    *rand.Rand
	cfg    Config
	greedy bool
	prob   []float64
	order  []int
}

// NewSampler returns a new sampler with the provided configuration.
// Temperature <= 0 selects greedy argmax decoding. TopP outside (0,1)
// disables nucleus truncation.
func NewSampler(cfg Config) *Sampler {
	greedy := cfg.Temperature <= 0
	if cfg.Temperature <= 0 {
		cfg.Temperature = 1
	}
	if cfg.TopP <= 0 || cfg.TopP > 1 {
		cfg.TopP = 1
	}
	return &Sampler{
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		cfg:    cfg,
		greedy: greedy,
	}
}

// Sample draws a single index from the logits vector:
//
//  1. Greedy mode returns argmax.
//  2. Logits are scaled by the inverse temperature and softmaxed with a
//     max subtraction for numerical stability.
//  3. If TopP < 1, candidates are sorted by probability and truncated once
//     the cumulative mass reaches TopP, then renormalized.
//  4. A uniform draw selects an index from the remaining distribution.
func (s *Sampler) Sample(logits []float32) int {
	if s.greedy {
		return argmax(logits)
	}

	n := len(logits)
	if cap(s.prob) < n {
		s.prob = make([]float64, n)
	}
	prob := s.prob[:n]

	invTemp := 1.0 / s.cfg.Temperature
	maxLogit := float64(logits[argmax(logits)]) * invTemp
	var sum float64
	for i, l := range logits {
		e := math.Exp(float64(l)*invTemp - maxLogit)
		prob[i] = e
		sum += e
	}
	if sum == 0 {
		return argmax(logits)
	}
	for i := range prob {
		prob[i] /= sum
	}

	if s.cfg.TopP < 1 {
		return s.sampleNucleus(prob)
	}

	r := s.rng.Float64()
	var c float64
	for i, p := range prob {
		c += p
		if r <= c {
			return i
		}
	}
	return n - 1
}

func (s *Sampler) sampleNucleus(prob []float64) int {
	n := len(prob)
	if cap(s.order) < n {
		s.order = make([]int, n)
	}
	order := s.order[:n]
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return prob[order[a]] > prob[order[b]]
	})

	cut := n
	var mass float64
	for i, idx := range order {
		mass += prob[idx]
		if mass >= s.cfg.TopP {
			cut = i + 1
			break
		}
	}

	r := s.rng.Float64() * mass
	var c float64
	for _, idx := range order[:cut] {
		c += prob[idx]
		if r <= c {
			return idx
		}
	}
	return order[cut-1]
}

// argmax returns the index of the maximum value. It panics on an empty slice.
func argmax(x []float32) int {
	if len(x) == 0 {
		panic("argmax: empty slice")
	}
	bestI := 0
	bestV := x[0]
	for i := 1; i < len(x); i++ {
		if x[i] > bestV {
			bestV = x[i]
			bestI = i
		}
	}
	return bestI
}
