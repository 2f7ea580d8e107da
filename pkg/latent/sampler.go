// Package latent generates random latent vectors for exploring a
// generative model's representation space.
package latent

import (
	"fmt"
	"math/rand"
)

// Sampler draws i.i.d. uniform latent vectors within a bounded
// hyper-rectangle [Min, Max]^Dim.
//
// A Sampler is deterministic for a given seed and call sequence. It is not
// safe for concurrent use.
type Sampler struct {
	dim      int
	min, max float64
	rng      *rand.Rand
}

// NewSampler creates a Sampler for dim-dimensional vectors in [min, max].
func NewSampler(dim int, min, max float64, seed int64) (*Sampler, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("latent: dimensionality must be positive, got %d", dim)
	}
	if min > max {
		return nil, fmt.Errorf("latent: invalid range [%g, %g]", min, max)
	}
	return &Sampler{
		dim: dim,
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// Dim returns the vector dimensionality.
func (s *Sampler) Dim() int { return s.dim }

// Sample draws one latent vector. Every element lies in [min, max].
func (s *Sampler) Sample() []float32 {
	z := make([]float32, s.dim)
	for i := range z {
		z[i] = float32(s.min + s.rng.Float64()*(s.max-s.min))
	}
	return z
}

// SampleN draws n latent vectors.
func (s *Sampler) SampleN(n int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = s.Sample()
	}
	return out
}
