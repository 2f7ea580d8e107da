// Package ravetest provides an in-memory rave.Model for tests.
package ravetest

import (
	"errors"
	"math"

	"github.com/ravescope/ravescope/pkg/rave"
)

// ErrShortInput is the short-input encode failure a real runtime would
// produce for a convolution over an undersized signal.
var ErrShortInput = errors.New("Kernel size can't be greater than actual input size")

// SineModel is a deterministic Model: Encode maps any sufficiently long
// signal to a zero latent sequence of the configured dimensionality, and
// Decode renders each latent frame as a block of summed sinusoids whose
// amplitudes come from the latent values.
type SineModel struct {
	Dim       int // latent dimensionality
	BlockSize int // samples per latent frame (default 2048)
	MinInput  int // Encode fails with ErrShortInput below this length

	EncodeErr error // forced Encode failure
	DecodeErr error // forced Decode failure
	Silent    bool  // Decode emits all-zero audio

	closed bool
}

func (m *SineModel) block() int {
	if m.BlockSize <= 0 {
		return 2048
	}
	return m.BlockSize
}

// Encode returns a (1, Dim, T) zero latent sequence with one frame per
// BlockSize input samples.
func (m *SineModel) Encode(pcm []float32) (*rave.Latents, error) {
	if m.EncodeErr != nil {
		return nil, m.EncodeErr
	}
	if len(pcm) < m.MinInput {
		return nil, ErrShortInput
	}
	frames := len(pcm) / m.block()
	if frames < 1 {
		frames = 1
	}
	return rave.NewLatents(m.Dim, frames), nil
}

// Decode renders BlockSize samples per latent frame: a sum of Dim
// harmonically spaced sinusoids, each scaled by its latent value.
func (m *SineModel) Decode(z *rave.Latents) ([]float32, error) {
	if m.DecodeErr != nil {
		return nil, m.DecodeErr
	}
	block := m.block()
	out := make([]float32, z.Frames*block)
	if m.Silent {
		return out, nil
	}
	const baseRate = 48000.0
	for t := 0; t < z.Frames; t++ {
		for i := 0; i < block; i++ {
			n := float64(t*block + i)
			sum := 0.0
			for d := 0; d < z.Dim; d++ {
				freq := 220.0 * float64(d+1)
				sum += float64(z.At(d, t)) * math.Sin(2*math.Pi*freq*n/baseRate)
			}
			out[t*block+i] = float32(sum / float64(z.Dim))
		}
	}
	return out, nil
}

// Close marks the model closed.
func (m *SineModel) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *SineModel) Closed() bool { return m.closed }
