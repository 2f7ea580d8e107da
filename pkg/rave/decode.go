package rave

import "fmt"

// DecodeVector decodes a single latent vector into a waveform. The vector
// is reshaped to (1, D, 1) and repeated frames times along the time axis
// before decoding; the squeezed, flattened waveform is returned.
//
// Pure function of its inputs; no caching. Any decode error is fatal for
// the sample and propagates to the caller.
func DecodeVector(m Model, z []float32, frames int) ([]float32, error) {
	if len(z) == 0 {
		return nil, fmt.Errorf("rave: empty latent vector")
	}
	if frames < 1 {
		frames = 1
	}

	lat := NewLatents(len(z), frames)
	for d, v := range z {
		for t := 0; t < frames; t++ {
			lat.Set(d, t, v)
		}
	}

	pcm, err := m.Decode(lat)
	if err != nil {
		return nil, fmt.Errorf("rave: decode: %w", err)
	}
	return pcm, nil
}
