package rave

import "fmt"

// ProbeLatentDim determines the model's latent dimensionality by encoding a
// short all-zero signal (max(sampleRate/4, 1024) samples) and reading the
// channel dimension of the result. If the encode fails with a short-input
// error, it retries once with a full second of silence. Any other failure
// propagates with its original cause.
func ProbeLatentDim(m Model, sampleRate int) (int, error) {
	return probeLatentDim(m, max(sampleRate/4, 1024), sampleRate)
}

// ProbeLatentDimSafe is the conservative variant used by the model service:
// it probes with max(sampleRate/2, 4096) samples and retries with two full
// seconds. Slower on the first request, but tolerant of models with large
// receptive fields.
func ProbeLatentDimSafe(m Model, sampleRate int) (int, error) {
	return probeLatentDim(m, max(sampleRate/2, 4096), 2*sampleRate)
}

func probeLatentDim(m Model, probeLen, retryLen int) (int, error) {
	z, err := m.Encode(make([]float32, probeLen))
	if err != nil {
		if !IsShortInput(err) {
			return 0, fmt.Errorf("rave: probe encode: %w", err)
		}
		z, err = m.Encode(make([]float32, retryLen))
		if err != nil {
			return 0, fmt.Errorf("rave: probe encode retry (%d samples): %w", retryLen, err)
		}
	}
	if z == nil || z.Dim <= 0 {
		return 0, fmt.Errorf("rave: encode returned invalid latent shape")
	}
	return z.Dim, nil
}
