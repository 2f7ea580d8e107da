// Package spectral computes short-time spectral analysis over mono PCM audio.
//
// It provides the shared front end for the audio descriptors: a Hann-windowed
// power spectrogram, a mel filterbank, and a DCT-II, all over float32 samples
// in [-1, 1].
//
// Default parameters follow the common analysis convention for music audio:
//
//	WindowSize: 2048
//	HopSize:    512
//	FFTSize:    2048
//
// Inputs shorter than one window are zero-padded so that every waveform
// yields at least one frame.
package spectral

import "math"

// Config controls the analysis framing.
type Config struct {
	SampleRate int // audio sample rate in Hz
	WindowSize int // window length in samples (default 2048)
	HopSize    int // hop length in samples (default 512)
	FFTSize    int // FFT size, power of two >= WindowSize (default 2048)
}

// DefaultConfig returns the standard analysis config for the given rate.
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate: sampleRate,
		WindowSize: 2048,
		HopSize:    512,
		FFTSize:    2048,
	}
}

// Analyzer computes power spectrograms from PCM samples.
type Analyzer struct {
	cfg    Config
	window []float64
}

// New creates an Analyzer. Zero fields in cfg are filled with defaults.
func New(cfg Config) *Analyzer {
	def := DefaultConfig(cfg.SampleRate)
	if cfg.WindowSize == 0 {
		cfg.WindowSize = def.WindowSize
	}
	if cfg.HopSize == 0 {
		cfg.HopSize = def.HopSize
	}
	if cfg.FFTSize == 0 {
		cfg.FFTSize = def.FFTSize
	}
	return &Analyzer{cfg: cfg, window: hannWindow(cfg.WindowSize)}
}

// Config returns the effective analysis config.
func (a *Analyzer) Config() Config { return a.cfg }

// BinFreqs returns the center frequency in Hz of each FFT bin,
// length FFTSize/2 + 1.
func (a *Analyzer) BinFreqs() []float64 {
	half := a.cfg.FFTSize/2 + 1
	freqs := make([]float64, half)
	for k := range freqs {
		freqs[k] = float64(k) * float64(a.cfg.SampleRate) / float64(a.cfg.FFTSize)
	}
	return freqs
}

// Power computes the power spectrogram of pcm.
// Output: [T][FFTSize/2+1] where T = (n - WindowSize)/HopSize + 1 after
// zero-padding n up to at least one window.
func (a *Analyzer) Power(pcm []float32) [][]float64 {
	cfg := a.cfg
	n := len(pcm)
	if n < cfg.WindowSize {
		padded := make([]float32, cfg.WindowSize)
		copy(padded, pcm)
		pcm = padded
		n = cfg.WindowSize
	}

	numFrames := (n-cfg.WindowSize)/cfg.HopSize + 1
	half := cfg.FFTSize/2 + 1
	frames := make([][]float64, numFrames)

	buf := make([]complex128, cfg.FFTSize)
	for t := 0; t < numFrames; t++ {
		start := t * cfg.HopSize
		for i := 0; i < cfg.WindowSize; i++ {
			buf[i] = complex(float64(pcm[start+i])*a.window[i], 0)
		}
		for i := cfg.WindowSize; i < cfg.FFTSize; i++ {
			buf[i] = 0
		}
		fft(buf)

		power := make([]float64, half)
		for k := 0; k < half; k++ {
			re, im := real(buf[k]), imag(buf[k])
			power[k] = re*re + im*im
		}
		frames[t] = power
	}
	return frames
}

// hannWindow generates a periodic Hann window of length n.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}
