package descriptor

import "math"

// Time-domain descriptors use the same framing as the spectral ones but
// never touch the FFT.
const (
	frameLen = 2048
	frameHop = 512
)

// RMS computes the mean root-mean-square energy per frame.
type RMS struct{}

func (d *RMS) Name() string { return "rms" }
func (d *RMS) Width() int   { return 1 }

func (d *RMS) Compute(pcm []float32, sampleRate int) ([]float64, error) {
	if err := checkInput(pcm, sampleRate); err != nil {
		return nil, err
	}
	mean := 0.0
	n := 0
	eachFrame(pcm, func(frame []float32) {
		sum := 0.0
		for _, s := range frame {
			sum += float64(s) * float64(s)
		}
		mean += math.Sqrt(sum / float64(len(frame)))
		n++
	})
	return []float64{mean / float64(n)}, nil
}

// ZeroCrossingRate computes the mean fraction of sign changes per frame.
type ZeroCrossingRate struct{}

func (d *ZeroCrossingRate) Name() string { return "zero_crossing_rate" }
func (d *ZeroCrossingRate) Width() int   { return 1 }

func (d *ZeroCrossingRate) Compute(pcm []float32, sampleRate int) ([]float64, error) {
	if err := checkInput(pcm, sampleRate); err != nil {
		return nil, err
	}
	mean := 0.0
	n := 0
	eachFrame(pcm, func(frame []float32) {
		crossings := 0
		for i := 1; i < len(frame); i++ {
			if (frame[i-1] >= 0) != (frame[i] >= 0) {
				crossings++
			}
		}
		mean += float64(crossings) / float64(len(frame))
		n++
	})
	return []float64{mean / float64(n)}, nil
}

// eachFrame calls fn for every analysis frame of pcm, zero-padding input
// shorter than one frame.
func eachFrame(pcm []float32, fn func(frame []float32)) {
	if len(pcm) < frameLen {
		padded := make([]float32, frameLen)
		copy(padded, pcm)
		pcm = padded
	}
	for start := 0; start+frameLen <= len(pcm); start += frameHop {
		fn(pcm[start : start+frameLen])
	}
}
