package descriptor

import (
	"math"

	"github.com/ravescope/ravescope/pkg/audio/spectral"
)

// Chroma computes mean pitch-class energy: the power spectrum is folded
// onto the 12 semitone classes (C=0 .. B=11), each frame is normalized by
// its maximum, and the frames are averaged.
type Chroma struct{}

const chromaBins = 12

func (d *Chroma) Name() string { return "chroma_stft" }
func (d *Chroma) Width() int   { return chromaBins }

func (d *Chroma) Compute(pcm []float32, sampleRate int) ([]float64, error) {
	if err := checkInput(pcm, sampleRate); err != nil {
		return nil, err
	}
	an := spectral.New(spectral.DefaultConfig(sampleRate))
	frames := an.Power(pcm)
	freqs := an.BinFreqs()

	// Precompute bin -> pitch class, -1 for DC and sub-audio bins.
	class := make([]int, len(freqs))
	for k, f := range freqs {
		if f < 16 { // below C0, fold nothing in
			class[k] = -1
			continue
		}
		midi := 69 + 12*math.Log2(f/440.0)
		class[k] = ((int(math.Round(midi)) % chromaBins) + chromaBins) % chromaBins
	}

	mean := make([]float64, chromaBins)
	frame := make([]float64, chromaBins)
	for _, power := range frames {
		for i := range frame {
			frame[i] = 0
		}
		for k, p := range power {
			if class[k] >= 0 {
				frame[class[k]] += p
			}
		}
		max := 0.0
		for _, v := range frame {
			if v > max {
				max = v
			}
		}
		if max > 0 {
			for i, v := range frame {
				mean[i] += v / max
			}
		}
	}
	for i := range mean {
		mean[i] /= float64(len(frames))
	}
	return mean, nil
}
