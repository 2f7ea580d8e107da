package descriptor

import (
	"math"

	"github.com/ravescope/ravescope/pkg/audio/spectral"
)

// MFCC computes mean mel-frequency cepstral coefficients over the clip.
//
// The power spectrogram is mapped through a 128-band mel filterbank, log
// compressed, and reduced with an orthonormal DCT-II; the first NumCoeffs
// coefficients are averaged across frames.
type MFCC struct {
	NumCoeffs int // number of cepstral coefficients (13 in the default set)
}

const mfccNumMels = 128

func (d *MFCC) Name() string { return "mfcc" }
func (d *MFCC) Width() int   { return d.NumCoeffs }

func (d *MFCC) Compute(pcm []float32, sampleRate int) ([]float64, error) {
	if err := checkInput(pcm, sampleRate); err != nil {
		return nil, err
	}

	an := spectral.New(spectral.DefaultConfig(sampleRate))
	frames := an.Power(pcm)
	bank := spectral.FilterBank(mfccNumMels, an.Config().FFTSize, sampleRate, 0, float64(sampleRate)/2)

	mean := make([]float64, d.NumCoeffs)
	logMel := make([]float64, mfccNumMels)
	for _, power := range frames {
		for m, filter := range bank {
			sum := 0.0
			for k, w := range filter {
				if w != 0 {
					sum += w * power[k]
				}
			}
			if sum < 1e-10 {
				sum = 1e-10
			}
			logMel[m] = math.Log(sum)
		}
		for i, c := range spectral.DCTII(logMel, d.NumCoeffs) {
			mean[i] += c
		}
	}
	for i := range mean {
		mean[i] /= float64(len(frames))
	}
	return mean, nil
}
