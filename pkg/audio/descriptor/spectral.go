package descriptor

import (
	"math"
	"sort"

	"github.com/ravescope/ravescope/pkg/audio/spectral"
)

const amin = 1e-10

// Centroid computes the mean spectral centroid: the magnitude-weighted mean
// frequency of each frame, averaged over the clip.
type Centroid struct{}

func (d *Centroid) Name() string { return "spectral_centroid" }
func (d *Centroid) Width() int   { return 1 }

func (d *Centroid) Compute(pcm []float32, sampleRate int) ([]float64, error) {
	if err := checkInput(pcm, sampleRate); err != nil {
		return nil, err
	}
	an := spectral.New(spectral.DefaultConfig(sampleRate))
	frames := an.Power(pcm)
	freqs := an.BinFreqs()

	mean := 0.0
	for _, power := range frames {
		mean += frameCentroid(power, freqs)
	}
	return []float64{mean / float64(len(frames))}, nil
}

// Bandwidth computes the mean spectral bandwidth: the magnitude-weighted
// standard deviation of frequency around the frame centroid.
type Bandwidth struct{}

func (d *Bandwidth) Name() string { return "spectral_bandwidth" }
func (d *Bandwidth) Width() int   { return 1 }

func (d *Bandwidth) Compute(pcm []float32, sampleRate int) ([]float64, error) {
	if err := checkInput(pcm, sampleRate); err != nil {
		return nil, err
	}
	an := spectral.New(spectral.DefaultConfig(sampleRate))
	frames := an.Power(pcm)
	freqs := an.BinFreqs()

	mean := 0.0
	for _, power := range frames {
		c := frameCentroid(power, freqs)
		var num, den float64
		for k, p := range power {
			m := math.Sqrt(p)
			dev := freqs[k] - c
			num += m * dev * dev
			den += m
		}
		if den > 0 {
			mean += math.Sqrt(num / den)
		}
	}
	return []float64{mean / float64(len(frames))}, nil
}

// Flatness computes the mean spectral flatness: the ratio of geometric to
// arithmetic mean of the power spectrum, near 1 for noise and near 0 for
// tonal signals.
type Flatness struct{}

func (d *Flatness) Name() string { return "spectral_flatness" }
func (d *Flatness) Width() int   { return 1 }

func (d *Flatness) Compute(pcm []float32, sampleRate int) ([]float64, error) {
	if err := checkInput(pcm, sampleRate); err != nil {
		return nil, err
	}
	an := spectral.New(spectral.DefaultConfig(sampleRate))
	frames := an.Power(pcm)

	mean := 0.0
	for _, power := range frames {
		var logSum, sum float64
		for _, p := range power {
			if p < amin {
				p = amin
			}
			logSum += math.Log(p)
			sum += p
		}
		n := float64(len(power))
		mean += math.Exp(logSum/n) / (sum / n)
	}
	return []float64{mean / float64(len(frames))}, nil
}

// Contrast computes mean spectral contrast: the log difference between
// spectral peaks and valleys in octave-spaced bands, one value per band.
//
// Bands start at 200 Hz and double up to the Nyquist frequency, yielding
// seven values (sub-200 Hz band included).
type Contrast struct{}

const (
	contrastBands = 7
	contrastFMin  = 200.0
	contrastQuant = 0.02 // quantile of bins counted as peak/valley
)

func (d *Contrast) Name() string { return "spectral_contrast" }
func (d *Contrast) Width() int   { return contrastBands }

func (d *Contrast) Compute(pcm []float32, sampleRate int) ([]float64, error) {
	if err := checkInput(pcm, sampleRate); err != nil {
		return nil, err
	}
	an := spectral.New(spectral.DefaultConfig(sampleRate))
	frames := an.Power(pcm)
	freqs := an.BinFreqs()
	nyquist := float64(sampleRate) / 2

	// Octave band edges: 0, 200, 400, ... clamped at Nyquist.
	edges := make([]float64, contrastBands+1)
	edge := contrastFMin
	for i := 1; i <= contrastBands; i++ {
		edges[i] = math.Min(edge, nyquist)
		edge *= 2
	}
	edges[contrastBands] = nyquist

	mean := make([]float64, contrastBands)
	for _, power := range frames {
		for b := 0; b < contrastBands; b++ {
			var band []float64
			for k, f := range freqs {
				if f >= edges[b] && (f < edges[b+1] || b == contrastBands-1) {
					band = append(band, power[k])
				}
			}
			if len(band) == 0 {
				continue
			}
			sort.Float64s(band)
			q := int(contrastQuant * float64(len(band)))
			if q < 1 {
				q = 1
			}
			valley := meanOf(band[:q])
			peak := meanOf(band[len(band)-q:])
			mean[b] += math.Log(peak+amin) - math.Log(valley+amin)
		}
	}
	for b := range mean {
		mean[b] /= float64(len(frames))
	}
	return mean, nil
}

// frameCentroid returns the magnitude-weighted mean frequency of one frame,
// or 0 for an all-zero frame.
func frameCentroid(power, freqs []float64) float64 {
	var num, den float64
	for k, p := range power {
		m := math.Sqrt(p)
		num += m * freqs[k]
		den += m
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
