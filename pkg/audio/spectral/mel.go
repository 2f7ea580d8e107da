package spectral

import "math"

// HzToMel converts frequency in Hz to the HTK mel scale.
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts a mel-scale value back to Hz.
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// FilterBank creates a triangular mel filterbank with fractional bin
// overlap. Returns [numMels][fftSize/2+1] weights.
func FilterBank(numMels, fftSize, sampleRate int, lowFreq, highFreq float64) [][]float64 {
	half := fftSize/2 + 1
	lowMel := HzToMel(lowFreq)
	highMel := HzToMel(highFreq)

	// numMels + 2 edge frequencies, equally spaced on the mel scale.
	edges := make([]float64, numMels+2)
	for i := range edges {
		edges[i] = MelToHz(lowMel + (highMel-lowMel)*float64(i)/float64(numMels+1))
	}

	binHz := float64(sampleRate) / float64(fftSize)
	bank := make([][]float64, numMels)
	for m := range bank {
		filter := make([]float64, half)
		lo, center, hi := edges[m], edges[m+1], edges[m+2]
		for k := 0; k < half; k++ {
			f := float64(k) * binHz
			switch {
			case f <= lo || f >= hi:
				// outside the triangle
			case f < center:
				if center > lo {
					filter[k] = (f - lo) / (center - lo)
				}
			default:
				if hi > center {
					filter[k] = (hi - f) / (hi - center)
				}
			}
		}
		bank[m] = filter
	}
	return bank
}

// DCTII computes the first numCoeffs coefficients of the orthonormal DCT-II
// of x.
func DCTII(x []float64, numCoeffs int) []float64 {
	n := len(x)
	out := make([]float64, numCoeffs)
	if n == 0 {
		return out
	}
	for k := 0; k < numCoeffs; k++ {
		sum := 0.0
		for i, v := range x {
			sum += v * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		scale := math.Sqrt(2.0 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1.0 / float64(n))
		}
		out[k] = sum * scale
	}
	return out
}
