// Package descriptor implements the fixed set of audio descriptors used to
// summarize decoded waveforms.
//
// A Descriptor reduces a mono waveform to a small fixed-width vector of
// floats (typically means of framewise values over the whole clip). The set
// returned by [DefaultSet] is ordered and static: its order, names, and
// widths define the dataset schema before any audio is analyzed.
package descriptor

import (
	"errors"
	"fmt"
)

// Descriptor summarizes a waveform as one or more numeric values.
//
// Implementations must be pure: the output depends only on the waveform and
// sample rate, and Compute may be called concurrently.
type Descriptor interface {
	// Name is the stable identifier used to derive dataset column names.
	Name() string

	// Width is the number of values Compute returns on success.
	Width() int

	// Compute summarizes pcm (mono float32 samples in [-1, 1]) as exactly
	// Width() values.
	Compute(pcm []float32, sampleRate int) ([]float64, error)
}

// DefaultSet returns the canonical descriptor set in its fixed order.
// Total width is 37 columns.
func DefaultSet() []Descriptor {
	return []Descriptor{
		&MFCC{NumCoeffs: 13},
		&Centroid{},
		&Bandwidth{},
		&Contrast{},
		&Flatness{},
		&RMS{},
		&ZeroCrossingRate{},
		&Chroma{},
	}
}

// ColumnNames expands a descriptor set into flat column names: the bare
// descriptor name for scalar descriptors, name_0..name_k for multi-valued
// ones.
func ColumnNames(set []Descriptor) []string {
	var names []string
	for _, d := range set {
		if d.Width() == 1 {
			names = append(names, d.Name())
			continue
		}
		for i := 0; i < d.Width(); i++ {
			names = append(names, fmt.Sprintf("%s_%d", d.Name(), i))
		}
	}
	return names
}

// TotalWidth returns the summed width of all descriptors in the set.
func TotalWidth(set []Descriptor) int {
	total := 0
	for _, d := range set {
		total += d.Width()
	}
	return total
}

var (
	errEmptyInput = errors.New("descriptor: empty waveform")
	errBadRate    = errors.New("descriptor: sample rate must be positive")
)

func checkInput(pcm []float32, sampleRate int) error {
	if len(pcm) == 0 {
		return errEmptyInput
	}
	if sampleRate <= 0 {
		return errBadRate
	}
	return nil
}
