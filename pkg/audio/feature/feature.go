// Package feature runs a descriptor set over decoded waveforms and produces
// flat, schema-stable feature vectors.
//
// The schema (column order, names, total width) is fixed by the descriptor
// set at construction time. Individual descriptor failures never change the
// output width: the failing descriptor's slots are filled with placeholders
// and scrubbed to zero, so every extraction yields exactly Width() values.
package feature

import (
	"io"
	"log/slog"
	"math"

	"github.com/ravescope/ravescope/pkg/audio/descriptor"
)

// silenceEps is the absolute-sum threshold below which a waveform is
// treated as silent.
const silenceEps = 1e-6

// Extractor computes flat feature vectors from waveforms.
type Extractor struct {
	set   []descriptor.Descriptor
	names []string
	width int
	log   *slog.Logger
}

// New creates an Extractor over the given descriptor set.
// A nil logger disables warning output.
func New(set []descriptor.Descriptor, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{
		set:   set,
		names: descriptor.ColumnNames(set),
		width: descriptor.TotalWidth(set),
		log:   logger,
	}
}

// ColumnNames returns the flat column names, one per output slot.
func (e *Extractor) ColumnNames() []string { return e.names }

// Width returns the total output width.
func (e *Extractor) Width() int { return e.width }

// Extract computes the feature vector for pcm. The result always has
// exactly Width() elements and contains no NaN or infinity.
func (e *Extractor) Extract(pcm []float32, sampleRate int) []float64 {
	if isSilent(pcm) {
		e.log.Warn("waveform is nearly silent, emitting zero features")
		return make([]float64, e.width)
	}

	out := make([]float64, 0, e.width)
	for _, d := range e.set {
		vals, err := d.Compute(pcm, sampleRate)
		if err != nil || len(vals) != d.Width() {
			if err != nil {
				e.log.Warn("descriptor failed, substituting placeholders",
					"descriptor", d.Name(), "error", err)
			} else {
				e.log.Warn("descriptor returned wrong width, substituting placeholders",
					"descriptor", d.Name(), "got", len(vals), "want", d.Width())
			}
			vals = placeholders(d.Width())
		}
		out = append(out, vals...)
	}

	// Scrub NaN/Inf left by placeholders or degenerate spectra.
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = 0
		}
	}
	return out
}

func isSilent(pcm []float32) bool {
	sum := 0.0
	for _, s := range pcm {
		sum += math.Abs(float64(s))
		if sum >= silenceEps {
			return false
		}
	}
	return sum < silenceEps
}

func placeholders(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = math.NaN()
	}
	return vals
}
