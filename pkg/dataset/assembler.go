package dataset

import (
	"fmt"
	"io"
	"log/slog"
)

// Assembler accumulates (sample index, latent vector, feature vector)
// triples in arrival order and keeps the feature matrix rectangular.
//
// The feature width is normally declared upfront via column names. When
// constructed without a schema, the first non-empty feature vector fixes
// the corpus-wide width. Later rows that disagree are repaired by
// zero-padding or truncation with a warning; entirely missing rows are
// zero-filled once the width is known and skipped before that.
//
// The Assembler exclusively owns the accumulated matrices.
type Assembler struct {
	dim      int
	width    int // 0 until known
	names    []string
	ids      []string
	latents  [][]float32
	features [][]float64
	log      *slog.Logger
}

// NewAssembler creates an Assembler for latent vectors of dimensionality
// dim. columnNames declares the feature schema; pass nil to let the first
// non-empty row decide the width. A nil logger disables warnings.
func NewAssembler(dim int, columnNames []string, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Assembler{
		dim:   dim,
		width: len(columnNames),
		names: columnNames,
		log:   logger,
	}
}

// Add records the sample with ordinal index, its latent vector, and its
// feature vector. A nil or empty feature vector marks a failed extraction.
func (a *Assembler) Add(index int, z []float32, features []float64) {
	id := fmt.Sprintf("sample_%d", index)

	switch {
	case len(features) == 0 && a.width == 0:
		// Width unknown and nothing to learn it from: the sample
		// contributes no row.
		a.log.Warn("extraction failed before feature width was known, skipping sample", "id", id)
		return
	case len(features) == 0:
		a.log.Warn("extraction failed, zero-filling features", "id", id)
		features = make([]float64, a.width)
	case a.width == 0:
		a.width = len(features)
	case len(features) != a.width:
		a.log.Warn("feature width mismatch, repairing",
			"id", id, "got", len(features), "want", a.width)
		repaired := make([]float64, a.width)
		copy(repaired, features)
		features = repaired
	}

	a.ids = append(a.ids, id)
	a.latents = append(a.latents, z)
	a.features = append(a.features, features)
}

// Len returns the number of rows that survived.
func (a *Assembler) Len() int { return len(a.ids) }

// Width returns the feature width, or 0 if still unknown.
func (a *Assembler) Width() int { return a.width }

// ColumnNames returns the declared schema, or nil when the width was
// learned from data.
func (a *Assembler) ColumnNames() []string { return a.names }

// IDs returns the surviving sample ids in insertion order.
func (a *Assembler) IDs() []string {
	out := make([]string, len(a.ids))
	copy(out, a.ids)
	return out
}

// FeatureMatrix returns the accumulated feature rows. The returned slices
// remain owned by the Assembler.
func (a *Assembler) FeatureMatrix() [][]float64 { return a.features }

// LatentDataset builds the raw-latent Dataset (cols = latent
// dimensionality), keyed and ordered like the feature rows.
func (a *Assembler) LatentDataset() (*Dataset, error) {
	ds := New(a.dim)
	for i, id := range a.ids {
		row := make([]float64, len(a.latents[i]))
		for j, v := range a.latents[i] {
			row[j] = float64(v)
		}
		if err := ds.Add(id, row); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// FeatureDataset builds a Dataset from the given rows (typically the
// normalized feature matrix), keyed and ordered like the surviving samples.
// len(rows) must equal Len().
func (a *Assembler) FeatureDataset(rows [][]float64, cols int) (*Dataset, error) {
	if len(rows) != len(a.ids) {
		return nil, fmt.Errorf("dataset: %d rows for %d samples", len(rows), len(a.ids))
	}
	ds := New(cols)
	for i, id := range a.ids {
		if err := ds.Add(id, rows[i]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}
