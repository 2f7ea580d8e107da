package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// NormMinMax01 is the normalization method name recorded in metadata.
const NormMinMax01 = "MinMax [0, 1]"

// RunMetadata holds the static facts about a batch run. Immutable once
// written.
type RunMetadata struct {
	ModelPath              string     `json:"model_path"`
	NumSamples             int        `json:"num_samples"`
	LatentDimensions       int        `json:"latent_dimensions"`
	LatentRange            [2]float64 `json:"latent_range"`
	SampleRate             int        `json:"sample_rate"`
	FeatureNames           []string   `json:"feature_names"`
	FeatureNormalization   string     `json:"feature_normalization"`
	DecodedFramesPerSample int        `json:"decoded_frames_per_sample"`
}

// ProjectionMetadata describes the optional 2-D reduction. Written only
// when the projection step succeeded.
type ProjectionMetadata struct {
	OriginalOutputFile      string  `json:"original_output_file"`
	NumSamples              int     `json:"num_samples"`
	OriginalDimensions      int     `json:"original_dimensions"`
	ReducedDimensions       int     `json:"reduced_dimensions"`
	FeatureNormalization    string  `json:"feature_normalization"`
	ProjectionNormalization string  `json:"umap_normalization"`
	NumNeighbors            int     `json:"umap_n_neighbors"`
	MinDist                 float64 `json:"umap_min_dist"`
	Metric                  string  `json:"umap_metric"`
	LatentDimensions        int     `json:"latent_dimensions"`
	ModelPath               string  `json:"model_path"`
	DecodedFramesPerSample  int     `json:"decoded_frames_per_sample"`
}

// Exporter writes run artifacts derived from one output stem. It performs
// no computation; absent matrices simply omit the affected files.
type Exporter struct {
	stem string
}

// NewExporter creates an Exporter. A trailing ".json" on the stem is
// stripped.
func NewExporter(stem string) *Exporter {
	if strings.HasSuffix(strings.ToLower(stem), ".json") {
		stem = stem[:len(stem)-len(".json")]
	}
	return &Exporter{stem: stem}
}

// FeaturesPath is the normalized-features artifact path.
func (e *Exporter) FeaturesPath() string { return e.stem + ".json" }

// LatentsPath is the raw-latents artifact path.
func (e *Exporter) LatentsPath() string { return e.stem + "_latent_vectors.json" }

// MetadataPath is the run-metadata artifact path.
func (e *Exporter) MetadataPath() string { return e.stem + "_metadata.json" }

// ProjectionPath is the 2-D projection artifact path.
func (e *Exporter) ProjectionPath() string { return e.stem + "_umap_2d.json" }

// ProjectionMetadataPath is the projection-metadata artifact path.
func (e *Exporter) ProjectionMetadataPath() string { return e.stem + "_umap_metadata.json" }

// WriteFeatures writes the normalized feature dataset.
func (e *Exporter) WriteFeatures(ds *Dataset) error { return writeJSON(e.FeaturesPath(), ds) }

// WriteLatents writes the raw latent dataset.
func (e *Exporter) WriteLatents(ds *Dataset) error { return writeJSON(e.LatentsPath(), ds) }

// WriteMetadata writes the run metadata.
func (e *Exporter) WriteMetadata(md RunMetadata) error { return writeJSON(e.MetadataPath(), md) }

// WriteProjection writes the 2-D projection dataset.
func (e *Exporter) WriteProjection(ds *Dataset) error { return writeJSON(e.ProjectionPath(), ds) }

// WriteProjectionMetadata writes the projection metadata.
func (e *Exporter) WriteProjectionMetadata(md ProjectionMetadata) error {
	return writeJSON(e.ProjectionMetadataPath(), md)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("dataset: write %s: %w", path, err)
	}
	return f.Close()
}
