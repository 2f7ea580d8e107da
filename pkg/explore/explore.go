// Package explore runs the batch latent-space exploration pipeline:
// sample latents, decode each to audio, extract features, assemble the
// corpus, normalize, project to 2-D, and export the dataset artifacts.
//
// Processing is strictly sequential over samples. A decode failure aborts
// the whole run; descriptor failures, width mismatches, and projection
// failures are repaired or skipped per stage.
package explore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ravescope/ravescope/pkg/audio/descriptor"
	"github.com/ravescope/ravescope/pkg/audio/feature"
	"github.com/ravescope/ravescope/pkg/dataset"
	"github.com/ravescope/ravescope/pkg/latent"
	"github.com/ravescope/ravescope/pkg/rave"
	"github.com/ravescope/ravescope/pkg/reduce"
)

// Config describes one exploration run. Loadable from YAML via the CLI's
// -f flag; zero fields take the documented defaults.
type Config struct {
	ModelPath  string        `yaml:"model_path"`
	OutputStem string        `yaml:"output_stem"`
	NumSamples int           `yaml:"num_samples"` // default 1000
	MinVal     float64       `yaml:"min_val"`     // default -2.0
	MaxVal     float64       `yaml:"max_val"`     // default 2.0
	SampleRate int           `yaml:"sample_rate"` // default 48000
	NumFrames  int           `yaml:"num_frames"`  // default 1
	Seed       int64         `yaml:"seed"`        // 0 means time-based
	Projection reduce.Config `yaml:"projection"`  // zero fields take embedding defaults
}

func (c Config) withDefaults() Config {
	if c.NumSamples == 0 {
		c.NumSamples = 1000
	}
	if c.MinVal == 0 && c.MaxVal == 0 {
		c.MinVal, c.MaxVal = -2.0, 2.0
	}
	if c.SampleRate == 0 {
		c.SampleRate = 48000
	}
	if c.NumFrames == 0 {
		c.NumFrames = 1
	}
	return c
}

// Run executes the pipeline against an already-opened model.
func Run(ctx context.Context, m rave.Model, cfg Config, logger *slog.Logger) error {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dim, err := rave.ProbeLatentDim(m, cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("explore: determine latent dimensionality: %w", err)
	}
	logger.Info("model probed", "latent_dimensions", dim)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("using time-based sampler seed", "seed", seed)
	}
	sampler, err := latent.NewSampler(dim, cfg.MinVal, cfg.MaxVal, seed)
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	ext := feature.New(descriptor.DefaultSet(), logger)
	asm := dataset.NewAssembler(dim, ext.ColumnNames(), logger)

	logger.Info("decoding samples and extracting features",
		"num_samples", cfg.NumSamples, "frames_per_sample", cfg.NumFrames)
	for i := 0; i < cfg.NumSamples; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("explore: aborted at sample %d: %w", i, err)
		}
		z := sampler.Sample()
		pcm, err := rave.DecodeVector(m, z, cfg.NumFrames)
		if err != nil {
			return fmt.Errorf("explore: sample %d: %w", i, err)
		}
		asm.Add(i, z, ext.Extract(pcm, cfg.SampleRate))
		logger.Info("processed sample", "index", i, "total", cfg.NumSamples,
			"audio_samples", len(pcm))
	}

	if asm.Len() == 0 {
		return fmt.Errorf("explore: no samples were successfully processed")
	}
	return export(asm, cfg, dim, ext.ColumnNames(), logger)
}

func export(asm *dataset.Assembler, cfg Config, dim int, columns []string, logger *slog.Logger) error {
	exp := dataset.NewExporter(cfg.OutputStem)

	latents, err := asm.LatentDataset()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	norm, err := normalize(asm)
	if err != nil {
		// Degenerate feature matrix: save only the raw latents.
		logger.Warn("feature matrix is degenerate, skipping normalization and projection", "error", err)
		logger.Info("saving raw latent vectors", "path", exp.LatentsPath())
		return exp.WriteLatents(latents)
	}

	features, err := asm.FeatureDataset(reduce.ToRows(norm), asm.Width())
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	logger.Info("saving normalized features", "path", exp.FeaturesPath(), "cols", features.Cols())
	if err := exp.WriteFeatures(features); err != nil {
		return err
	}
	logger.Info("saving raw latent vectors", "path", exp.LatentsPath(), "cols", latents.Cols())
	if err := exp.WriteLatents(latents); err != nil {
		return err
	}
	md := dataset.RunMetadata{
		ModelPath:              cfg.ModelPath,
		NumSamples:             asm.Len(),
		LatentDimensions:       dim,
		LatentRange:            [2]float64{cfg.MinVal, cfg.MaxVal},
		SampleRate:             cfg.SampleRate,
		FeatureNames:           columns,
		FeatureNormalization:   dataset.NormMinMax01,
		DecodedFramesPerSample: cfg.NumFrames,
	}
	logger.Info("saving run metadata", "path", exp.MetadataPath())
	if err := exp.WriteMetadata(md); err != nil {
		return err
	}

	return exportProjection(asm, cfg, dim, exp, norm, logger)
}

func normalize(asm *dataset.Assembler) (*mat.Dense, error) {
	featM, err := reduce.FromRows(asm.FeatureMatrix())
	if err != nil {
		return nil, err
	}
	var scaler reduce.MinMax
	return scaler.FitTransform(featM)
}

// exportProjection writes the two projection artifacts. Best-effort: any
// failure is logged and skips the artifacts without failing the run.
func exportProjection(asm *dataset.Assembler, cfg Config, dim int,
	exp *dataset.Exporter, norm *mat.Dense, logger *slog.Logger) error {

	emb := reduce.NewEmbedder(cfg.Projection)
	proj2d, err := emb.FitTransform(norm)
	if err != nil {
		logger.Warn("projection failed, skipping projection artifacts", "error", err)
		return nil
	}
	var scaler reduce.MinMax
	scaled, err := scaler.FitTransform(proj2d)
	if err != nil {
		logger.Warn("projection rescale failed, skipping projection artifacts", "error", err)
		return nil
	}
	projection, err := asm.FeatureDataset(reduce.ToRows(scaled), 2)
	if err != nil {
		logger.Warn("projection dataset mismatch, skipping projection artifacts", "error", err)
		return nil
	}

	logger.Info("saving 2-D projection", "path", exp.ProjectionPath())
	if err := exp.WriteProjection(projection); err != nil {
		return err
	}
	pcfg := emb.Config()
	pmd := dataset.ProjectionMetadata{
		OriginalOutputFile:      exp.FeaturesPath(),
		NumSamples:              asm.Len(),
		OriginalDimensions:      asm.Width(),
		ReducedDimensions:       2,
		FeatureNormalization:    dataset.NormMinMax01,
		ProjectionNormalization: dataset.NormMinMax01,
		NumNeighbors:            pcfg.NumNeighbors,
		MinDist:                 pcfg.MinDist,
		Metric:                  pcfg.Metric,
		LatentDimensions:        dim,
		ModelPath:               cfg.ModelPath,
		DecodedFramesPerSample:  cfg.NumFrames,
	}
	logger.Info("saving projection metadata", "path", exp.ProjectionMetadataPath())
	return exp.WriteProjectionMetadata(pmd)
}
