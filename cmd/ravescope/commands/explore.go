package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/ravescope/ravescope/pkg/explore"
	"github.com/ravescope/ravescope/pkg/rave"
)

var (
	exploreConfigFile string
	exploreNumSamples int
	exploreMinVal     float64
	exploreMaxVal     float64
	exploreSR         int
	exploreDevice     string
	exploreNumFrames  int
	exploreSeed       int64
)

var exploreCmd = &cobra.Command{
	Use:   "explore [model_path] [output_stem]",
	Short: "Sample a model's latent space into fluid.dataset~ JSON files",
	Long: `Sample random latent vectors, decode each to audio, extract audio
descriptors, and export the corpus as fluid.dataset~ JSON artifacts:

  <stem>.json                 normalized feature vectors
  <stem>_latent_vectors.json  raw latent vectors
  <stem>_metadata.json        run metadata
  <stem>_umap_2d.json         2-D projection (when it succeeds)
  <stem>_umap_metadata.json   projection metadata (when it succeeds)

A run config may also be given with -f; explicit flags and positional
arguments override file values.

Examples:
  ravescope explore mymodel.ts out/mymodel -n 500 --min_val -3 --max_val 3
  ravescope explore -f run.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: runExplore,
}

func init() {
	f := exploreCmd.Flags()
	f.StringVarP(&exploreConfigFile, "config", "f", "", "run config YAML file")
	f.IntVarP(&exploreNumSamples, "num_samples", "n", 1000, "number of latent vectors to sample")
	f.Float64Var(&exploreMinVal, "min_val", -2.0, "minimum latent value")
	f.Float64Var(&exploreMaxVal, "max_val", 2.0, "maximum latent value")
	f.IntVar(&exploreSR, "sr", 48000, "sample rate for generation and analysis")
	f.StringVar(&exploreDevice, "device", "cpu", "inference device (cpu, cuda, mps)")
	f.IntVar(&exploreNumFrames, "num_frames", 1, "identical latent frames decoded per sample")
	f.Int64Var(&exploreSeed, "seed", 0, "sampler seed (0 = time-based)")

	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	var cfg explore.Config
	if exploreConfigFile != "" {
		data, err := os.ReadFile(exploreConfigFile)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", exploreConfigFile, err)
		}
	}
	if len(args) > 0 {
		cfg.ModelPath = args[0]
	}
	if len(args) > 1 {
		cfg.OutputStem = args[1]
	}

	// Without a config file the flags (including defaults) populate the
	// run config; with one, only explicitly set flags override it.
	f := cmd.Flags()
	fromFlags := exploreConfigFile == ""
	if fromFlags || f.Changed("num_samples") {
		cfg.NumSamples = exploreNumSamples
	}
	if fromFlags || f.Changed("min_val") {
		cfg.MinVal = exploreMinVal
	}
	if fromFlags || f.Changed("max_val") {
		cfg.MaxVal = exploreMaxVal
	}
	if fromFlags || f.Changed("sr") {
		cfg.SampleRate = exploreSR
	}
	if fromFlags || f.Changed("num_frames") {
		cfg.NumFrames = exploreNumFrames
	}
	if f.Changed("seed") {
		cfg.Seed = exploreSeed
	}

	if cfg.ModelPath == "" || cfg.OutputStem == "" {
		return fmt.Errorf("model path and output stem are required (as arguments or via -f)")
	}
	device, err := rave.ParseDevice(exploreDevice)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(cfg.OutputStem); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	logger := newLogger()
	logger.Info("loading model", "path", cfg.ModelPath, "device", device)
	model, err := rave.Open(cfg.ModelPath, device)
	if err != nil {
		return err
	}
	defer model.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return explore.Run(ctx, model, cfg, logger)
}
