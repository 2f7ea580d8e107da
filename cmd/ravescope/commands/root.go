package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ravescope",
	Short: "Explore and inspect RAVE latent spaces",
	Long: `ravescope - latent space exploration for RAVE generative audio models.

The explore command samples random latent vectors, decodes them to audio,
summarizes each clip with spectral/temporal descriptors, and exports the
corpus as fluid.dataset~ JSON files for browsing in Max/MSP.

The serve command runs a standing OSC service that loads a model on
request and reports its latent dimensionality back over UDP.

Examples:
  # Explore 500 samples of a model into out/mymodel*.json
  ravescope explore mymodel.ts out/mymodel -n 500

  # Run the OSC service on the default ports (in 9000, reply 9001)
  ravescope serve --device cpu`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// IsVerbose reports whether --verbose was set.
func IsVerbose() bool { return verbose }

// newLogger builds the slog logger commands share: text on stdout, Debug
// level when --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
