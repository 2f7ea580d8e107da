package commands

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ravescope/ravescope/pkg/rave"
	"github.com/ravescope/ravescope/pkg/raveosc"
)

var (
	serveIP         string
	servePort       int
	serveClientIP   string
	serveClientPort int
	serveDevice     string
	serveSR         int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the OSC model-inspection service",
	Long: `Listen for OSC /rave/load/model requests over UDP. For each request
the service loads the model at the given path, probes its latent
dimensionality, and sends the result as an integer on
/rave/info/dimensions to the configured client address. Failed requests
are logged and dropped without a reply.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveIP, "ip", "127.0.0.1", "address the OSC server listens on")
	f.IntVar(&servePort, "port", 9000, "port the OSC server listens on")
	f.StringVar(&serveClientIP, "client-ip", "127.0.0.1", "address dimension replies are sent to")
	f.IntVar(&serveClientPort, "client-port", 9001, "port dimension replies are sent to")
	f.StringVar(&serveDevice, "device", "cpu", "inference device (cpu, cuda, mps)")
	f.IntVar(&serveSR, "sr", 48000, "sample rate for the probe signal")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	device, err := rave.ParseDevice(serveDevice)
	if err != nil {
		return err
	}
	logger := newLogger()

	srv, err := raveosc.New(raveosc.Config{
		ListenAddr: net.JoinHostPort(serveIP, strconv.Itoa(servePort)),
		ReplyHost:  serveClientIP,
		ReplyPort:  serveClientPort,
		Device:     device,
		SampleRate: serveSR,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		return nil
	}
}
