// Package raveosc exposes RAVE model inspection as an OSC service over
// UDP.
//
// The server listens for /rave/load/model messages carrying a filesystem
// path, loads the model, probes its latent dimensionality, and reports the
// result as a single integer on /rave/info/dimensions to a pre-configured
// peer. Every failure while handling a request is logged and dropped: no
// reply is sent and the listener keeps serving. There is no error channel
// on the wire.
//
// Each inbound request is handled on its own goroutine with its own model
// instance; the configuration is immutable after startup.
package raveosc

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hypebeast/go-osc/osc"

	"github.com/ravescope/ravescope/pkg/rave"
)

// OSC addresses of the service.
const (
	AddrLoadModel  = "/rave/load/model"
	AddrDimensions = "/rave/info/dimensions"
)

// Loader opens a model at a filesystem path on a device.
type Loader func(path string, device rave.Device) (rave.Model, error)

// Config is the server configuration, fixed at startup.
type Config struct {
	ListenAddr string      // UDP listen address, e.g. "127.0.0.1:9000"
	ReplyHost  string      // peer host for dimensionality replies
	ReplyPort  int         // peer port for dimensionality replies
	Device     rave.Device // compute device for every load, default cpu
	SampleRate int         // probe signal sample rate, default 48000
	Load       Loader      // model opener, default ONNX-backed rave.Open
	Logger     *slog.Logger
}

// Server answers model-load requests. Create with New.
type Server struct {
	cfg   Config
	log   *slog.Logger
	load  Loader
	reply func(dim int) error
}

// New validates cfg and creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("raveosc: listen address required")
	}
	if cfg.ReplyHost == "" || cfg.ReplyPort == 0 {
		return nil, fmt.Errorf("raveosc: reply peer required")
	}
	if cfg.Device == "" {
		cfg.Device = rave.DeviceCPU
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	if cfg.Load == nil {
		cfg.Load = func(path string, device rave.Device) (rave.Model, error) {
			return rave.Open(path, device)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client := osc.NewClient(cfg.ReplyHost, cfg.ReplyPort)
	return &Server{
		cfg:  cfg,
		log:  cfg.Logger,
		load: cfg.Load,
		reply: func(dim int) error {
			return client.Send(osc.NewMessage(AddrDimensions, int32(dim)))
		},
	}, nil
}

// ListenAndServe blocks serving OSC requests on the configured address.
func (s *Server) ListenAndServe() error {
	d := osc.NewStandardDispatcher()
	if err := d.AddMsgHandler(AddrLoadModel, func(msg *osc.Message) {
		// One worker per request; concurrent loads each get their own
		// model instance.
		go s.handleLoad(msg)
	}); err != nil {
		return fmt.Errorf("raveosc: register handler: %w", err)
	}

	s.log.Info("listening for OSC requests",
		"addr", s.cfg.ListenAddr, "inbound", AddrLoadModel,
		"reply", fmt.Sprintf("%s:%d%s", s.cfg.ReplyHost, s.cfg.ReplyPort, AddrDimensions),
		"device", s.cfg.Device)
	srv := &osc.Server{Addr: s.cfg.ListenAddr, Dispatcher: d}
	return srv.ListenAndServe()
}

// handleLoad services one load request: normalize the path, load the
// model, probe its dimensionality, reply. Any failure drops the request.
func (s *Server) handleLoad(msg *osc.Message) {
	if len(msg.Arguments) == 0 {
		s.log.Warn("load request without arguments")
		return
	}
	raw, ok := msg.Arguments[0].(string)
	if !ok {
		s.log.Warn("load request with non-string path", "arg", msg.Arguments[0])
		return
	}

	path := NormalizeVolumePath(raw)
	if path != raw {
		s.log.Info("normalized volume path", "raw", raw, "path", path)
	}
	if _, err := os.Stat(path); err != nil {
		s.log.Error("model file not found", "path", path)
		return
	}

	model, err := s.load(path, s.cfg.Device)
	if err != nil {
		s.log.Error("model load failed", "path", path, "error", err)
		return
	}
	defer model.Close()

	dim, err := rave.ProbeLatentDimSafe(model, s.cfg.SampleRate)
	if err != nil {
		s.log.Error("dimensionality probe failed", "path", path, "error", err)
		return
	}
	if err := s.reply(dim); err != nil {
		s.log.Error("reply send failed", "dim", dim, "error", err)
		return
	}
	s.log.Info("reported latent dimensionality", "path", path, "dim", dim)
}
