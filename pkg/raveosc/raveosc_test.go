package raveosc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hypebeast/go-osc/osc"

	"github.com/ravescope/ravescope/pkg/rave"
	"github.com/ravescope/ravescope/pkg/rave/ravetest"
)

func TestNormalizeVolumePath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Macintosh HD:/Users/x/model.onnx", "/Users/x/model.onnx"},
		{"/Users/x/model.onnx", "/Users/x/model.onnx"},
		{"model.onnx", "model.onnx"},
		{"C:relative", "C:relative"},
		{":/leading-colon", ":/leading-colon"},
	}
	for _, c := range cases {
		if got := NormalizeVolumePath(c.in); got != c.want {
			t.Errorf("NormalizeVolumePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewValidatesAndDefaults(t *testing.T) {
	if _, err := New(Config{ReplyHost: "127.0.0.1", ReplyPort: 9001}); err == nil {
		t.Error("expected error for missing listen address")
	}
	if _, err := New(Config{ListenAddr: "127.0.0.1:9000"}); err == nil {
		t.Error("expected error for missing reply peer")
	}

	s, err := New(Config{ListenAddr: "127.0.0.1:9000", ReplyHost: "127.0.0.1", ReplyPort: 9001})
	if err != nil {
		t.Fatal(err)
	}
	if s.cfg.Device != rave.DeviceCPU {
		t.Errorf("device = %q, want cpu default", s.cfg.Device)
	}
	if s.cfg.SampleRate != 48000 {
		t.Errorf("sample rate = %d, want 48000 default", s.cfg.SampleRate)
	}
}

// newTestServer returns a server with the network edges replaced: the
// loader hands out m for any path and replies are captured in a channel.
func newTestServer(t *testing.T, m *ravetest.SineModel, loadErr error) (*Server, chan int) {
	t.Helper()
	s, err := New(Config{
		ListenAddr: "127.0.0.1:9000",
		ReplyHost:  "127.0.0.1",
		ReplyPort:  9001,
	})
	if err != nil {
		t.Fatal(err)
	}
	s.load = func(string, rave.Device) (rave.Model, error) {
		if loadErr != nil {
			return nil, loadErr
		}
		return m, nil
	}
	replies := make(chan int, 1)
	s.reply = func(dim int) error {
		replies <- dim
		return nil
	}
	return s, replies
}

func modelFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHandleLoadRepliesWithDimensions(t *testing.T) {
	m := &ravetest.SineModel{Dim: 16}
	s, replies := newTestServer(t, m, nil)

	s.handleLoad(osc.NewMessage(AddrLoadModel, modelFile(t)))

	select {
	case dim := <-replies:
		if dim != 16 {
			t.Errorf("dim = %d, want 16", dim)
		}
	default:
		t.Fatal("no reply sent")
	}
	if !m.Closed() {
		t.Error("model was not closed after probing")
	}
}

func TestHandleLoadStripsVolumePrefix(t *testing.T) {
	m := &ravetest.SineModel{Dim: 8}
	s, replies := newTestServer(t, m, nil)

	s.handleLoad(osc.NewMessage(AddrLoadModel, "Macintosh HD:"+modelFile(t)))

	select {
	case dim := <-replies:
		if dim != 8 {
			t.Errorf("dim = %d, want 8", dim)
		}
	default:
		t.Fatal("no reply sent")
	}
}

func TestHandleLoadDropsBadRequests(t *testing.T) {
	m := &ravetest.SineModel{Dim: 8}

	t.Run("missing file", func(t *testing.T) {
		s, replies := newTestServer(t, m, nil)
		s.handleLoad(osc.NewMessage(AddrLoadModel, filepath.Join(t.TempDir(), "nope.onnx")))
		select {
		case dim := <-replies:
			t.Errorf("unexpected reply %d", dim)
		default:
		}
	})

	t.Run("no arguments", func(t *testing.T) {
		s, replies := newTestServer(t, m, nil)
		s.handleLoad(osc.NewMessage(AddrLoadModel))
		select {
		case dim := <-replies:
			t.Errorf("unexpected reply %d", dim)
		default:
		}
	})

	t.Run("non-string argument", func(t *testing.T) {
		s, replies := newTestServer(t, m, nil)
		s.handleLoad(osc.NewMessage(AddrLoadModel, int32(7)))
		select {
		case dim := <-replies:
			t.Errorf("unexpected reply %d", dim)
		default:
		}
	})

	t.Run("load failure", func(t *testing.T) {
		s, replies := newTestServer(t, m, errors.New("corrupt model"))
		s.handleLoad(osc.NewMessage(AddrLoadModel, modelFile(t)))
		select {
		case dim := <-replies:
			t.Errorf("unexpected reply %d", dim)
		default:
		}
	})

	t.Run("probe failure", func(t *testing.T) {
		broken := &ravetest.SineModel{Dim: 8, EncodeErr: errors.New("encode exploded")}
		s, replies := newTestServer(t, broken, nil)
		s.handleLoad(osc.NewMessage(AddrLoadModel, modelFile(t)))
		select {
		case dim := <-replies:
			t.Errorf("unexpected reply %d", dim)
		default:
		}
		if !broken.Closed() {
			t.Error("model was not closed after failed probe")
		}
	})
}
