//go:build cgo
// +build cgo

package rave

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXModel runs a RAVE ONNX export pair (<stem>_encode.onnx and
// <stem>_decode.onnx) through ONNX Runtime.
type ONNXModel struct {
	enc *ort.DynamicAdvancedSession
	dec *ort.DynamicAdvancedSession
	mu  sync.Mutex
}

// Tensor names used by the conventional RAVE ONNX export.
const (
	onnxAudioName  = "audio"
	onnxLatentName = "latent"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func initRuntime() error {
	ortInitOnce.Do(func() {
		if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
			ort.SetSharedLibraryPath(p)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// Open loads the model at path on the given device. path may be the
// TorchScript-style model path (.ts), a bare stem, or either half of the
// ONNX pair; it is resolved to <stem>_encode.onnx / <stem>_decode.onnx.
//
// cuda selects the CUDA execution provider and mps CoreML; if the provider
// is unavailable the session falls back to CPU.
func Open(path string, device Device) (*ONNXModel, error) {
	if err := initRuntime(); err != nil {
		return nil, fmt.Errorf("rave: initialize onnxruntime: %w", err)
	}

	encPath, decPath, err := resolvePair(path)
	if err != nil {
		return nil, err
	}

	opts, err := sessionOptions(device)
	if err != nil {
		return nil, err
	}
	defer opts.Destroy()

	enc, err := ort.NewDynamicAdvancedSession(encPath,
		[]string{onnxAudioName}, []string{onnxLatentName}, opts)
	if err != nil {
		return nil, fmt.Errorf("rave: load encoder %s: %w", encPath, err)
	}
	dec, err := ort.NewDynamicAdvancedSession(decPath,
		[]string{onnxLatentName}, []string{onnxAudioName}, opts)
	if err != nil {
		enc.Destroy()
		return nil, fmt.Errorf("rave: load decoder %s: %w", decPath, err)
	}
	return &ONNXModel{enc: enc, dec: dec}, nil
}

// Encode runs the encoder graph on a (1, 1, n) tensor and returns the
// (1, D, T) latent output.
func (m *ONNXModel) Encode(pcm []float32) (*Latents, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("rave: empty input signal")
	}
	in, err := ort.NewTensor(ort.NewShape(1, 1, int64(len(pcm))), pcm)
	if err != nil {
		return nil, fmt.Errorf("rave: encode input tensor: %w", err)
	}
	defer in.Destroy()

	outs := []ort.Value{nil}
	m.mu.Lock()
	err = m.enc.Run([]ort.Value{in}, outs)
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("rave: encode: %w", err)
	}
	out, ok := outs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("rave: encode returned non-float output")
	}
	defer out.Destroy()

	shape := out.GetShape()
	if len(shape) != 3 || shape[0] != 1 {
		return nil, fmt.Errorf("rave: unexpected encode output shape %v", shape)
	}
	lat := NewLatents(int(shape[1]), int(shape[2]))
	copy(lat.Data, out.GetData())
	return lat, nil
}

// Decode runs the decoder graph on a (1, D, T) latent tensor and returns
// the flattened waveform.
func (m *ONNXModel) Decode(z *Latents) ([]float32, error) {
	if z == nil || len(z.Data) == 0 {
		return nil, fmt.Errorf("rave: empty latent tensor")
	}
	in, err := ort.NewTensor(ort.NewShape(1, int64(z.Dim), int64(z.Frames)), z.Data)
	if err != nil {
		return nil, fmt.Errorf("rave: decode input tensor: %w", err)
	}
	defer in.Destroy()

	outs := []ort.Value{nil}
	m.mu.Lock()
	err = m.dec.Run([]ort.Value{in}, outs)
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("rave: decode: %w", err)
	}
	out, ok := outs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("rave: decode returned non-float output")
	}
	defer out.Destroy()

	data := out.GetData()
	pcm := make([]float32, len(data))
	copy(pcm, data)
	return pcm, nil
}

// Close destroys both sessions.
func (m *ONNXModel) Close() error {
	var firstErr error
	if m.enc != nil {
		firstErr = m.enc.Destroy()
		m.enc = nil
	}
	if m.dec != nil {
		if err := m.dec.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.dec = nil
	}
	return firstErr
}

func sessionOptions(device Device) (*ort.SessionOptions, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("rave: session options: %w", err)
	}
	switch device {
	case DeviceCUDA:
		cudaOpts, err := ort.NewCUDAProviderOptions()
		if err == nil {
			err = opts.AppendExecutionProviderCUDA(cudaOpts)
			cudaOpts.Destroy()
		}
		if err != nil {
			// CPU fallback mirrors the runtime's own behavior when the
			// provider is missing.
			return opts, nil
		}
	case DeviceMPS:
		// CoreML is the closest equivalent on Apple hardware.
		_ = opts.AppendExecutionProviderCoreML(0)
	}
	return opts, nil
}

// resolvePair maps a model path to the encode/decode ONNX file pair.
func resolvePair(path string) (encPath, decPath string, err error) {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	stem = strings.TrimSuffix(stem, "_encode")
	stem = strings.TrimSuffix(stem, "_decode")

	encPath = stem + "_encode.onnx"
	decPath = stem + "_decode.onnx"
	for _, p := range []string{encPath, decPath} {
		if _, err := os.Stat(p); err != nil {
			return "", "", fmt.Errorf("rave: model file not found: %s (expected ONNX export pair for %s)", p, path)
		}
	}
	return encPath, decPath, nil
}
