// Package rave wraps pre-trained RAVE-style generative audio models.
//
// A [Model] is a black box with two operations: Encode compresses a mono
// waveform into a latent sequence, Decode reconstructs a waveform from one.
// The package adds what the pipeline needs around that box: latent
// dimensionality probing with short-signal retry ([ProbeLatentDim]) and
// single-vector decoding with time tiling ([DecodeVector]).
//
// The production implementation loads the conventional RAVE ONNX export
// pair via ONNX Runtime ([Open], cgo builds only). Tests use the in-memory
// model from the ravetest subpackage.
package rave

import (
	"fmt"
	"strings"
)

// Model is a generative audio model with paired encode/decode operations.
//
// Implementations must be safe for concurrent use; each method call is
// independent and carries no cross-call state.
type Model interface {
	// Encode compresses a mono waveform into a latent sequence.
	Encode(pcm []float32) (*Latents, error)

	// Decode reconstructs a mono waveform from a latent sequence.
	Decode(z *Latents) ([]float32, error)

	// Close releases resources held by the model.
	Close() error
}

// Latents is a (batch=1, Dim, Frames) latent tensor in row-major layout:
// Data[d*Frames+t] is dimension d at frame t.
type Latents struct {
	Dim    int
	Frames int
	Data   []float32
}

// NewLatents allocates a zero latent tensor.
func NewLatents(dim, frames int) *Latents {
	return &Latents{Dim: dim, Frames: frames, Data: make([]float32, dim*frames)}
}

// At returns the value for dimension d at frame t.
func (l *Latents) At(d, t int) float32 { return l.Data[d*l.Frames+t] }

// Set stores the value for dimension d at frame t.
func (l *Latents) Set(d, t int, v float32) { l.Data[d*l.Frames+t] = v }

// Device selects where model inference runs.
type Device string

const (
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
	DeviceMPS  Device = "mps"
)

// ParseDevice validates a device name.
func ParseDevice(s string) (Device, error) {
	switch Device(s) {
	case DeviceCPU, DeviceCUDA, DeviceMPS:
		return Device(s), nil
	default:
		return "", fmt.Errorf("rave: unknown device %q (want cpu, cuda, or mps)", s)
	}
}

// IsShortInput reports whether err belongs to the "signal too short" class
// of encode failures: convolution kernel-size or padding-bounds violations.
// These are retryable with a longer probe signal; anything else is not.
func IsShortInput(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "kernel size") ||
		strings.Contains(msg, "pad value is out of bounds")
}
