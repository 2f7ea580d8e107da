//go:build !cgo
// +build !cgo

package rave

import "errors"

// ONNXModel stub type when built without CGO (see onnx.go for the real
// implementation).
type ONNXModel struct{}

// Open returns an error when built without CGO (ONNX Runtime unavailable).
func Open(_ string, _ Device) (*ONNXModel, error) {
	return nil, errors.New("rave: ONNX models require CGO; build with CGO_ENABLED=1 and onnxruntime")
}

func (m *ONNXModel) Encode(_ []float32) (*Latents, error) {
	return nil, errors.New("rave: model not loaded")
}

func (m *ONNXModel) Decode(_ *Latents) ([]float32, error) {
	return nil, errors.New("rave: model not loaded")
}

func (m *ONNXModel) Close() error { return nil }
