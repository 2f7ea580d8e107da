package descriptor

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

const testSR = 48000

func sine(freq, amp float64, n int) []float32 {
	pcm := make([]float32, n)
	for i := range pcm {
		pcm[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/testSR))
	}
	return pcm
}

func noise(n int) []float32 {
	rng := rand.New(rand.NewSource(1))
	pcm := make([]float32, n)
	for i := range pcm {
		pcm[i] = float32(rng.Float64()*2 - 1)
	}
	return pcm
}

func TestDefaultSetSchema(t *testing.T) {
	set := DefaultSet()
	if got := TotalWidth(set); got != 37 {
		t.Fatalf("TotalWidth = %d, want 37", got)
	}
	names := ColumnNames(set)
	if len(names) != 37 {
		t.Fatalf("len(names) = %d, want 37", len(names))
	}
	if names[0] != "mfcc_0" || names[12] != "mfcc_12" {
		t.Errorf("mfcc names wrong: %q .. %q", names[0], names[12])
	}
	if names[13] != "spectral_centroid" {
		t.Errorf("names[13] = %q, want spectral_centroid", names[13])
	}
	if names[36] != "chroma_stft_11" {
		t.Errorf("names[36] = %q, want chroma_stft_11", names[36])
	}
	for _, n := range names {
		if strings.Contains(n, " ") {
			t.Errorf("column name %q contains whitespace", n)
		}
	}
}

func TestCentroidOfSine(t *testing.T) {
	d := &Centroid{}
	vals, err := d.Compute(sine(440, 0.8, testSR), testSR)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 1 {
		t.Fatalf("width = %d, want 1", len(vals))
	}
	if math.Abs(vals[0]-440) > 60 {
		t.Errorf("centroid = %f, want ~440", vals[0])
	}
}

func TestBandwidthNoiseWiderThanSine(t *testing.T) {
	d := &Bandwidth{}
	s, err := d.Compute(sine(440, 0.8, testSR), testSR)
	if err != nil {
		t.Fatal(err)
	}
	n, err := d.Compute(noise(testSR), testSR)
	if err != nil {
		t.Fatal(err)
	}
	if n[0] <= s[0] {
		t.Errorf("noise bandwidth %f should exceed sine bandwidth %f", n[0], s[0])
	}
}

func TestFlatnessNoiseVsSine(t *testing.T) {
	d := &Flatness{}
	s, err := d.Compute(sine(440, 0.8, testSR), testSR)
	if err != nil {
		t.Fatal(err)
	}
	n, err := d.Compute(noise(testSR), testSR)
	if err != nil {
		t.Fatal(err)
	}
	if n[0] <= s[0] {
		t.Errorf("noise flatness %f should exceed sine flatness %f", n[0], s[0])
	}
	if s[0] < 0 || n[0] > 1 {
		t.Errorf("flatness out of range: sine %f, noise %f", s[0], n[0])
	}
}

func TestRMSOfSine(t *testing.T) {
	d := &RMS{}
	vals, err := d.Compute(sine(440, 0.5, testSR), testSR)
	if err != nil {
		t.Fatal(err)
	}
	// RMS of a 0.5-amplitude sine is 0.5/sqrt(2)
	want := 0.5 / math.Sqrt2
	if math.Abs(vals[0]-want) > 0.01 {
		t.Errorf("rms = %f, want ~%f", vals[0], want)
	}
}

func TestZeroCrossingRateOfSine(t *testing.T) {
	d := &ZeroCrossingRate{}
	vals, err := d.Compute(sine(480, 0.8, testSR), testSR)
	if err != nil {
		t.Fatal(err)
	}
	// A sine crosses zero twice per cycle: 2 * 480 / 48000 per sample.
	want := 2.0 * 480.0 / float64(testSR)
	if math.Abs(vals[0]-want) > 0.005 {
		t.Errorf("zcr = %f, want ~%f", vals[0], want)
	}
}

func TestMFCCWidthAndFiniteness(t *testing.T) {
	d := &MFCC{NumCoeffs: 13}
	vals, err := d.Compute(noise(testSR/2), testSR)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 13 {
		t.Fatalf("width = %d, want 13", len(vals))
	}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("mfcc_%d = %f, want finite", i, v)
		}
	}
}

func TestContrastWidthAndFiniteness(t *testing.T) {
	d := &Contrast{}
	vals, err := d.Compute(noise(testSR/2), testSR)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 7 {
		t.Fatalf("width = %d, want 7", len(vals))
	}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("band %d = %f, want finite", i, v)
		}
	}
}

func TestChromaOfPureTone(t *testing.T) {
	d := &Chroma{}
	// A4 = 440 Hz, pitch class 9 (A)
	vals, err := d.Compute(sine(440, 0.8, testSR), testSR)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 12 {
		t.Fatalf("width = %d, want 12", len(vals))
	}
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	if best != 9 {
		t.Errorf("dominant pitch class = %d, want 9 (A)", best)
	}
}

func TestEmptyInputErrors(t *testing.T) {
	for _, d := range DefaultSet() {
		if _, err := d.Compute(nil, testSR); err == nil {
			t.Errorf("%s: expected error on empty input", d.Name())
		}
		if _, err := d.Compute(sine(440, 0.5, 1000), 0); err == nil {
			t.Errorf("%s: expected error on zero sample rate", d.Name())
		}
	}
}
