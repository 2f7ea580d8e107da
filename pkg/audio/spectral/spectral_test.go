package spectral

import (
	"math"
	"testing"
)

func TestHannWindow(t *testing.T) {
	w := hannWindow(2048)
	if len(w) != 2048 {
		t.Fatalf("expected 2048, got %d", len(w))
	}
	if math.Abs(w[0]) > 1e-12 {
		t.Errorf("w[0] = %f, want 0", w[0])
	}
	// Center of a periodic Hann window is 1.0
	if math.Abs(w[1024]-1.0) > 1e-12 {
		t.Errorf("w[1024] = %f, want 1.0", w[1024])
	}
}

func TestFFT(t *testing.T) {
	// DC + 1-cycle cosine over 8 samples
	n := 8
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(1.0+math.Cos(2*math.Pi*float64(i)/float64(n)), 0)
	}
	fft(x)

	if math.Abs(real(x[0])-float64(n)) > 0.01 {
		t.Errorf("DC = %f, want %d", real(x[0]), n)
	}
	if math.Abs(real(x[1])-float64(n)/2) > 0.01 {
		t.Errorf("H1 = %f, want %f", real(x[1]), float64(n)/2)
	}
	for k := 2; k < n-1; k++ {
		if math.Abs(real(x[k])) > 0.01 || math.Abs(imag(x[k])) > 0.01 {
			t.Errorf("bin %d = (%f, %f), want 0", k, real(x[k]), imag(x[k]))
		}
	}
}

func TestMelConversionRoundTrip(t *testing.T) {
	// HTK mel scale: hzToMel(1000) ~ 1000.45
	mel := HzToMel(1000)
	if math.Abs(mel-1000.45) > 1.0 {
		t.Errorf("HzToMel(1000) = %f, want ~1000.45", mel)
	}
	hz := MelToHz(mel)
	if math.Abs(hz-1000) > 0.1 {
		t.Errorf("round trip = %f, want 1000", hz)
	}
}

func TestFilterBank(t *testing.T) {
	bank := FilterBank(128, 2048, 48000, 0, 24000)
	if len(bank) != 128 {
		t.Fatalf("expected 128 filters, got %d", len(bank))
	}
	half := 2048/2 + 1
	for i, f := range bank {
		if len(f) != half {
			t.Fatalf("filter %d: expected %d bins, got %d", i, half, len(f))
		}
		hasNonZero := false
		for _, v := range f {
			if v > 0 {
				hasNonZero = true
				break
			}
		}
		if !hasNonZero {
			t.Errorf("filter %d is all zeros", i)
		}
	}
}

func TestDCTIIConstant(t *testing.T) {
	x := []float64{3, 3, 3, 3}
	c := DCTII(x, 4)
	// A constant signal has all its energy in c0.
	if math.Abs(c[0]-6.0) > 1e-9 {
		t.Errorf("c0 = %f, want 6.0", c[0])
	}
	for k := 1; k < 4; k++ {
		if math.Abs(c[k]) > 1e-9 {
			t.Errorf("c%d = %f, want 0", k, c[k])
		}
	}
}

func TestPowerSinePeakBin(t *testing.T) {
	an := New(DefaultConfig(48000))
	// Sine exactly on bin 100: f = 100 * 48000 / 2048
	freq := 100.0 * 48000.0 / 2048.0
	pcm := make([]float32, 2048)
	for i := range pcm {
		pcm[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / 48000.0))
	}

	frames := an.Power(pcm)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	peak := 0
	for k, p := range frames[0] {
		if p > frames[0][peak] {
			peak = k
		}
	}
	if peak != 100 {
		t.Errorf("peak bin = %d, want 100", peak)
	}
}

func TestPowerPadsShortInput(t *testing.T) {
	an := New(DefaultConfig(48000))
	frames := an.Power(make([]float32, 100))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame from short input, got %d", len(frames))
	}
}

func TestPowerFrameCount(t *testing.T) {
	an := New(DefaultConfig(48000))
	n := 2048 + 512*9
	frames := an.Power(make([]float32, n))
	if len(frames) != 10 {
		t.Fatalf("expected 10 frames, got %d", len(frames))
	}
}
