package testsignal

import (
	"math"
	"testing"
)

func TestSineStaysWithinAmplitude(t *testing.T) {
	out := Sine(1000, 0.2, 48000, 480)
	for i, v := range out {
		if math.Abs(float64(v)) > 0.2+1e-6 {
			t.Errorf("Sine()[%d] = %v, exceeds amplitude 0.2", i, v)
		}
	}
}

func TestMultiToneRejectsNothingForEqualLengths(t *testing.T) {
	out := MultiTone([]float64{440, 880}, []float64{0.1, 0.05}, 48000, 240)
	if len(out) != 240 {
		t.Fatalf("len(out) = %d, want 240", len(out))
	}
}

func TestWhiteNoiseDeterministicForSameSeed(t *testing.T) {
	a := WhiteNoise(0.5, 100, 42)
	b := WhiteNoise(0.5, 100, 42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("WhiteNoise not deterministic at index %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestInterleaveOrdersByChannel(t *testing.T) {
	left := []float32{1, 2, 3}
	right := []float32{10, 20, 30}
	got := Interleave(left, right)
	want := []float32{1, 10, 2, 20, 3, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Interleave()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
