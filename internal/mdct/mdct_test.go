package mdct

import (
	"math"
	"testing"
)

func TestNewProducesExpectedShapes(t *testing.T) {
	m := New(480)
	if m.N() != 480 {
		t.Errorf("N() = %d, want 480", m.N())
	}
	if len(m.window) != 480+240 {
		t.Errorf("len(window) = %d, want %d", len(m.window), 480+240)
	}
	if len(m.cosTable) != 240 {
		t.Errorf("len(cosTable) = %d, want 240", len(m.cosTable))
	}
	for _, row := range m.cosTable {
		if len(row) != 480+240 {
			t.Fatalf("cosTable row length = %d, want %d", len(row), 480+240)
		}
	}
}

func TestForwardProducesFiniteCoefficients(t *testing.T) {
	const n = 480
	m := New(n)
	input := make([]float64, n)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * float64(i) / 32)
	}
	overlap := make([]float64, n/2)

	coeffs := m.Forward(input, overlap)
	if len(coeffs) != n/2 {
		t.Fatalf("len(coeffs) = %d, want %d", len(coeffs), n/2)
	}
	for k, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Errorf("coeffs[%d] = %v, want finite", k, c)
		}
	}
}

func TestForwardUpdatesOverlapToInputTail(t *testing.T) {
	const n = 240
	m := New(n)
	input := make([]float64, n)
	for i := range input {
		input[i] = float64(i)
	}
	overlap := make([]float64, n/2)

	_ = m.Forward(input, overlap)

	want := input[n/2:]
	for i, v := range overlap {
		if v != want[i] {
			t.Errorf("overlap[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestForwardZeroInputProducesZeroCoefficients(t *testing.T) {
	const n = 480
	m := New(n)
	input := make([]float64, n)
	overlap := make([]float64, n/2)

	coeffs := m.Forward(input, overlap)
	for k, c := range coeffs {
		if c != 0 {
			t.Errorf("coeffs[%d] = %v, want 0 for zero input", k, c)
		}
	}
}

func TestForwardPropagatesNaN(t *testing.T) {
	const n = 240
	m := New(n)
	input := make([]float64, n)
	input[10] = math.NaN()
	overlap := make([]float64, n/2)

	coeffs := m.Forward(input, overlap)
	sawNaN := false
	for _, c := range coeffs {
		if math.IsNaN(c) {
			sawNaN = true
			break
		}
	}
	if !sawNaN {
		t.Error("expected at least one NaN coefficient when input contains NaN")
	}
}
