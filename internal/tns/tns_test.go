package tns

import (
	"math"
	"testing"
)

func makeBands(n int, energy func(i int) float64) []BandEnergy {
	bands := make([]BandEnergy, n)
	for i := range bands {
		bands[i] = BandEnergy{
			StartBin:   i * 4,
			EndBin:     i*4 + 4,
			CenterFreq: float64(i) * 500,
			Energy:     energy(i),
		}
	}
	return bands
}

func TestApplySkipsWhenNoTonalEnergyAbove2kHz(t *testing.T) {
	bands := makeBands(10, func(i int) float64 { return 0 })
	coeffs := make([]float64, 40)
	res := Apply(coeffs, bands)
	if res.Enabled {
		t.Error("expected TNS disabled for silent frame")
	}
}

func TestApplySkipsWhenTooFewBands(t *testing.T) {
	bands := makeBands(3, func(i int) float64 { return 1.0 })
	coeffs := make([]float64, 12)
	res := Apply(coeffs, bands)
	if res.Enabled {
		t.Error("expected TNS disabled when fewer bands than start index")
	}
}

func TestApplyProducesSideInfoAndFiniteOutput(t *testing.T) {
	bands := makeBands(20, func(i int) float64 {
		return 1.0 + math.Sin(float64(i)*0.7)*0.5
	})
	coeffs := make([]float64, 80)
	for i := range coeffs {
		coeffs[i] = math.Sin(float64(i) * 0.3)
	}

	res := Apply(coeffs, bands)
	if res.Enabled {
		if res.Order != Order {
			t.Errorf("Order = %d, want %d", res.Order, Order)
		}
		if len(res.QuantizedCoefs) != Order {
			t.Errorf("len(QuantizedCoefs) = %d, want %d", len(res.QuantizedCoefs), Order)
		}
		for _, c := range res.QuantizedCoefs {
			if c > 15 {
				t.Errorf("quantized coefficient %d out of 4-bit range", c)
			}
		}
	}
	for k, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Errorf("coeffs[%d] = %v after Apply, want finite", k, c)
		}
	}
}

func TestLevinsonDurbinRejectsDegenerateInput(t *testing.T) {
	x := make([]float64, 8)
	_, _, ok := levinsonDurbin(x, Order)
	if ok {
		t.Error("expected levinsonDurbin to fail on all-zero input")
	}
}

func TestLevinsonDurbinFitsSimpleAR(t *testing.T) {
	x := make([]float64, 64)
	x[0] = 1
	for n := 1; n < len(x); n++ {
		x[n] = 0.5*x[n-1] + 0.001*float64(n%7)
	}
	reflection, lpc, ok := levinsonDurbin(x, 2)
	if !ok {
		t.Fatal("expected a stable fit for a simple AR(1)-like sequence")
	}
	if len(reflection) != 2 || len(lpc) != 3 {
		t.Fatalf("unexpected output shapes: reflection=%d lpc=%d", len(reflection), len(lpc))
	}
	for _, k := range reflection {
		if k <= -1 || k >= 1 {
			t.Errorf("reflection coefficient %v outside unit circle", k)
		}
	}
}

func TestNearestCoefFindsExactMatches(t *testing.T) {
	for i, v := range coef04 {
		got := nearestCoef(v)
		if got != uint8(i) {
			t.Errorf("nearestCoef(%v) = %d, want %d", v, got, i)
		}
	}
}

func TestReflectionToLPCMatchesStepUpWithinLevinsonDurbin(t *testing.T) {
	x := make([]float64, 64)
	x[0] = 1
	for n := 1; n < len(x); n++ {
		x[n] = 0.5*x[n-1] + 0.001*float64(n%7)
	}
	reflection, lpc, ok := levinsonDurbin(x, Order)
	if !ok {
		t.Fatal("expected a stable fit")
	}

	got := reflectionToLPC(reflection)
	if len(got) != len(lpc) {
		t.Fatalf("len(reflectionToLPC) = %d, want %d", len(got), len(lpc))
	}
	for i := range lpc {
		if math.Abs(got[i]-lpc[i]) > 1e-9 {
			t.Errorf("reflectionToLPC()[%d] = %v, want %v", i, got[i], lpc[i])
		}
	}
}

func TestApplyFiltersWithQuantizedNotFloatReflectionCoefficients(t *testing.T) {
	bands := makeBands(20, func(i int) float64 {
		return 1.0 + math.Sin(float64(i)*0.7)*0.5
	})
	coeffs := make([]float64, 80)
	for i := range coeffs {
		coeffs[i] = math.Sin(float64(i) * 0.3)
	}

	filtered := make([]float64, len(coeffs))
	copy(filtered, coeffs)
	res := Apply(filtered, bands)
	if !res.Enabled {
		t.Fatal("expected TNS to fire for this tonal envelope")
	}

	// Rebuilding the filter straight from the quantized codewords (as
	// a decoder would) must reproduce exactly what Apply wrote, proving
	// the spectrum was filtered with those coefficients and not some
	// other (e.g. unquantized) set.
	dequantized := make([]float64, len(res.QuantizedCoefs))
	for i, c := range res.QuantizedCoefs {
		dequantized[i] = coef04[c]
	}
	reconstructedLPC := reflectionToLPC(dequantized)

	replay := make([]float64, len(coeffs))
	copy(replay, coeffs)
	startBin := bands[res.StartBand].StartBin
	applyAnalysisFilter(replay, startBin, reconstructedLPC)

	for k := range replay {
		if math.Abs(replay[k]-filtered[k]) > 1e-12 {
			t.Errorf("coeffs[%d] = %v, want %v (filter not driven by quantized coefficients)", k, filtered[k], replay[k])
		}
	}
}
