// Package tns implements the temporal-noise-shaping pre-filter: an
// order-4 LPC analysis filter derived from the frame's Bark-band
// energy envelope, applied directly to the MDCT coefficients to
// redistribute quantization noise along time within the frame.
package tns

import "math"

// Order is the fixed TNS filter order this encoder uses: a 4-tap LPC
// analysis filter, a compromise between shaping resolution and the
// 4-bit-per-coefficient side-info cost. The order side-info field can
// represent up to 7 (3 bits), of which only 4 is ever emitted.
const Order = 4

// tonalEnergyThreshold is the minimum per-band energy, above 2kHz,
// required before TNS analysis is attempted at all. Below it the
// frame is judged too quiet/noise-like for a spectral envelope filter
// to help, and TNS is skipped with enable=0 at no further cost.
const tonalEnergyThreshold = 1e-6

// coef04 quantizes reflection coefficients to 4 bits: 16 fixed points
// spanning the unit interval, reused from the same table an AAC-LD
// decoder would use to reconstruct them.
var coef04 = [16]float64{
	0.0, 0.2079116908, 0.4067366431, 0.5877852523,
	0.7431448255, 0.8660254038, 0.9510565163, 0.9945218954,
	-0.9957341763, -0.9618256432, -0.8951632914, -0.7980172273,
	-0.6736956436, -0.5264321629, -0.3612416662, -0.1837495178,
}

// Result carries the side information and pass/fail outcome of one
// frame's TNS analysis.
type Result struct {
	Enabled        bool
	Order          uint8 // 3-bit field
	StartBand      uint8 // 4-bit field
	QuantizedCoefs []uint8
}

// BandEnergy is the minimal per-band shape tns needs from the
// psychoacoustic model's Bark-band table: a bin range and its
// aggregate energy for this frame.
type BandEnergy struct {
	StartBin, EndBin int
	CenterFreq       float64
	Energy           float64
}

// Apply runs the TNS procedure against coeffs (length N/2, mutated
// in place when TNS is enabled) using bands as the Bark-band energy
// envelope. startBandIdx is fixed at 4: the lowest few Bark bands
// carry most of a frame's energy and fitting them into the envelope
// would dominate the LPC solution, so they are excluded from the fit
// and left unfiltered. Returns the side information to
// serialize; Result.Enabled is false (and coeffs untouched) whenever
// the frame is judged unsuitable or the filter is unstable.
func Apply(coeffs []float64, bands []BandEnergy) Result {
	const startBandIdx = 4

	if len(bands) <= startBandIdx {
		return Result{Enabled: false}
	}

	if !hasTonalEnergyAbove2kHz(bands) {
		return Result{Enabled: false}
	}

	envelope := make([]float64, len(bands)-startBandIdx)
	for i, b := range bands[startBandIdx:] {
		envelope[i] = math.Log(math.Sqrt(b.Energy) + 1e-12)
	}

	reflection, _, ok := levinsonDurbin(envelope, Order)
	if !ok {
		return Result{Enabled: false}
	}

	quantized := make([]uint8, Order)
	dequantized := make([]float64, Order)
	for i, k := range reflection {
		quantized[i] = nearestCoef(k)
		dequantized[i] = coef04[quantized[i]]
	}

	// Filter with the LPC coefficients rebuilt from the quantized
	// reflection coefficients, not the original float ones: a decoder
	// only ever has the 4-bit side info to reconstruct the same filter,
	// so the encoder must analyze against that same filter.
	quantLPC := reflectionToLPC(dequantized)

	startBin := bands[startBandIdx].StartBin
	applyAnalysisFilter(coeffs, startBin, quantLPC)

	return Result{
		Enabled:        true,
		Order:          Order,
		StartBand:      startBandIdx,
		QuantizedCoefs: quantized,
	}
}

func hasTonalEnergyAbove2kHz(bands []BandEnergy) bool {
	for _, b := range bands {
		if b.CenterFreq >= 2000 && b.Energy > tonalEnergyThreshold {
			return true
		}
	}
	return false
}

// levinsonDurbin fits an order-p forward LPC model to x via the
// autocorrelation method. A reflection coefficient whose magnitude
// reaches 1 is clamped to ±0.999, which keeps the filter inside the
// unit circle; poles are not reflected. Returns false if the input is
// too short, the autocorrelation is degenerate, a reflection
// coefficient is NaN or Inf, or the prediction error drops to zero.
func levinsonDurbin(x []float64, p int) (reflection []float64, lpc []float64, ok bool) {
	if len(x) <= p {
		return nil, nil, false
	}

	autocorr := make([]float64, p+1)
	for lag := 0; lag <= p; lag++ {
		var sum float64
		for n := lag; n < len(x); n++ {
			sum += x[n] * x[n-lag]
		}
		autocorr[lag] = sum
	}

	if autocorr[0] == 0 {
		return nil, nil, false
	}

	a := make([]float64, p+1)
	a[0] = 1.0
	err := autocorr[0]
	reflection = make([]float64, p)

	for m := 1; m <= p; m++ {
		var acc float64
		for i := 1; i < m; i++ {
			acc += a[i] * autocorr[m-i]
		}
		if err == 0 {
			return nil, nil, false
		}
		k := -(autocorr[m] + acc) / err
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return nil, nil, false
		}
		if k >= 1 || k <= -1 {
			k = math.Copysign(0.999, k)
		}

		newA := make([]float64, p+1)
		newA[m] = k
		for i := 1; i < m; i++ {
			newA[i] = a[i] + k*a[m-i]
		}
		copy(a[1:m], newA[1:m])
		a[m] = newA[m]

		err *= 1 - k*k
		if err <= 0 {
			return nil, nil, false
		}

		reflection[m-1] = k
	}

	return reflection, a, true
}

// reflectionToLPC rebuilds direct-form LPC coefficients from reflection
// coefficients via the Levinson step-up recursion, the same
// construction a decoder runs on the quantized side information.
func reflectionToLPC(reflection []float64) []float64 {
	p := len(reflection)
	a := make([]float64, p+1)
	a[0] = 1.0

	for m := 1; m <= p; m++ {
		k := reflection[m-1]
		newA := make([]float64, p+1)
		newA[m] = k
		for i := 1; i < m; i++ {
			newA[i] = a[i] + k*a[m-i]
		}
		copy(a[1:m], newA[1:m])
		a[m] = newA[m]
	}

	return a
}

func nearestCoef(k float64) uint8 {
	best := 0
	bestDist := math.Abs(k - coef04[0])
	for i := 1; i < len(coef04); i++ {
		d := math.Abs(k - coef04[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return uint8(best)
}

// applyAnalysisFilter overwrites coeffs[startBin:] in place with the
// LPC-whitened spectrum, walking bins in increasing order. Each tap
// reads the unfiltered value at k-i, so the filter is the
// non-recursive (FIR) analysis form.
func applyAnalysisFilter(coeffs []float64, startBin int, lpc []float64) {
	order := len(lpc) - 1
	orig := make([]float64, len(coeffs))
	copy(orig, coeffs)
	for k := startBin; k < len(coeffs); k++ {
		acc := orig[k]
		for i := 1; i <= order; i++ {
			tapIdx := k - i
			if tapIdx < startBin {
				continue
			}
			acc += lpc[i] * orig[tapIdx]
		}
		coeffs[k] = acc
	}
}
