// Package mdct implements the windowed forward Modified Discrete Cosine
// Transform used as the encoder's time-to-frequency analysis stage.
package mdct

import "math"

// MDCT holds the precomputed, read-only cosine table and analysis window
// for a fixed transform size N. A value is safe to share (read-only)
// across channels; each channel supplies its own overlap state.
//
// The analysis block is the concatenation of the N/2-sample overlap
// carry-in and the N-sample new input, a span of 3N/2 samples; the
// window and cosine table are sized to that span. Both are evaluated
// with denominators of 2N, matching the documented closed form, which
// describes the window and transform kernel rather than the length of
// any one buffer.
type MDCT struct {
	n        int
	blockLen int         // N/2 overlap + N input = 3N/2
	window   []float64   // length blockLen
	cosTable [][]float64 // [k][n], k in [0, N/2), n in [0, blockLen)
}

// New builds the cosine table and low-delay sine window for transform
// size n. n must be even; callers derive it from Config.FrameSize.
func New(n int) *MDCT {
	half := n / 2
	blockLen := n + half

	window := make([]float64, blockLen)
	for i := 0; i < blockLen; i++ {
		window[i] = math.Sin(math.Pi * (float64(i) + 0.5) / float64(2*n))
	}

	cosTable := make([][]float64, half)
	for k := 0; k < half; k++ {
		row := make([]float64, blockLen)
		for i := 0; i < blockLen; i++ {
			row[i] = math.Cos(math.Pi / float64(n) * (float64(i) + 0.5 + float64(half)) * (float64(k) + 0.5))
		}
		cosTable[k] = row
	}

	return &MDCT{n: n, blockLen: blockLen, window: window, cosTable: cosTable}
}

// N returns the transform size this MDCT was constructed for.
func (m *MDCT) N() int { return m.n }

// Forward transforms channelInput (length N) into N/2 spectral
// coefficients, using and then updating overlapState (length N/2) as
// the carried-over analysis tail from the previous frame.
//
// NaN or Inf in channelInput propagate to non-finite values (NaN, or
// ±Inf for an Inf input) across the output bins rather than being
// clamped here; sanitizing belongs to
// the caller (see the encoder's NaN handling).
func (m *MDCT) Forward(channelInput, overlapState []float64) []float64 {
	half := m.n / 2

	x := make([]float64, m.blockLen)
	copy(x, overlapState)
	copy(x[half:], channelInput)

	wx := make([]float64, m.blockLen)
	for i := 0; i < m.blockLen; i++ {
		wx[i] = x[i] * m.window[i]
	}

	coeffs := make([]float64, half)
	for k := 0; k < half; k++ {
		row := m.cosTable[k]
		var sum float64
		for i := 0; i < m.blockLen; i++ {
			sum += wx[i] * row[i]
		}
		coeffs[k] = sum
	}

	copy(overlapState, channelInput[len(channelInput)-half:])

	return coeffs
}
