// Package psycho implements the per-band psychoacoustic masking model:
// Bark-band aggregation, basilar-membrane spreading, tonality-weighted
// signal-to-mask offsets, and temporal smoothing against an absolute
// threshold of hearing floor.
package psycho

import "math"

// Band describes one Bark-scale critical band: the half-open bin
// range it covers and its center frequency in Hz.
type Band struct {
	StartBin   int
	EndBin     int
	CenterFreq float64
}

// Model owns the Bark-band table, spreading matrix and ATH floor for a
// fixed sample rate and spectrum size; it is built once at encoder
// construction and shared read-only across channels of the same rate.
// Only the previous-frame threshold buffer, used for temporal
// smoothing, is per-channel mutable state.
type Model struct {
	bands   []Band
	spread  [][]float64 // spread[masker][affected], linear power ratio
	ath     []float64   // per band, linear amplitude floor
	quality float32
}

// New builds the Bark-band table, spreading matrix and ATH floor for
// sampleRate and a spectrum of halfN bins (N/2, the MDCT coefficient
// count). quality is the Config.Quality slack factor.
func New(sampleRate uint32, halfN int, quality float32) *Model {
	bands := buildBarkBands(sampleRate, halfN)
	return &Model{
		bands:   bands,
		spread:  buildSpreadingMatrix(bands),
		ath:     buildATH(bands),
		quality: quality,
	}
}

// NumBands returns B, the number of Bark bands in the table.
func (m *Model) NumBands() int { return len(m.bands) }

// barkOf converts a frequency in Hz to the Bark scale using the
// standard inverse of the 600·sinh(bark/7) band-edge formula.
func barkOf(freqHz float64) float64 {
	return 7.0 * math.Asinh(freqHz/600.0)
}

func buildBarkBands(sampleRate uint32, halfN int) []Band {
	nyquist := float64(sampleRate) / 2.0
	binFreq := nyquist / float64(halfN)

	var bands []Band
	for i := 0; i < 24; i++ {
		freq := 600.0 * math.Sinh(float64(i)/7.0)
		if freq > nyquist {
			break
		}

		startBin := int(math.Round(freq / binFreq))

		var nextFreq float64
		if i < 23 {
			nextFreq = 600.0 * math.Sinh(float64(i+1)/7.0)
		} else {
			nextFreq = nyquist
		}
		endBin := int(math.Round(nextFreq / binFreq))
		if endBin > halfN {
			endBin = halfN
		}

		if startBin < endBin {
			upper := math.Min(nextFreq, nyquist)
			center := 600.0 * math.Sinh((barkOf(freq)+barkOf(upper))/2/7.0)
			bands = append(bands, Band{StartBin: startBin, EndBin: endBin, CenterFreq: center})
		}
	}

	if len(bands) > 0 {
		bands[len(bands)-1].EndBin = halfN
	}

	return bands
}

// buildSpreadingMatrix precomputes spread[i][j], the linear power
// fraction of masker band i's energy that reaches band j: -27dB/Bark
// for bands below the masker, -10dB/Bark for bands above it.
func buildSpreadingMatrix(bands []Band) [][]float64 {
	barks := make([]float64, len(bands))
	for i, b := range bands {
		barks[i] = barkOf(b.CenterFreq)
	}

	spread := make([][]float64, len(bands))
	for i := range bands {
		row := make([]float64, len(bands))
		for j := range bands {
			diff := barks[j] - barks[i]
			var spreadDB float64
			if diff >= 0 {
				spreadDB = -10.0 * diff
			} else {
				spreadDB = 27.0 * diff
			}
			row[j] = math.Pow(10, spreadDB/10)
		}
		spread[i] = row
	}
	return spread
}

// buildATH precomputes the absolute threshold of hearing, in linear
// amplitude, at each band's center frequency.
func buildATH(bands []Band) []float64 {
	ath := make([]float64, len(bands))
	for i, b := range bands {
		kHz := b.CenterFreq / 1000.0
		dB := 3.64*math.Pow(kHz, -0.8) -
			6.5*math.Exp(-0.6*(kHz-3.3)*(kHz-3.3)) +
			0.001*kHz*kHz*kHz*kHz
		ath[i] = math.Pow(10, dB/20) * 1e-3
	}
	return ath
}

// Compute derives per-band masking thresholds from MDCT coefficients,
// following the documented procedure exactly: band-energy
// aggregation, spreading, tonality-weighted signal-to-mask offset,
// ATH floor, and temporal smoothing against prevThresholds. The
// caller owns prevThresholds (length NumBands, zero-initialized on
// the first frame so smoothing has no effect yet); Compute overwrites
// it in place with this frame's thresholds for reuse on the next
// call.
func (m *Model) Compute(coeffs []float64, prevThresholds []float64) []float64 {
	b := len(m.bands)

	energy := make([]float64, b)
	tonality := make([]float64, b)
	for i, band := range m.bands {
		var e, logSum, linSum float64
		count := 0
		for k := band.StartBin; k < band.EndBin && k < len(coeffs); k++ {
			mag := math.Abs(coeffs[k])
			e += mag * mag
			linSum += mag
			logSum += math.Log(mag + 1e-12)
			count++
		}
		energy[i] = e
		if count > 0 {
			geomean := math.Exp(logSum / float64(count))
			mean := linSum / float64(count)
			sfm := geomean / (mean + 1e-12)
			alpha := -0.299*math.Log10(sfm+1e-12) - 0.43
			tonality[i] = math.Max(0, math.Min(1, alpha))
		}
	}

	thresholds := make([]float64, b)
	for i := range m.bands {
		var spreadEnergy float64
		for j := range m.bands {
			spreadEnergy += m.spread[j][i] * energy[j]
		}

		offset := tonality[i]*(14.5+float64(i)) + (1-tonality[i])*5.5
		t0 := spreadEnergy * math.Pow(10, -offset/10)

		t := math.Max(m.ath[i], math.Max(t0, 0.3*prevThresholds[i]))
		t *= float64(1.5 - m.quality)
		thresholds[i] = t
	}

	copy(prevThresholds, thresholds)

	return thresholds
}

// Bands exposes the Bark-band table for callers (the quantizer) that
// need the same bin ranges the psychoacoustic model used.
func (m *Model) Bands() []Band { return m.bands }
