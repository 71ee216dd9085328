// Package testsignal generates synthetic PCM test inputs: pure tones,
// multi-tone mixes, and white noise.
package testsignal

import (
	"math"
	"math/rand"
)

// Sine generates a single-tone signal at frequencyHz, amplitude peak,
// sampled at sampleRate for the given number of samples.
func Sine(frequencyHz, amplitude float64, sampleRate uint32, samples int) []float32 {
	out := make([]float32, samples)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = float32(amplitude * math.Sin(2*math.Pi*frequencyHz*t))
	}
	return out
}

// MultiTone sums sine waves at the given frequencies and amplitudes,
// which must be the same length.
func MultiTone(frequenciesHz, amplitudes []float64, sampleRate uint32, samples int) []float32 {
	out := make([]float32, samples)
	for f := range frequenciesHz {
		freq, amp := frequenciesHz[f], amplitudes[f]
		for i := range out {
			t := float64(i) / float64(sampleRate)
			out[i] += float32(amp * math.Sin(2*math.Pi*freq*t))
		}
	}
	return out
}

// WhiteNoise generates amplitude-scaled white noise using a
// deterministic seed, so test runs using it are reproducible.
func WhiteNoise(amplitude float64, samples int, seed int64) []float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float32, samples)
	for i := range out {
		out[i] = float32(amplitude * (2*rng.Float64() - 1))
	}
	return out
}

// Interleave combines per-channel planar buffers (all the same
// length) into one interleaved buffer, the shape Encoder.EncodeFrame
// expects.
func Interleave(planar ...[]float32) []float32 {
	if len(planar) == 0 {
		return nil
	}
	n := len(planar[0])
	out := make([]float32, n*len(planar))
	for i := 0; i < n; i++ {
		for c, ch := range planar {
			out[i*len(planar)+c] = ch[i]
		}
	}
	return out
}
