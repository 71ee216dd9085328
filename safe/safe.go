// Package safe provides a mutex-guarded wrapper around aacld.Encoder
// for callers that share one encoder across goroutines.
package safe

import (
	"sync"

	"github.com/gus-hallaq/aac-ld-encoder"
)

// Encoder mirrors the encoding, reset, statistics, configuration and
// timing methods of aacld.Encoder behind a single mutex; ID,
// EstimatedMemoryKB and RecommendedBufferSize are not wrapped. The
// underlying Encoder is never exposed directly, so callers cannot
// bypass the lock.
type Encoder struct {
	mu  sync.Mutex
	enc *aacld.Encoder
}

// New constructs a thread-safe Encoder from a validated Config.
func New(cfg aacld.Config) (*Encoder, error) {
	enc, err := aacld.NewEncoder(cfg)
	if err != nil {
		return nil, err
	}
	return &Encoder{enc: enc}, nil
}

// EncodeFrame encodes one frame under the lock.
func (e *Encoder) EncodeFrame(pcm []float32) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.EncodeFrame(pcm)
}

// EncodeBuffer encodes a multi-frame buffer under the lock.
func (e *Encoder) EncodeBuffer(pcm []float32) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.EncodeBuffer(pcm)
}

// Stats returns a snapshot of the running statistics under the lock.
func (e *Encoder) Stats() aacld.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Stats()
}

// Config returns the encoder's configuration under the lock.
func (e *Encoder) Config() aacld.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Config()
}

// ResetStats clears the running statistics under the lock.
func (e *Encoder) ResetStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enc.ResetStats()
}

// Reset clears overlap and threshold state under the lock.
func (e *Encoder) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enc.Reset()
}

// AlgorithmicDelaySamples returns the encoder's inherent look-ahead
// under the lock.
func (e *Encoder) AlgorithmicDelaySamples() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.AlgorithmicDelaySamples()
}

// FrameDurationMs returns the per-frame duration under the lock.
func (e *Encoder) FrameDurationMs() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.FrameDurationMs()
}

// AchievedBitrateKbps returns the observed average bitrate under the
// lock.
func (e *Encoder) AchievedBitrateKbps() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.AchievedBitrateKbps()
}

// IsRealtimeCapable reports real-time capability under the lock.
func (e *Encoder) IsRealtimeCapable(maxLatencyMs float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.IsRealtimeCapable(maxLatencyMs)
}
