package aacld

import (
	"time"

	"github.com/google/uuid"

	"github.com/gus-hallaq/aac-ld-encoder/internal/bitstream"
	"github.com/gus-hallaq/aac-ld-encoder/internal/mdct"
	"github.com/gus-hallaq/aac-ld-encoder/internal/psycho"
	"github.com/gus-hallaq/aac-ld-encoder/internal/quant"
	"github.com/gus-hallaq/aac-ld-encoder/internal/tns"
)

// headerBits is the fixed ADTS-style frame header size (56 bits, 7
// bytes), shared by every channel configuration.
const headerBits = bitstream.HeaderBits

// Encoder holds everything needed to turn interleaved PCM frames into
// encoded bytes: one MDCT and overlap buffer per channel, a shared
// psychoacoustic model, and the reused bitstream writer. An Encoder
// is not safe for concurrent use; see the safe package for a
// mutex-guarded wrapper.
type Encoder struct {
	id     uuid.UUID
	config Config

	mdcts          []*mdct.MDCT
	overlap        [][]float64
	prevThresholds [][]float64

	psychoModel *psycho.Model
	quantBands  []quant.Band

	payload *bitstream.Writer

	stats Stats
}

// NewEncoder constructs an Encoder from a validated Config. Returns
// InvalidConfigError if cfg fails validation.
func NewEncoder(cfg Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	half := cfg.FrameSize / 2
	channels := int(cfg.Channels)

	e := &Encoder{
		id:             uuid.New(),
		config:         cfg,
		mdcts:          make([]*mdct.MDCT, channels),
		overlap:        make([][]float64, channels),
		prevThresholds: make([][]float64, channels),
		psychoModel:    psycho.New(cfg.SampleRate, half, cfg.Quality),
		payload:        bitstream.NewWriter(),
	}

	for c := 0; c < channels; c++ {
		e.mdcts[c] = mdct.New(cfg.FrameSize)
		e.overlap[c] = make([]float64, half)
		e.prevThresholds[c] = make([]float64, e.psychoModel.NumBands())
	}

	for _, b := range e.psychoModel.Bands() {
		e.quantBands = append(e.quantBands, quant.Band{StartBin: b.StartBin, EndBin: b.EndBin})
	}

	return e, nil
}

// ID returns a stable identifier for this Encoder instance, useful
// for correlating statistics or log lines across long-lived
// encoders in a multi-stream process.
func (e *Encoder) ID() uuid.UUID { return e.id }

// Config returns the encoder's immutable configuration.
func (e *Encoder) Config() Config { return e.config }

// Stats returns a snapshot of the running statistics.
func (e *Encoder) Stats() Stats { return e.stats }

// ResetStats zeroes the running statistics without touching overlap
// or threshold state.
func (e *Encoder) ResetStats() { e.stats.reset() }

// Reset zeroes the per-channel overlap and previous-threshold state,
// as if the Encoder had just been constructed. Config and statistics
// are preserved; call ResetStats separately to also clear those.
func (e *Encoder) Reset() {
	for c := range e.overlap {
		for i := range e.overlap[c] {
			e.overlap[c][i] = 0
		}
		for i := range e.prevThresholds[c] {
			e.prevThresholds[c][i] = 0
		}
	}
}

// EncodeFrame encodes one frame of interleaved PCM (length
// FrameSize*Channels) and returns the encoded bytes. Fails with
// BufferSizeMismatchError if pcm is the wrong length, or
// BitstreamError if the frame would exceed the 13-bit length field.
func (e *Encoder) EncodeFrame(pcm []float32) ([]byte, error) {
	start := time.Now()

	channels := int(e.config.Channels)
	n := e.config.FrameSize
	expected := n * channels
	if len(pcm) != expected {
		return nil, &BufferSizeMismatchError{Expected: expected, Actual: len(pcm)}
	}

	channelInput := deinterleaveSanitized(pcm, channels, n)

	coeffs := make([][]float64, channels)
	for c := 0; c < channels; c++ {
		coeffs[c] = e.mdcts[c].Forward(channelInput[c], e.overlap[c])
	}

	tnsResults := make([]tns.Result, channels)
	if e.config.UseTNS {
		for c := 0; c < channels; c++ {
			tnsResults[c] = tns.Apply(coeffs[c], e.tnsBandEnergies(coeffs[c]))
		}
	}

	thresholds := make([][]float64, channels)
	energies := make([]float64, channels)
	for c := 0; c < channels; c++ {
		thresholds[c] = e.psychoModel.Compute(coeffs[c], e.prevThresholds[c])
		for _, x := range coeffs[c] {
			energies[c] += x * x
		}
	}

	payloadBudget := e.config.BitsPerFrame() - headerBits
	if payloadBudget < 0 {
		payloadBudget = 0
	}
	channelBudgets := quant.SplitChannelBudgets(payloadBudget, energies)

	quantResults := make([]quant.Result, channels)
	for c := 0; c < channels; c++ {
		quantResults[c] = quant.RateDistortionLoop(coeffs[c], e.quantBands, thresholds[c], channelBudgets[c])
		if quantResults[c].BudgetMiss {
			e.stats.BudgetMisses++
		}
	}

	e.payload.Reset()
	for c := 0; c < channels; c++ {
		if err := writeChannelPayload(e.payload, quantResults[c], tnsResults[c], channelBudgets[c], energies[c] > 0); err != nil {
			return nil, &BitstreamError{Message: err.Error()}
		}
	}
	payloadBytes := e.payload.Finish()

	frameLenBytes := 7 + len(payloadBytes)
	hdr := bitstream.NewWriter()
	if err := bitstream.WriteADTSHeader(hdr, e.config.SampleRateIndex(), e.config.Channels, frameLenBytes); err != nil {
		return nil, &BitstreamError{Message: err.Error()}
	}
	hdrBytes := hdr.Finish()

	frame := make([]byte, 0, len(hdrBytes)+len(payloadBytes))
	frame = append(frame, hdrBytes...)
	frame = append(frame, payloadBytes...)

	snr := averageSNR(coeffs, quantResults, e.quantBands)
	e.stats.record(len(frame)*8, time.Since(start), snr)

	return frame, nil
}

// EncodeBuffer encodes pcm (length k*FrameSize*Channels for some k)
// as k consecutive frames and returns their concatenation, byte-equal
// to calling EncodeFrame k times on the same encoder state. Stops at
// the first failing frame and returns the bytes encoded so far
// alongside the error.
func (e *Encoder) EncodeBuffer(pcm []float32) ([]byte, error) {
	channels := int(e.config.Channels)
	frameSamples := e.config.FrameSize * channels
	if len(pcm)%frameSamples != 0 {
		return nil, &BufferSizeMismatchError{Expected: frameSamples, Actual: len(pcm)}
	}

	var out []byte
	for offset := 0; offset < len(pcm); offset += frameSamples {
		frame, err := e.EncodeFrame(pcm[offset : offset+frameSamples])
		if err != nil {
			return out, err
		}
		out = append(out, frame...)
	}
	return out, nil
}

// FrameDurationMs returns the duration of one frame in milliseconds.
func (e *Encoder) FrameDurationMs() float64 {
	return 1000 * float64(e.config.FrameSize) / float64(e.config.SampleRate)
}

// AlgorithmicDelaySamples returns the MDCT's inherent look-ahead, N/2
// samples, the real-time latency floor of this encoder.
func (e *Encoder) AlgorithmicDelaySamples() int {
	return e.config.FrameSize / 2
}

// AchievedBitrateKbps returns the observed average bitrate across all
// frames encoded since the last stats reset, in kbit/s. Returns 0 if
// no frames have been encoded.
func (e *Encoder) AchievedBitrateKbps() float64 {
	if e.stats.FramesEncoded == 0 {
		return 0
	}
	totalSeconds := float64(e.stats.FramesEncoded) * float64(e.config.FrameSize) / float64(e.config.SampleRate)
	return float64(e.stats.TotalBits) / totalSeconds / 1000
}

// IsRealtimeCapable reports whether this encoder's algorithmic delay
// fits within maxLatencyMs. It does not account for CPU-bound encode
// time, only the transform's inherent look-ahead.
func (e *Encoder) IsRealtimeCapable(maxLatencyMs float64) bool {
	delayMs := 1000 * float64(e.AlgorithmicDelaySamples()) / float64(e.config.SampleRate)
	return delayMs <= maxLatencyMs
}

// EstimatedMemoryKB estimates the encoder's steady-state working-set
// size: overlap buffers, previous-threshold buffers, and a rough
// allowance for per-frame coefficient workspace, in kilobytes. The
// payload writer's buffer is not counted.
func (e *Encoder) EstimatedMemoryKB() float64 {
	channels := len(e.overlap)
	half := e.config.FrameSize / 2
	bands := e.psychoModel.NumBands()

	overlapBytes := channels * half * 8
	thresholdBytes := channels * bands * 8
	workspaceBytes := channels * e.config.FrameSize * 8 * 3 // coeffs + intermediate buffers, rough multiplier

	return float64(overlapBytes+thresholdBytes+workspaceBytes) / 1024
}

// RecommendedBufferSize returns the PCM sample count EncodeFrame
// expects: FrameSize*Channels.
func (e *Encoder) RecommendedBufferSize() int {
	return e.config.FrameSize * int(e.config.Channels)
}

func deinterleaveSanitized(pcm []float32, channels, n int) [][]float64 {
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for c := 0; c < channels; c++ {
			v := pcm[i*channels+c]
			if isNaNOrInf(v) {
				v = 0
			}
			out[c][i] = float64(v)
		}
	}
	return out
}

func isNaNOrInf(v float32) bool {
	return v != v || v > maxFinite32 || v < -maxFinite32
}

const maxFinite32 = 3.4028235e38

func (e *Encoder) tnsBandEnergies(coeffs []float64) []tns.BandEnergy {
	bands := e.psychoModel.Bands()
	out := make([]tns.BandEnergy, len(bands))
	for i, b := range bands {
		var energy float64
		for k := b.StartBin; k < b.EndBin && k < len(coeffs); k++ {
			energy += coeffs[k] * coeffs[k]
		}
		out[i] = tns.BandEnergy{StartBin: b.StartBin, EndBin: b.EndBin, CenterFreq: b.CenterFreq, Energy: energy}
	}
	return out
}

func averageSNR(coeffs [][]float64, quantResults []quant.Result, bands []quant.Band) float64 {
	var total float64
	for c := range coeffs {
		total += channelSNR(coeffs[c], quantResults[c], bands)
	}
	if len(coeffs) == 0 {
		return 0
	}
	return total / float64(len(coeffs))
}
