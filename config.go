package aacld

import (
	"github.com/gus-hallaq/aac-ld-encoder/internal/tables"
)

// MinChannels and MaxChannels bound Config.Channels.
const (
	MinChannels = 1
	MaxChannels = 8
)

// MinBitrate and MaxBitrate bound Config.Bitrate, in bits/second.
const (
	MinBitrate = 8000
	MaxBitrate = 320000
)

// minFrameBits is the smallest bits-per-frame budget a Config may
// derive: the 56-bit ADTS header plus one byte of payload, byte
// aligned.
const minFrameBits = 64

// Config holds the validated, immutable parameters of an Encoder.
// Construct with New; Quality, UseTNS and UsePNS may be adjusted
// directly by the caller before the Config is passed to NewEncoder,
// as long as Validate is called again afterward.
type Config struct {
	SampleRate uint32
	Channels   uint8
	Bitrate    uint32

	// Quality controls perceptual slack in [0.0, 1.0]; higher values
	// lower the psychoacoustic noise ceiling (see internal/psycho).
	Quality float32

	// UseTNS enables the temporal-noise-shaping pre-filter.
	UseTNS bool

	// UsePNS is accepted for forward compatibility but has no
	// defined effect: Perceptual Noise Substitution is unspecified
	// upstream and is a behavioral no-op here.
	UsePNS bool

	// FrameSize is N, the number of PCM samples per channel consumed
	// per encoded frame. Derived from SampleRate; read-only.
	FrameSize int

	srIndex uint8
}

// New constructs a Config with the library defaults (Quality 0.75,
// TNS on, PNS off) and validates it.
func New(sampleRate uint32, channels uint8, bitrate uint32) (*Config, error) {
	c := &Config{
		SampleRate: sampleRate,
		Channels:   channels,
		Bitrate:    bitrate,
		Quality:    0.75,
		UseTNS:     true,
		UsePNS:     false,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultConfig returns the library's documented default
// configuration (44100Hz, stereo, 128kbps).
func DefaultConfig() *Config {
	c, err := New(44100, 2, 128000)
	if err != nil {
		panic("aacld: default config failed validation: " + err.Error())
	}
	return c
}

// Validate checks every field against its documented range, resolves
// the sample-rate index and derived frame size, and reports
// InvalidConfigError on the first violation found. It is idempotent:
// calling it repeatedly on an unchanged Config has no additional
// effect.
func (c *Config) Validate() error {
	srIndex, ok := tables.IndexForSampleRate(c.SampleRate)
	if !ok {
		return &InvalidConfigError{Message: "unsupported sample rate (must be one of the 13 documented ADTS rates)"}
	}

	if c.Channels < MinChannels || c.Channels > MaxChannels {
		return &InvalidConfigError{Message: "channel count must be in [1, 8]"}
	}

	if c.Bitrate < MinBitrate || c.Bitrate > MaxBitrate {
		return &InvalidConfigError{Message: "bitrate must be in [8000, 320000] bits/s"}
	}

	if c.Quality < 0.0 || c.Quality > 1.0 {
		return &InvalidConfigError{Message: "quality must be in [0.0, 1.0]"}
	}

	c.srIndex = srIndex
	c.FrameSize = frameSizeForRate(c.SampleRate)

	if c.BitsPerFrame() < minFrameBits {
		return &InvalidConfigError{Message: "bitrate too low for sample rate: frame budget below minimum header size"}
	}

	return nil
}

// frameSizeForRate derives N such that N/sampleRate approximates a
// 10ms frame and N stays even: 240 samples at or below 16kHz, 480
// above 16kHz and below 64kHz (22050/24000/32000/44100/48000), 512 at
// or above 64kHz.
func frameSizeForRate(sampleRate uint32) int {
	switch {
	case sampleRate <= 16000:
		return 240
	case sampleRate < 64000:
		return 480
	default:
		return 512
	}
}

// BitsPerFrame returns B, the bits-per-frame budget: Bitrate * N /
// SampleRate.
func (c *Config) BitsPerFrame() int {
	return int(uint64(c.Bitrate) * uint64(c.FrameSize) / uint64(c.SampleRate))
}

// SampleRateIndex returns the 4-bit ADTS sample-rate index for
// SampleRate. Only meaningful after a successful Validate.
func (c *Config) SampleRateIndex() uint8 {
	return c.srIndex
}
