// Package aacld implements a low-delay, AAC-style perceptual audio
// encoder core: windowed MDCT analysis, a Bark-band psychoacoustic
// masking model, an optional temporal-noise-shaping pre-filter, and a
// rate-distortion quantization loop that packs frames to a target
// bitrate under an ADTS-style header.
//
// # Basic Usage
//
// To encode a stream of interleaved PCM frames:
//
//	cfg, err := aacld.New(48000, 2, 128000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	enc, err := aacld.NewEncoder(*cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for {
//	    frame, err := enc.EncodeFrame(pcm)
//	    if err != nil {
//	        break
//	    }
//	    // Write frame...
//	}
//
// # Thread Safety
//
// Encoder instances are NOT safe for concurrent use. Each goroutine
// should have its own Encoder, or share one through the safe package,
// which wraps the encoding, reset, statistics, configuration and
// timing methods behind a mutex.
//
// # Decoding
//
// This package encodes only; no decoder is provided.
package aacld
