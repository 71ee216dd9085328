package aacld

import (
	"math"

	"github.com/gus-hallaq/aac-ld-encoder/internal/bitstream"
	"github.com/gus-hallaq/aac-ld-encoder/internal/quant"
	"github.com/gus-hallaq/aac-ld-encoder/internal/tns"
)

// globalGainBits, tnsOrderBits and tnsStartBandBits are the fixed
// side-info field widths: an 8-bit global gain, a 3-bit TNS order
// (0-7) and a 4-bit TNS start-band index.
const (
	globalGainBits   = 8
	tnsOrderBits     = 3
	tnsStartBandBits = 4
	tnsCoefBits      = 4
)

// writeChannelPayload serializes one channel's global gain, TNS side
// information, scale-factor differentials and quantized coefficient
// indices. Each field's bit width is the same proxy width the rate
// loop budgeted against (see internal/quant.HuffBits/SfBits), so a
// frame's actual length tracks its estimated cost.
//
// If pad is set, zero-stuffing bits are appended once the channel's
// own fields are written to bring the channel up to budgetBits, the
// same role a real AAC fill element (ID_FIL) plays when a CBR stream
// needs to hit a target frame size regardless of how few bits the
// content itself needed. pad is left false for a silent channel, so
// silence keeps compressing to near nothing instead of being padded
// out to the full budget.
func writeChannelPayload(w *bitstream.Writer, q quant.Result, t tns.Result, budgetBits int, pad bool) error {
	start := w.BitLength()

	if err := w.WriteBits(uint32(q.GlobalGain), globalGainBits); err != nil {
		return err
	}

	if err := writeTNSSideInfo(w, t); err != nil {
		return err
	}

	prev := 0
	for _, sf := range q.ScaleFactors {
		delta := sf - prev
		prev = sf
		width := quant.SfBits(delta)
		if err := w.WriteBits(truncateSigned(delta, width), width); err != nil {
			return err
		}
	}

	for _, idx := range q.Quantized {
		width := quant.HuffBits(idx)
		if width == 0 {
			continue
		}
		if err := w.WriteBits(truncateSigned(idx, width), width); err != nil {
			return err
		}
	}

	if pad {
		used := w.BitLength() - start
		if err := writeFillBits(w, budgetBits-used); err != nil {
			return err
		}
	}

	return nil
}

// writeFillBits appends n zero bits, split across multiple WriteBits
// calls since a single call is capped at bitstream.MaxWriteBits. A
// non-positive n is a no-op, covering the overshoot case where the
// channel already used its whole budget.
func writeFillBits(w *bitstream.Writer, n int) error {
	for n > 0 {
		chunk := n
		if chunk > bitstream.MaxWriteBits {
			chunk = bitstream.MaxWriteBits
		}
		if err := w.WriteBits(0, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func writeTNSSideInfo(w *bitstream.Writer, t tns.Result) error {
	enable := uint32(0)
	if t.Enabled {
		enable = 1
	}
	if err := w.WriteBits(enable, 1); err != nil {
		return err
	}
	if !t.Enabled {
		return nil
	}

	if err := w.WriteBits(uint32(t.Order), tnsOrderBits); err != nil {
		return err
	}
	if err := w.WriteBits(uint32(t.StartBand), tnsStartBandBits); err != nil {
		return err
	}
	for _, c := range t.QuantizedCoefs {
		if err := w.WriteBits(uint32(c), tnsCoefBits); err != nil {
			return err
		}
	}
	return nil
}

// truncateSigned packs v's two's-complement representation into the
// low width bits, for fields whose declared width is always wide
// enough to hold the value exactly (guaranteed by the bucket
// boundaries in internal/quant).
func truncateSigned(v, width int) uint32 {
	mask := uint32(1)<<uint(width) - 1
	return uint32(v) & mask
}

func channelSNR(coeffs []float64, q quant.Result, bands []quant.Band) float64 {
	var signal, noise float64
	for b, band := range bands {
		for k := band.StartBin; k < band.EndBin && k < len(coeffs); k++ {
			x := coeffs[k]
			recon := quant.Dequantize(q.Quantized[k], q.ScaleFactors[b], q.GlobalGain)
			d := x - recon
			signal += x * x
			noise += d * d
		}
	}
	if noise == 0 {
		if signal == 0 {
			return 0
		}
		return 100 // effectively noiseless; report a high but finite SNR
	}
	return 10 * math.Log10(signal/noise)
}
