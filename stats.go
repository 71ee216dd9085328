package aacld

import "time"

// Stats accumulates running encoder statistics across encode_frame
// calls. A zero Stats is valid and represents an encoder that has
// not yet encoded anything.
type Stats struct {
	FramesEncoded   uint64
	TotalBits       uint64
	TotalEncodeTime time.Duration
	BudgetMisses    uint64

	snrSum float64
}

// AvgSNR returns the running average signal-to-noise ratio across all
// frames encoded since the last reset, in dB. Returns 0 if no frames
// have been encoded.
func (s Stats) AvgSNR() float64 {
	if s.FramesEncoded == 0 {
		return 0
	}
	return s.snrSum / float64(s.FramesEncoded)
}

func (s *Stats) record(frameBits int, elapsed time.Duration, snr float64) {
	s.FramesEncoded++
	s.TotalBits += uint64(frameBits)
	s.TotalEncodeTime += elapsed
	s.snrSum += snr
}

func (s *Stats) reset() {
	*s = Stats{}
}
