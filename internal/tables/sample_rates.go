// Package tables holds small lookup tables shared by the encoder's
// configuration and bitstream layers.
package tables

// SampleRateTable maps a 4-bit ADTS sample-rate index to its sample
// rate in Hz. Indices 13 and 14 are reserved, index 15 is the
// "escape" marker (an explicit sample rate carried elsewhere in the
// stream); the core never emits either.
var SampleRateTable = [16]uint32{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050,
	16000, 12000, 11025, 8000, 7350, 0, 0, 0,
}

// NumValidSampleRates is the number of real (non-reserved, non-escape)
// entries in SampleRateTable.
const NumValidSampleRates = 13

// SampleRateForIndex returns the sample rate for srIndex, and false if
// srIndex names a reserved or escape slot.
func SampleRateForIndex(srIndex uint8) (uint32, bool) {
	if srIndex >= NumValidSampleRates {
		return 0, false
	}
	return SampleRateTable[srIndex], true
}

// IndexForSampleRate returns the ADTS sample-rate index for an exact
// match against one of the 13 documented rates, and false otherwise.
func IndexForSampleRate(sampleRate uint32) (uint8, bool) {
	for i := uint8(0); i < NumValidSampleRates; i++ {
		if SampleRateTable[i] == sampleRate {
			return i, true
		}
	}
	return 0, false
}
