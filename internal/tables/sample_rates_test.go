package tables

import "testing"

func TestSampleRateForIndex(t *testing.T) {
	tests := []struct {
		index    uint8
		expected uint32
		ok       bool
	}{
		{0, 96000, true},
		{1, 88200, true},
		{2, 64000, true},
		{3, 48000, true},
		{4, 44100, true},
		{5, 32000, true},
		{6, 24000, true},
		{7, 22050, true},
		{8, 16000, true},
		{9, 12000, true},
		{10, 11025, true},
		{11, 8000, true},
		{12, 7350, true},
		{13, 0, false}, // reserved
		{14, 0, false}, // reserved
		{15, 0, false}, // escape
	}

	for _, tt := range tests {
		got, ok := SampleRateForIndex(tt.index)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("SampleRateForIndex(%d) = (%d, %v), want (%d, %v)", tt.index, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestIndexForSampleRate(t *testing.T) {
	tests := []struct {
		sampleRate uint32
		expected   uint8
		ok         bool
	}{
		{96000, 0, true},
		{48000, 3, true},
		{44100, 4, true},
		{7350, 12, true},
		{8000, 11, true},
		{22000, 0, false}, // not one of the 13 documented rates
		{192000, 0, false},
	}

	for _, tt := range tests {
		got, ok := IndexForSampleRate(tt.sampleRate)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("IndexForSampleRate(%d) = (%d, %v), want (%d, %v)", tt.sampleRate, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestSampleRateTableShape(t *testing.T) {
	if len(SampleRateTable) != 16 {
		t.Fatalf("SampleRateTable has %d entries, want 16", len(SampleRateTable))
	}
	for i := uint8(NumValidSampleRates); i < 16; i++ {
		if SampleRateTable[i] != 0 {
			t.Errorf("SampleRateTable[%d] = %d, want 0 (reserved/escape)", i, SampleRateTable[i])
		}
	}
}
