package transport

import (
	"testing"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"
)

func TestEncodeRandomInitialState(t *testing.T) {
	e := &Encoder{PayloadType: 97}
	err := e.Init()
	require.NoError(t, err)
	require.NotNil(t, e.SSRC)
	require.NotNil(t, e.InitialSequenceNumber)
	require.Equal(t, defaultPayloadMaxSize, e.PayloadMaxSize)
}

func TestEncodeSmallFrameProducesSinglePacket(t *testing.T) {
	e := &Encoder{PayloadType: 97}
	require.NoError(t, e.Init())

	frame := []byte{1, 2, 3, 4}
	pkts, err := e.Encode(frame, 1000)
	require.NoError(t, err)
	require.Len(t, pkts, 1)
	require.True(t, pkts[0].Marker)
	require.Equal(t, uint32(1000), pkts[0].Timestamp)
	require.Equal(t, append([]byte{0}, frame...), pkts[0].Payload)
}

func TestEncodeLargeFrameFragments(t *testing.T) {
	e := &Encoder{PayloadType: 97, PayloadMaxSize: 10}
	require.NoError(t, e.Init())

	frame := make([]byte, 25)
	for i := range frame {
		frame[i] = byte(i)
	}

	pkts, err := e.Encode(frame, 0)
	require.NoError(t, err)
	require.Len(t, pkts, 3)

	for i, pkt := range pkts {
		last := i == len(pkts)-1
		require.Equal(t, last, pkt.Marker)
	}

	seq := pkts[0].SequenceNumber
	for i, pkt := range pkts {
		require.Equal(t, seq+uint16(i), pkt.SequenceNumber)
	}
}

func TestEncodeRejectsEmptyFrame(t *testing.T) {
	e := &Encoder{PayloadType: 97}
	require.NoError(t, e.Init())

	_, err := e.Encode(nil, 0)
	require.Error(t, err)
}

func TestDecoderReassemblesFragmentedFrame(t *testing.T) {
	e := &Encoder{PayloadType: 97, PayloadMaxSize: 10}
	require.NoError(t, e.Init())

	frame := make([]byte, 25)
	for i := range frame {
		frame[i] = byte(i)
	}

	pkts, err := e.Encode(frame, 0)
	require.NoError(t, err)

	var d Decoder
	var got []byte
	for _, pkt := range pkts {
		got, err = d.Push(pkt)
		require.NoError(t, err)
	}
	require.Equal(t, frame, got)
}

func TestDecoderPassesThroughSinglePacketFrame(t *testing.T) {
	e := &Encoder{PayloadType: 97}
	require.NoError(t, e.Init())

	frame := []byte{9, 8, 7}
	pkts, err := e.Encode(frame, 0)
	require.NoError(t, err)
	require.Len(t, pkts, 1)

	var d Decoder
	got, err := d.Push(pkts[0])
	require.NoError(t, err)
	require.Equal(t, frame, got)
}

func TestDecoderReturnsNilUntilMarker(t *testing.T) {
	var d Decoder
	pkt := &rtp.Packet{Payload: []byte{fragMore, 1, 2, 3}}
	got, err := d.Push(pkt)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDecoderRejectsEmptyPayload(t *testing.T) {
	var d Decoder
	_, err := d.Push(&rtp.Packet{Payload: nil})
	require.Error(t, err)
}
