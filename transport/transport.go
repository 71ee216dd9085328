// Package transport packetizes encoded AAC-LD frames into RTP packets
// for streaming, independent of however the frames reach it (file,
// socket, live encoder).
package transport

import (
	"crypto/rand"
	"fmt"

	"github.com/pion/rtp"
)

const (
	rtpVersion = 2

	// defaultPayloadMaxSize leaves room for IP/UDP/RTP headers under a
	// standard 1500-byte MTU.
	defaultPayloadMaxSize = 1460
)

func randUint32() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// Encoder packetizes AAC-LD frames into RTP packets. Every payload
// starts with a one-byte fragmentation header carrying a continuation
// flag. A frame that fits within PayloadMaxSize together with that
// header becomes a single packet; a larger frame is split across
// consecutive packets so a receiver can reassemble it.
type Encoder struct {
	// PayloadType of the packets this Encoder produces.
	PayloadType uint8

	// SSRC of packets (optional). Defaults to a random value.
	SSRC *uint32

	// InitialSequenceNumber of packets (optional). Defaults to a
	// random value.
	InitialSequenceNumber *uint16

	// PayloadMaxSize caps the RTP payload size (optional). Defaults to
	// 1460.
	PayloadMaxSize int

	sequenceNumber uint16
}

// fragHeader bits: bit 0 set means "more fragments of this frame
// follow"; the rest of the byte is reserved.
const fragMore = 0x01

// Init prepares the Encoder for use, filling in any unset optional
// fields.
func (e *Encoder) Init() error {
	if e.SSRC == nil {
		v, err := randUint32()
		if err != nil {
			return fmt.Errorf("transport: generate SSRC: %w", err)
		}
		e.SSRC = &v
	}
	if e.InitialSequenceNumber == nil {
		v, err := randUint32()
		if err != nil {
			return fmt.Errorf("transport: generate sequence number: %w", err)
		}
		v2 := uint16(v)
		e.InitialSequenceNumber = &v2
	}
	if e.PayloadMaxSize == 0 {
		e.PayloadMaxSize = defaultPayloadMaxSize
	}

	e.sequenceNumber = *e.InitialSequenceNumber
	return nil
}

// Encode packetizes one encoded AAC-LD frame, stamped with timestamp
// (the RTP clock-rate sample count at which the frame starts). The
// marker bit is set on the final packet of the frame, per convention
// for audio payloads carrying one complete access unit per marker.
func (e *Encoder) Encode(frame []byte, timestamp uint32) ([]*rtp.Packet, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("transport: cannot encode empty frame")
	}

	if 1+len(frame) <= e.PayloadMaxSize {
		return e.writeSingle(frame, timestamp)
	}
	return e.writeFragmented(frame, timestamp)
}

func (e *Encoder) writeSingle(frame []byte, timestamp uint32) ([]*rtp.Packet, error) {
	data := make([]byte, 1+len(frame))
	copy(data[1:], frame)

	pkt := &rtp.Packet{
		Header: rtp.Header{
			Version:        rtpVersion,
			PayloadType:    e.PayloadType,
			SequenceNumber: e.sequenceNumber,
			Timestamp:      timestamp,
			SSRC:           *e.SSRC,
			Marker:         true,
		},
		Payload: data,
	}
	e.sequenceNumber++
	return []*rtp.Packet{pkt}, nil
}

func (e *Encoder) writeFragmented(frame []byte, timestamp uint32) ([]*rtp.Packet, error) {
	avail := e.PayloadMaxSize - 1 // one-byte fragmentation header per packet
	if avail <= 0 {
		return nil, fmt.Errorf("transport: PayloadMaxSize %d too small to fragment", e.PayloadMaxSize)
	}

	count := len(frame) / avail
	if len(frame)%avail != 0 {
		count++
	}

	pkts := make([]*rtp.Packet, count)
	for i := range pkts {
		start := i * avail
		end := start + avail
		if end > len(frame) {
			end = len(frame)
		}
		last := i == count-1

		data := make([]byte, 1+(end-start))
		if !last {
			data[0] = fragMore
		}
		copy(data[1:], frame[start:end])

		pkts[i] = &rtp.Packet{
			Header: rtp.Header{
				Version:        rtpVersion,
				PayloadType:    e.PayloadType,
				SequenceNumber: e.sequenceNumber,
				Timestamp:      timestamp,
				SSRC:           *e.SSRC,
				Marker:         last,
			},
			Payload: data,
		}
		e.sequenceNumber++
	}
	return pkts, nil
}

// Decoder reassembles AAC-LD frames fragmented by Encoder. It is
// stateless across complete frames: Push returns a non-nil frame as
// soon as a marker packet completes one, and resets internally to
// accept the next.
type Decoder struct {
	buf []byte
}

// Push feeds one RTP packet's payload into the reassembly buffer. It
// returns the completed frame once a marker packet arrives, or nil if
// more fragments are still expected.
func (d *Decoder) Push(pkt *rtp.Packet) ([]byte, error) {
	if len(pkt.Payload) < 1 {
		return nil, fmt.Errorf("transport: RTP payload missing fragmentation header byte")
	}

	d.buf = append(d.buf, pkt.Payload[1:]...)

	if !pkt.Marker {
		return nil, nil
	}

	frame := d.buf
	d.buf = nil
	return frame, nil
}
