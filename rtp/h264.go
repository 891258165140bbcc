package rtp

import (
	"math/rand"

	"github.com/kailani/avtransport/internal/packet"
)

// RTP packetization of H.264 video streams.
// See [RFC 6184](https://tools.ietf.org/html/rfc6184).

const (
	// NAL unit types. See https://tools.ietf.org/html/rfc6184#section-5.2
	naluTypeSTAP_A = 24
	naluTypeSTAP_B = 25
	naluTypeMTAP16 = 26
	naluTypeMTAP24 = 27
	naluTypeFU_A   = 28
	naluTypeFU_B   = 29
)

// PacketizationMode selects how NAL units map onto RTP packets.
type PacketizationMode int

const (
	// PacketizationModeSingleNalUnit carries one NAL unit per packet.
	PacketizationModeSingleNalUnit PacketizationMode = 0
	// PacketizationModeNonInterleaved aggregates with STAP-A and
	// fragments with FU-A.
	PacketizationModeNonInterleaved PacketizationMode = 1
	// PacketizationModeInterleaved (STAP-B/MTAP/FU-B) is not supported.
	PacketizationModeInterleaved PacketizationMode = 2
)

// ParsePacketizationMode converts the numeric packetization-mode value
// from an SDP fmtp attribute.
func ParsePacketizationMode(mode int) (PacketizationMode, error) {
	switch mode {
	case 0, 1, 2:
		return PacketizationMode(mode), nil
	default:
		return 0, &H264PacketizationModeUnknownError{Mode: mode}
	}
}

// PacketizationParameters configure a packetizer. MTU zero means no
// size bound.
type PacketizationParameters struct {
	PayloadType byte
	SSRC        uint32
	CSRC        []uint32
	MTU         int
}

// H264Packetizer turns the NAL units of one access unit into RTP
// packets. Sequence numbers start at a random value and increment by
// one per produced packet, wrapping on overflow.
type H264Packetizer struct {
	mode      PacketizationMode
	params    PacketizationParameters
	sequence  uint16
	headerLen int
}

func NewH264Packetizer(mode PacketizationMode, params PacketizationParameters) (*H264Packetizer, error) {
	if mode == PacketizationModeInterleaved {
		return nil, &H264PacketizationModeUnsupportedError{Mode: mode}
	}

	template := Packet{Version: Version2, PayloadType: params.PayloadType, SSRC: params.SSRC, CSRC: params.CSRC}
	return &H264Packetizer{
		mode:      mode,
		params:    params,
		sequence:  uint16(rand.Uint32()),
		headerLen: template.HeaderLength(),
	}, nil
}

// Packetize converts the ordered NAL units of a single access unit into
// RTP packets. The marker bit is set on exactly the last packet
// produced for the access unit.
func (p *H264Packetizer) Packetize(nalus [][]byte, timestamp uint32) ([]*Packet, error) {
	var packets []*Packet
	var err error
	switch p.mode {
	case PacketizationModeSingleNalUnit:
		packets, err = p.packetizeSingle(nalus, timestamp)
	case PacketizationModeNonInterleaved:
		packets, err = p.packetizeNonInterleaved(nalus, timestamp)
	}
	if err != nil {
		return nil, err
	}
	if len(packets) > 0 {
		packets[len(packets)-1].Marker = true
	}
	return packets, nil
}

func (p *H264Packetizer) nextPacket(payload []byte, timestamp uint32) *Packet {
	pkt := &Packet{
		Version:        Version2,
		PayloadType:    p.params.PayloadType,
		SequenceNumber: p.sequence,
		Timestamp:      timestamp,
		SSRC:           p.params.SSRC,
		CSRC:           p.params.CSRC,
		Payload:        payload,
	}
	p.sequence++
	return pkt
}

// Single NAL unit mode: each NAL unit becomes exactly one packet.
// See https://tools.ietf.org/html/rfc6184#section-6.2
func (p *H264Packetizer) packetizeSingle(nalus [][]byte, timestamp uint32) ([]*Packet, error) {
	var packets []*Packet
	for _, nalu := range nalus {
		if p.params.MTU > 0 && p.headerLen+len(nalu) > p.params.MTU {
			return nil, &PacketSizeExceedsMtuError{Size: p.headerLen + len(nalu), Mtu: p.params.MTU}
		}
		packets = append(packets, p.nextPacket(nalu, timestamp))
	}
	return packets, nil
}

// Non-interleaved mode: group NAL units greedily into STAP-A buckets. A
// bucket of one becomes a plain single-NAL packet; a NAL unit that fits
// no packet at all is spread over FU-A fragments.
// See https://tools.ietf.org/html/rfc6184#section-5.4
func (p *H264Packetizer) packetizeNonInterleaved(nalus [][]byte, timestamp uint32) ([]*Packet, error) {
	var packets []*Packet
	var bucket [][]byte
	bucketSize := p.headerLen + 1 // includes the STAP-A header byte

	flush := func() {
		switch len(bucket) {
		case 0:
		case 1:
			packets = append(packets, p.nextPacket(bucket[0], timestamp))
		default:
			var stap []byte
			for _, nalu := range bucket {
				stap = appendSTAP(stap, nalu)
			}
			packets = append(packets, p.nextPacket(stap, timestamp))
		}
		bucket = nil
		bucketSize = p.headerLen + 1
	}

	for _, nalu := range nalus {
		if len(nalu) <= 0xffff && (p.params.MTU == 0 || bucketSize+2+len(nalu) <= p.params.MTU) {
			bucket = append(bucket, nalu)
			bucketSize += 2 + len(nalu)
			continue
		}

		flush()

		// Retry against an empty bucket before giving up on aggregation.
		if len(nalu) <= 0xffff && (p.params.MTU == 0 || bucketSize+2+len(nalu) <= p.params.MTU) {
			bucket = append(bucket, nalu)
			bucketSize += 2 + len(nalu)
			continue
		}

		if p.params.MTU == 0 || p.headerLen+len(nalu) <= p.params.MTU {
			packets = append(packets, p.nextPacket(nalu, timestamp))
			continue
		}

		// An MTU below the FU-A overhead leaves no room for payload.
		if p.params.MTU-p.headerLen-2 < 1 {
			return nil, &PacketSizeExceedsMtuError{Size: p.headerLen + len(nalu), Mtu: p.params.MTU}
		}
		packets = append(packets, p.fragment(nalu, timestamp)...)
	}
	flush()

	return packets, nil
}

// Fragment one NAL unit into FU-A packets of payload size
// MTU - header - 2 each.
// See https://tools.ietf.org/html/rfc6184#section-5.8
func (p *H264Packetizer) fragment(nalu []byte, timestamp uint32) []*Packet {
	maxSize := p.params.MTU - p.headerLen - 2

	indicator := nalu[0]&0xe0 | naluTypeFU_A
	naluType := nalu[0] & 0x1f
	start := byte(0x80)
	end := byte(0)

	var packets []*Packet
	for i := 1; i < len(nalu); i += maxSize {
		tail := i + maxSize
		if tail >= len(nalu) {
			tail = len(nalu)
			end = 0x40
		}

		w := packet.NewWriterSize(2 + tail - i)
		w.WriteByte(indicator)              // FU indicator
		w.WriteByte(start | end | naluType) // FU header
		w.WriteSlice(nalu[i:tail])
		packets = append(packets, p.nextPacket(w.Bytes(), timestamp))

		start = 0
	}
	return packets
}

// appendSTAP appends one NAL unit to an accumulating STAP-A payload.
// See https://tools.ietf.org/html/rfc6184#section-5.7.1
func appendSTAP(stap, nalu []byte) []byte {
	if len(stap) == 0 {
		// Initialize NALU of type STAP-A, with F and NRI set to 0.
		stap = append(stap, naluTypeSTAP_A)
	}

	n := len(nalu)
	stap = append(stap, byte(n>>8), byte(n))
	stap = append(stap, nalu...)

	// STAP-A forbidden bit is bitwise-OR of all forbidden bits.
	stap[0] |= nalu[0] & 0x80

	// STAP-A NRI value is maximum of all NRI values.
	nri := nalu[0] & 0x60
	if nri > stap[0]&0x60 {
		stap[0] = (stap[0] &^ 0x60) | nri
	}

	return stap
}

// splitSTAP splits a STAP-A payload into individual NAL units.
func splitSTAP(buf []byte) ([][]byte, error) {
	var nalus [][]byte
	r := packet.NewReader(buf)
	r.Skip(1)
	for r.Remaining() > 0 {
		if r.Remaining() < 2 {
			return nil, &H264AggregationUnitHeaderInvalidError{Have: r.Remaining()}
		}
		n := int(r.ReadUint16())
		if r.Remaining() < n {
			return nil, &H264AggregationUnitDataTooSmallError{Have: r.Remaining(), Need: n}
		}
		nalus = append(nalus, copyBytes(r.ReadSlice(n)))
	}
	return nalus, nil
}

func copyBytes(buf []byte) []byte {
	return append([]byte(nil), buf...)
}

// H264Depacketizer reassembles NAL units from incoming RTP packets. It
// keeps the in-progress FU-A fragment across calls, so one instance
// must see the packets of a stream in order.
type H264Depacketizer struct {
	// Buffer for assembling FU-A fragments into a complete NALU. Nil
	// when no fragment is in progress.
	frag []byte
}

func NewH264Depacketizer() *H264Depacketizer {
	return &H264Depacketizer{}
}

// Depacketize extracts zero or more NAL units from one RTP packet.
func (d *H264Depacketizer) Depacketize(p *Packet) ([][]byte, error) {
	payload := p.Payload
	if len(payload) < 2 {
		return nil, &H264NalUnitLengthTooSmallError{Length: len(payload)}
	}

	naluType := payload[0] & 0x1f
	switch {
	case naluType >= 1 && naluType <= 23:
		// Payload is a single NALU.
		return [][]byte{copyBytes(payload)}, nil

	case naluType == naluTypeSTAP_A:
		return splitSTAP(payload)

	case naluType == naluTypeSTAP_B, naluType == naluTypeMTAP16,
		naluType == naluTypeMTAP24, naluType == naluTypeFU_B:
		return nil, &H264DepacketizationNalTypeUnsupportedError{Type: naluType}

	case naluType == naluTypeFU_A:
		return d.defragment(payload)

	case naluType == 30 || naluType == 31:
		// Reserved types must be ignored per RFC 6184 Section 5.4.
		log.Debug("discarding reserved NAL unit type %d", naluType)
		return nil, nil

	default:
		return nil, &H264DepacketizationNalTypeUnknownError{Type: naluType}
	}
}

// defragment runs the FU-A reassembly state machine for one packet.
// See https://tools.ietf.org/html/rfc6184#section-5.8
func (d *H264Depacketizer) defragment(payload []byte) ([][]byte, error) {
	indicator := payload[0]
	header := payload[1]
	start := header&0x80 != 0
	end := header&0x40 != 0

	// The original NAL header byte: F and NRI from the indicator, type
	// from the FU header.
	first := indicator&0xe0 | header&0x1f

	switch {
	case start && end:
		nalu := append([]byte{first}, payload[2:]...)
		return [][]byte{nalu}, nil

	case start:
		if d.frag != nil {
			return nil, ErrH264FragmentedStateAlreadyStarted
		}
		d.frag = append([]byte{first}, payload[2:]...)
		return nil, nil

	default:
		if d.frag == nil {
			return nil, ErrH264FragmentedStateNeverStarted
		}
		d.frag = append(d.frag, payload[2:]...)
		if !end {
			return nil, nil
		}
		nalu := d.frag
		d.frag = nil
		return [][]byte{nalu}, nil
	}
}
