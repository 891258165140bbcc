package rtp

import (
	"github.com/kailani/avtransport/internal/packet"
)

// RTP Data Transfer Protocol, as defined in RFC 3550 Section 5.
//
// A packet consists of a fixed 12-byte header, zero or more 32-bit CSRC
// identifiers, an optional header extension, the payload, and optional
// tail padding.
// See https://tools.ietf.org/html/rfc3550#section-5.1
//    0                   1                   2                   3
//    0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//   |V=2|P|X|  CC   |M|     PT      |       sequence number         |
//   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//   |                           timestamp                           |
//   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//   |           synchronization source (SSRC) identifier            |
//   +=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+
//   |            contributing source (CSRC) identifiers             |
//   |                             ....                              |
//   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+

const headerSize = 12

// Version of the RTP protocol. RFC 3550 defines version 2; version 1 is
// accepted on parse for compatibility with ancient senders.
type Version byte

const (
	Version1 Version = 1
	Version2 Version = 2
)

// Extension is the optional RTP header extension: a 16-bit profile
// identifier followed by a sequence of 32-bit words.
type Extension struct {
	ProfileIdentifier uint16
	Data              []uint32
}

// Packet is one parsed RTP datagram. All fields are value semantics;
// Payload aliases the parse input.
type Packet struct {
	Version        Version
	Padding        bool
	Marker         bool
	PayloadType    byte
	SequenceNumber uint16
	Timestamp      uint32
	SSRC           uint32
	CSRC           []uint32
	Extension      *Extension
	Payload        []byte
}

// HeaderLength returns the serialized header size in bytes.
func (p *Packet) HeaderLength() int {
	n := headerSize + 4*len(p.CSRC)
	if p.Extension != nil {
		n += 4 + 4*len(p.Extension.Data)
	}
	return n
}

// SerializedLength returns the total wire size, excluding padding.
func (p *Packet) SerializedLength() int {
	return p.HeaderLength() + len(p.Payload)
}

// Parse reads one RTP packet from buf. The returned packet's Payload
// aliases buf.
func Parse(buf []byte) (*Packet, error) {
	r := packet.NewReader(buf)

	if r.Remaining() < headerSize {
		return nil, &NotEnoughDataError{Have: r.Remaining(), Need: headerSize}
	}

	p := new(Packet)
	version, padding, extension, csrcCount := splitByte2114(r.ReadByte())
	switch version {
	case 1:
		p.Version = Version1
	case 2:
		p.Version = Version2
	default:
		return nil, &VersionUnknownError{Version: int(version)}
	}
	p.Padding = padding

	if need := headerSize + 4*int(csrcCount); len(buf) < need {
		return nil, &NotEnoughDataError{Have: len(buf), Need: need}
	}

	p.Marker, p.PayloadType = splitByte17(r.ReadByte())
	p.SequenceNumber = r.ReadUint16()
	p.Timestamp = r.ReadUint32()
	p.SSRC = r.ReadUint32()
	for i := 0; i < int(csrcCount); i++ {
		p.CSRC = append(p.CSRC, r.ReadUint32())
	}

	if extension {
		if r.Remaining() < 4 {
			return nil, &NotEnoughDataError{Have: r.Remaining(), Need: 4}
		}
		ext := &Extension{ProfileIdentifier: r.ReadUint16()}
		words := int(r.ReadUint16())
		if need := words * 4; r.Remaining() < need {
			return nil, &NotEnoughDataError{Have: r.Remaining(), Need: need}
		}
		for i := 0; i < words; i++ {
			ext.Data = append(ext.Data, r.ReadUint32())
		}
		p.Extension = ext
	}

	paddingLen := 0
	if p.Padding {
		if r.Remaining() == 0 {
			return nil, &NotEnoughDataError{Have: 0, Need: 1}
		}
		// The final byte carries the pad length, itself included.
		paddingLen = int(buf[len(buf)-1])
		if r.Remaining() < paddingLen {
			return nil, &NotEnoughDataError{Have: r.Remaining(), Need: paddingLen}
		}
	}
	p.Payload = r.ReadSlice(r.Remaining() - paddingLen)

	return p, nil
}

func (p *Packet) writeHeader(w *packet.Writer) error {
	if len(p.CSRC) > 15 {
		return &CsrcCountInvalidError{Count: len(p.CSRC)}
	}
	w.WriteByte(joinByte2114(byte(p.Version), p.Padding, p.Extension != nil, byte(len(p.CSRC))))
	w.WriteByte(joinByte17(p.Marker, p.PayloadType))
	w.WriteUint16(p.SequenceNumber)
	w.WriteUint32(p.Timestamp)
	w.WriteUint32(p.SSRC)
	for i := range p.CSRC {
		w.WriteUint32(p.CSRC[i])
	}
	if p.Extension != nil {
		if len(p.Extension.Data) > 0xffff {
			return &ExtensionLengthInvalidError{Length: len(p.Extension.Data)}
		}
		w.WriteUint16(p.Extension.ProfileIdentifier)
		w.WriteUint16(uint16(len(p.Extension.Data)))
		for i := range p.Extension.Data {
			w.WriteUint32(p.Extension.Data[i])
		}
	}
	return nil
}

// Serialize emits the packet without padding. The Padding flag must be
// false; use SerializePadded to emit a padded packet.
func (p *Packet) Serialize() ([]byte, error) {
	w := packet.NewWriterSize(p.SerializedLength())
	if err := p.writeHeader(w); err != nil {
		return nil, err
	}
	if err := w.WriteSlice(p.Payload); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// SerializePadded emits the packet padded with zeros up to the next
// multiple of divisor. The final byte carries the pad count, itself
// included. The packet's Padding flag is set on the emitted header.
func (p *Packet) SerializePadded(divisor int) ([]byte, error) {
	if divisor <= 0 || divisor > 255 {
		return nil, &PaddingLengthInvalidError{Divisor: divisor, Length: p.SerializedLength()}
	}

	length := p.SerializedLength()
	paddingLen := divisor - length%divisor

	padded := *p
	padded.Padding = true

	w := packet.NewWriterSize(length + paddingLen)
	if err := padded.writeHeader(w); err != nil {
		return nil, err
	}
	if err := w.WriteSlice(p.Payload); err != nil {
		return nil, err
	}
	w.ZeroPad(paddingLen - 1)
	w.WriteByte(byte(paddingLen))
	return w.Bytes(), nil
}
