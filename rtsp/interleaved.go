package rtsp

import (
	"bytes"

	"github.com/kailani/avtransport/internal/packet"
)

// Interleaved binary data framing, RFC 2326 Section 10.12. RTP/RTCP
// packets share the RTSP TCP connection, prefixed with '$', a channel
// identifier and a 16-bit length.

// interleavedMagic marks the start of an interleaved frame.
const interleavedMagic = 0x24 // '$'

// Frame is one interleaved binary frame.
type Frame struct {
	Channel byte
	Payload []byte
}

// Serialize emits the 4-byte interleaved header followed by the
// payload.
func (f *Frame) Serialize() ([]byte, error) {
	if len(f.Payload) > 0xffff {
		return nil, ErrInterleavedPayloadTooLarge
	}
	var buf bytes.Buffer
	buf.Grow(4 + len(f.Payload))
	buf.WriteByte(interleavedMagic)
	buf.WriteByte(f.Channel)
	buf.WriteByte(byte(len(f.Payload) >> 8))
	buf.WriteByte(byte(len(f.Payload)))
	buf.Write(f.Payload)
	return buf.Bytes(), nil
}

// interleavedParser accumulates one interleaved frame.
type interleavedParser struct {
	haveHeader bool
	channel    byte
	size       int
}

// parse returns the completed frame, or nil while more input is
// required.
func (p *interleavedParser) parse(buf *packet.Buffer) (*Frame, error) {
	if !p.haveHeader {
		if buf.Remaining() < 4 {
			return nil, nil
		}
		header := buf.ReadBytes(4)
		if header[0] != interleavedMagic {
			return nil, ErrInterleavedInvalid
		}
		p.channel = header[1]
		p.size = int(header[2])<<8 | int(header[3])
		p.haveHeader = true
	}

	if buf.Remaining() < p.size {
		return nil, nil
	}
	return &Frame{Channel: p.channel, Payload: buf.ReadBytes(p.size)}, nil
}

type demuxState int

const (
	demuxInit demuxState = iota
	demuxMessage
	demuxInterleaved
)

// Demuxer separates the client's inbound byte stream into textual
// response messages and interleaved binary frames. It peeks the first
// byte of each item to pick a branch, runs the chosen sub-parser until
// one item is produced, then resets.
type Demuxer struct {
	state       demuxState
	parser      *ResponseParser
	interleaved interleavedParser
}

func NewDemuxer() *Demuxer {
	return &Demuxer{}
}

// Demux consumes bytes from buf and returns the next complete item.
// Exactly one of the results is non-nil when an item is available; both
// are nil while more input is required.
func (d *Demuxer) Demux(buf *packet.Buffer) (*Response, *Frame, error) {
	if d.state == demuxInit {
		next, ok := buf.PeekByte()
		if !ok {
			return nil, nil, nil
		}
		if next == interleavedMagic {
			d.state = demuxInterleaved
			d.interleaved = interleavedParser{}
		} else {
			d.state = demuxMessage
			d.parser = NewResponseParser()
		}
	}

	switch d.state {
	case demuxMessage:
		status, err := d.parser.Parse(buf)
		if err != nil {
			return nil, nil, err
		}
		if status != Done {
			return nil, nil, nil
		}
		response, err := d.parser.Response()
		if err != nil {
			return nil, nil, err
		}
		d.state = demuxInit
		d.parser = nil
		return response, nil, nil

	default:
		frame, err := d.interleaved.parse(buf)
		if err != nil || frame == nil {
			return nil, nil, err
		}
		d.state = demuxInit
		return nil, frame, nil
	}
}
