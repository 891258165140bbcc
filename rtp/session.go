package rtp

import (
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricPacketsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtp_packets_sent",
			Help: "Total number of RTP packets written to the transport.",
		},
		[]string{"ssrc"},
	)
	metricBytesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtp_bytes_sent",
			Help: "Total number of RTP payload bytes written to the transport.",
		},
		[]string{"ssrc"},
	)
	metricPacketsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtp_packets_received",
			Help: "Total number of RTP packets read from the transport.",
		},
		[]string{"ssrc"},
	)
	metricBytesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtp_bytes_received",
			Help: "Total number of RTP payload bytes read from the transport.",
		},
		[]string{"ssrc"},
	)
)

func init() {
	prometheus.MustRegister(metricPacketsSent)
	prometheus.MustRegister(metricBytesSent)
	prometheus.MustRegister(metricPacketsReceived)
	prometheus.MustRegister(metricBytesReceived)
}

// Writer sends serialized RTP packets to an underlying transport, e.g.
// a UDP socket or an interleaved RTSP channel.
type Writer struct {
	out  io.Writer
	ssrc string

	// Number of RTP packets sent.
	count uint64

	// Prevent simultaneous writes from multiple goroutines.
	sync.Mutex
}

func NewWriter(out io.Writer, ssrc uint32) *Writer {
	return &Writer{out: out, ssrc: ssrcLabel(ssrc)}
}

// WritePacket serializes and sends a single RTP packet.
func (w *Writer) WritePacket(p *Packet) error {
	buf, err := p.Serialize()
	if err != nil {
		return err
	}

	w.Lock()
	defer w.Unlock()

	if _, err := w.out.Write(buf); err != nil {
		return err
	}
	w.count++
	metricPacketsSent.With(prometheus.Labels{"ssrc": w.ssrc}).Inc()
	metricBytesSent.With(prometheus.Labels{"ssrc": w.ssrc}).Add(float64(len(p.Payload)))
	return nil
}

// Count returns the number of packets sent so far.
func (w *Writer) Count() uint64 {
	w.Lock()
	defer w.Unlock()
	return w.count
}

// Reader parses incoming RTP datagrams and tracks the sender's extended
// packet index across sequence number rollovers.
type Reader struct {
	ssrc string

	// Most recent observed sequence number.
	lastSequence uint16

	// Estimate of the sender's RTP packet index, based on the most
	// recent observed sequence number and its rollover count.
	lastIndex uint64

	// Handler for parsed packets. This function should return quickly
	// to avoid blocking the read loop; if it keeps the payload beyond
	// the call it must copy.
	Handler func(p *Packet) error
}

func NewReader(ssrc uint32) *Reader {
	return &Reader{ssrc: ssrcLabel(ssrc)}
}

// ReadPacket parses and processes a single serialized RTP packet.
func (r *Reader) ReadPacket(buf []byte) error {
	p, err := Parse(buf)
	if err != nil {
		return err
	}

	r.updateIndex(p.SequenceNumber)
	metricPacketsReceived.With(prometheus.Labels{"ssrc": r.ssrc}).Inc()
	metricBytesReceived.With(prometheus.Labels{"ssrc": r.ssrc}).Add(float64(len(p.Payload)))

	if r.Handler == nil {
		log.Warn("received RTP packet, but no handler registered")
		return nil
	}
	return r.Handler(p)
}

// updateIndex combines the rollover counter and sequence number into a
// single 48-bit index.
// See https://tools.ietf.org/html/rfc3711#section-3.3.1
func (r *Reader) updateIndex(sequence uint16) uint64 {
	if r.lastIndex == 0 {
		r.lastSequence = sequence
		r.lastIndex = uint64(sequence)
		return r.lastIndex
	}

	// If either sequence or lastSequence is close to 2^16, and the
	// other is close to 0, correct for rollover.
	delta := int64(sequence) - int64(r.lastSequence)
	if delta > 32768 {
		delta -= 65536
	} else if delta <= -32768 {
		delta += 65536
	}
	if delta > 4096 {
		log.Debug("large RTP sequence number delta: %d -> %d", r.lastSequence, sequence)
	}

	index := uint64(int64(r.lastIndex) + delta)
	if index > r.lastIndex {
		r.lastIndex = index
		r.lastSequence = sequence
	}
	return index
}

func ssrcLabel(ssrc uint32) string {
	return fmt.Sprintf("%08x", ssrc)
}
