package rtsp

import (
	"bytes"
	"fmt"
)

// Wire serialization. Lines end with CRLF; headers are written in
// ascending byte order of their names so output is deterministic.

func serializeVersion(buf *bytes.Buffer, v Version) error {
	switch v {
	case Version1:
		buf.WriteString("RTSP/1.0")
	case Version2:
		buf.WriteString("RTSP/2.0")
	default:
		return ErrVersionUnknown
	}
	return nil
}

func serializeHeadersAndBody(buf *bytes.Buffer, headers Headers, body []byte) {
	for _, name := range headers.sortedNames() {
		fmt.Fprintf(buf, "%s: %s\r\n", name, headers[name])
	}
	buf.WriteString("\r\n")
	buf.Write(body)
}

// Serialize emits the request in wire form.
func (r *Request) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(string(r.Method))
	buf.WriteByte(' ')
	buf.WriteString(r.URI.String())
	buf.WriteByte(' ')
	if err := serializeVersion(&buf, r.Version); err != nil {
		return nil, err
	}
	buf.WriteString("\r\n")
	serializeHeadersAndBody(&buf, r.Headers, r.Body)
	return buf.Bytes(), nil
}

// Serialize emits the response in wire form.
func (r *Response) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := serializeVersion(&buf, r.Version); err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, " %d %s\r\n", r.StatusCode, r.Reason)
	serializeHeadersAndBody(&buf, r.Headers, r.Body)
	return buf.Bytes(), nil
}
