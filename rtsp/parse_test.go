package rtsp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kailani/avtransport/internal/packet"
)

func feed(buf []byte) *packet.Buffer {
	b := packet.NewBuffer()
	b.Feed(buf)
	return b
}

const examplePipelinedSdp = "v=0\n" +
	"o=mhandley 2890844526 2890845468 IN IP4 126.16.64.4\n" +
	"s=SDP Seminar\n" +
	"i=A Seminar on the session description protocol\n" +
	"u=http://www.cs.ucl.ac.uk/staff/M.Handley/sdp.03.ps\n" +
	"e=mjh@isi.edu (Mark Handley)\n" +
	"c=IN IP4 224.2.17.12/127\n" +
	"t=2873397496 2873404696\n" +
	"a=recvonly\n" +
	"m=audio 3456 RTP/AVP 0\n" +
	"m=video 2232 RTP/AVP 31"

var examplePipelinedRequests = []byte("" +
	"RECORD rtsp://example.com/media.mp4 RTSP/1.0\r\n" +
	"CSeq: 6\r\n" +
	"Session: 12345678\r\n" +
	"\r\n" +
	"ANNOUNCE rtsp://example.com/media.mp4 RTSP/1.0\r\n" +
	"CSeq: 7\r\n" +
	"Date: 23 Jan 1997 15:35:06 GMT\r\n" +
	"Session: 12345678\r\n" +
	"Content-Type: application/sdp\r\n" +
	"Content-Length: 305\r\n" +
	"\r\n" +
	examplePipelinedSdp +
	"TEARDOWN rtsp://example.com/media.mp4 RTSP/1.0\r\n" +
	"CSeq: 8\r\n" +
	"Session: 12345678\r\n" +
	"\r\n")

func checkPipelinedRequests(t *testing.T, requests []*Request) {
	assert.Len(t, requests, 3)

	assert.Equal(t, MethodRecord, requests[0].Method)
	assert.Equal(t, "rtsp://example.com/media.mp4", requests[0].URI.String())
	assert.Equal(t, Version1, requests[0].Version)
	assert.Equal(t, "6", requests[0].Headers["CSeq"])
	assert.Equal(t, "12345678", requests[0].Headers["Session"])
	assert.Empty(t, requests[0].Body)

	assert.Equal(t, MethodAnnounce, requests[1].Method)
	assert.Equal(t, "7", requests[1].Headers["CSeq"])
	assert.Equal(t, "12345678", requests[1].Headers["Session"])
	assert.Equal(t, "23 Jan 1997 15:35:06 GMT", requests[1].Headers["Date"])
	assert.Equal(t, "application/sdp", requests[1].Headers["Content-Type"])
	assert.Equal(t, "305", requests[1].Headers["Content-Length"])
	assert.Len(t, requests[1].Body, 305)

	assert.Equal(t, MethodTeardown, requests[2].Method)
	assert.Equal(t, "8", requests[2].Headers["CSeq"])
	assert.Equal(t, "12345678", requests[2].Headers["Session"])
	assert.Empty(t, requests[2].Body)
}

func TestParsePipelinedRequestsWhole(t *testing.T) {
	// The SDP length must match the advertised Content-Length for the
	// vector to be meaningful.
	assert.Len(t, []byte(examplePipelinedSdp), 305)

	buf := feed(examplePipelinedRequests)
	var requests []*Request
	for len(requests) < 3 {
		parser := NewRequestParser()
		status, err := parser.Parse(buf)
		assert.NoError(t, err)
		assert.Equal(t, Done, status)
		request, err := parser.Request()
		assert.NoError(t, err)
		requests = append(requests, request)
	}
	checkPipelinedRequests(t, requests)
	assert.Equal(t, 0, buf.Remaining())
}

func TestParsePipelinedRequestsByteByByte(t *testing.T) {
	buf := packet.NewBuffer()
	parser := NewRequestParser()

	var requests []*Request
	for i := range examplePipelinedRequests {
		buf.Feed(examplePipelinedRequests[i : i+1])
		status, err := parser.Parse(buf)
		assert.NoError(t, err)
		if status == Done {
			request, err := parser.Request()
			assert.NoError(t, err)
			requests = append(requests, request)
			parser = NewRequestParser()
		}
	}
	checkPipelinedRequests(t, requests)
}

func TestParsePipelinedRequestsVaryingChunks(t *testing.T) {
	buf := packet.NewBuffer()
	parser := NewRequestParser()

	var requests []*Request
	start, size := 0, 1
	for start < len(examplePipelinedRequests) {
		end := start + size
		if end > len(examplePipelinedRequests) {
			end = len(examplePipelinedRequests)
		}
		buf.Feed(examplePipelinedRequests[start:end])

		// One chunk may complete more than one message.
		for {
			status, err := parser.Parse(buf)
			assert.NoError(t, err)
			if status != Done {
				break
			}
			request, err := parser.Request()
			assert.NoError(t, err)
			requests = append(requests, request)
			parser = NewRequestParser()
		}

		start += size
		size = (size * 2) % 9
		if size == 0 {
			size = 1
		}
	}
	checkPipelinedRequests(t, requests)
}

const examplePlayRequest = "PLAY rtsp://example.com/stream/0 RTSP/1.0\r\n" +
	"CSeq: 1\r\n" +
	"Session: 1234abcd\r\n" +
	"Content-Length: 16\r\n" +
	"\r\n" +
	"0123456789abcdef"

func checkPlayRequest(t *testing.T, request *Request) {
	assert.Equal(t, MethodPlay, request.Method)
	assert.Equal(t, "rtsp://example.com/stream/0", request.URI.String())
	assert.Equal(t, Version1, request.Version)
	assert.Equal(t, "1", request.Headers["CSeq"])
	assert.Equal(t, "1234abcd", request.Headers["Session"])
	assert.Equal(t, []byte("0123456789abcdef"), request.Body)
}

// Line terminator variants: the parser accepts CRLF, bare LF and bare
// CR on receive.
func playRequestVariants() map[string][]byte {
	crlf := []byte(examplePlayRequest)
	lf := bytes.ReplaceAll(crlf, []byte("\r\n"), []byte("\n"))
	cr := bytes.ReplaceAll(crlf, []byte("\r\n"), []byte("\r"))
	return map[string][]byte{"crlf": crlf, "lf": lf, "cr": cr}
}

func TestParsePlayRequestTerminators(t *testing.T) {
	for name, wire := range playRequestVariants() {
		parser := NewRequestParser()
		status, err := parser.Parse(feed(wire))
		assert.NoError(t, err, name)
		assert.Equal(t, Done, status, name)

		request, err := parser.Request()
		assert.NoError(t, err, name)
		checkPlayRequest(t, request)
	}
}

func TestParsePlayRequestChunked(t *testing.T) {
	for name, wire := range playRequestVariants() {
		for _, chunkSize := range []int{1, 2, 3, 7} {
			buf := packet.NewBuffer()
			parser := NewRequestParser()

			status := Hungry
			for start := 0; start < len(wire) && status != Done; start += chunkSize {
				end := start + chunkSize
				if end > len(wire) {
					end = len(wire)
				}
				buf.Feed(wire[start:end])
				var err error
				status, err = parser.Parse(buf)
				assert.NoError(t, err, name)
			}
			assert.Equal(t, Done, status, name)

			request, err := parser.Request()
			assert.NoError(t, err, name)
			checkPlayRequest(t, request)
		}
	}
}

func TestParseResponse(t *testing.T) {
	wire := []byte("RTSP/1.0 200 OK\r\n" +
		"CSeq: 1\r\n" +
		"Public: DESCRIBE, SETUP, TEARDOWN, PLAY, PAUSE\r\n" +
		"\r\n")

	parser := NewResponseParser()
	status, err := parser.Parse(feed(wire))
	assert.NoError(t, err)
	assert.Equal(t, Done, status)

	response, err := parser.Response()
	assert.NoError(t, err)
	assert.Equal(t, Version1, response.Version)
	assert.Equal(t, 200, response.StatusCode)
	assert.Equal(t, "OK", response.Reason)
	assert.Equal(t, StatusCategorySuccess, response.Status())
	assert.Equal(t, "DESCRIBE, SETUP, TEARDOWN, PLAY, PAUSE", response.Headers["Public"])
}

func TestParseAfterDoneFails(t *testing.T) {
	wire := []byte("OPTIONS rtsp://example.com/media.mp4 RTSP/1.0\r\nCSeq: 1\r\n\r\n")

	buf := feed(wire)
	parser := NewRequestParser()
	status, err := parser.Parse(buf)
	assert.NoError(t, err)
	assert.Equal(t, Done, status)

	_, err = parser.Parse(buf)
	assert.Equal(t, ErrBodyAlreadyDone, err)
}

func TestMessageBeforeDoneFails(t *testing.T) {
	parser := NewRequestParser()
	_, err := parser.Request()
	assert.Equal(t, ErrNotDone, err)
}

func TestParseContentLengthNotInteger(t *testing.T) {
	wire := []byte("PLAY rtsp://example.com/stream/0 RTSP/1.0\r\n" +
		"Content-Length: sixteen\r\n" +
		"\r\n")

	parser := NewRequestParser()
	_, err := parser.Parse(feed(wire))
	assert.Equal(t, &ContentLengthNotIntegerError{Value: "sixteen"}, err)
}

func TestParseHeaderMalformed(t *testing.T) {
	wire := []byte("OPTIONS rtsp://example.com/media.mp4 RTSP/1.0\r\n" +
		"NoColonHere\r\n" +
		"\r\n")

	parser := NewRequestParser()
	_, err := parser.Parse(feed(wire))
	assert.Equal(t, &HeaderMalformedError{Line: "NoColonHere"}, err)
}

func TestParseScenarioOptions(t *testing.T) {
	parser := NewRequestParser()
	status, err := parser.Parse(feed([]byte("OPTIONS rtsp://example.com/media.mp4 RTSP/1.0\r\nCSeq: 1\r\n\r\n")))
	assert.NoError(t, err)
	assert.Equal(t, Done, status)

	request, err := parser.Request()
	assert.NoError(t, err)
	assert.Equal(t, MethodOptions, request.Method)
	assert.Equal(t, "rtsp://example.com/media.mp4", request.URI.String())
	assert.Equal(t, Version1, request.Version)
	assert.Equal(t, Headers{"CSeq": "1"}, request.Headers)
	assert.Empty(t, request.Body)
}

func TestParseConsumesExactlyOneMessage(t *testing.T) {
	two := strings.Repeat("OPTIONS rtsp://example.com/media.mp4 RTSP/1.0\r\nCSeq: 1\r\n\r\n", 2)

	buf := feed([]byte(two))
	parser := NewRequestParser()
	status, err := parser.Parse(buf)
	assert.NoError(t, err)
	assert.Equal(t, Done, status)
	assert.Equal(t, len(two)/2, buf.Remaining())
}
