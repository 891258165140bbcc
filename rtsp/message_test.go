package rtsp

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustURL(t *testing.T, rawuri string) *url.URL {
	u, err := url.Parse(rawuri)
	assert.NoError(t, err)
	return u
}

func TestParseMethod(t *testing.T) {
	method, err := ParseMethod("SET_PARAMETER")
	assert.NoError(t, err)
	assert.Equal(t, MethodSetParameter, method)

	_, err = ParseMethod("COOK")
	assert.Equal(t, &MethodUnknownError{Method: "COOK"}, err)
}

func TestParseRequestLine(t *testing.T) {
	method, uri, version, err := parseRequestLine("OPTIONS rtsp://example.com/media.mp4 RTSP/1.0")
	assert.NoError(t, err)
	assert.Equal(t, MethodOptions, method)
	assert.Equal(t, "rtsp://example.com/media.mp4", uri.String())
	assert.Equal(t, Version1, version)
}

func TestParseRequestLineAnyTarget(t *testing.T) {
	_, uri, _, err := parseRequestLine("OPTIONS * RTSP/1.0")
	assert.NoError(t, err)
	assert.Equal(t, "*", uri.String())
}

func TestParseRequestLineRelativeUri(t *testing.T) {
	_, _, _, err := parseRequestLine("DESCRIBE /media.mp4 RTSP/1.0")
	assert.Equal(t, &UriNotAbsoluteError{Uri: "/media.mp4"}, err)
}

func TestParseRequestLineUnknownVersion(t *testing.T) {
	_, _, version, err := parseRequestLine("DESCRIBE rtsp://example.com/media.mp4 RTSP/3.0")
	assert.NoError(t, err)
	assert.Equal(t, VersionUnknown, version)
}

func TestParseRequestLineMissingParts(t *testing.T) {
	_, _, _, err := parseRequestLine("DESCRIBE")
	assert.Equal(t, &UriMissingError{Line: "DESCRIBE"}, err)

	_, _, _, err = parseRequestLine("DESCRIBE rtsp://example.com/media.mp4")
	assert.Equal(t, &VersionMissingError{Line: "DESCRIBE rtsp://example.com/media.mp4"}, err)
}

func TestParseStatusLine(t *testing.T) {
	version, code, reason, err := parseStatusLine("RTSP/1.0 404 Stream Not Found")
	assert.NoError(t, err)
	assert.Equal(t, Version1, version)
	assert.Equal(t, 404, code)
	assert.Equal(t, "Stream Not Found", reason)
	assert.Equal(t, StatusCategoryClientError, CategorizeStatus(code))
}

func TestParseStatusLineMalformed(t *testing.T) {
	_, _, _, err := parseStatusLine("RTSP/1.0")
	assert.Equal(t, &StatusCodeMissingError{Line: "RTSP/1.0"}, err)

	_, _, _, err = parseStatusLine("RTSP/1.0 200")
	assert.Equal(t, &ReasonPhraseMissingError{Line: "RTSP/1.0 200"}, err)

	_, _, _, err = parseStatusLine("HTTP/1.0 200 OK")
	assert.Equal(t, &VersionMalformedError{Line: "HTTP/1.0 200 OK", Version: "HTTP/1.0"}, err)
}

func TestCategorizeStatus(t *testing.T) {
	assert.Equal(t, StatusCategoryInformational, CategorizeStatus(100))
	assert.Equal(t, StatusCategorySuccess, CategorizeStatus(250))
	assert.Equal(t, StatusCategoryRedirection, CategorizeStatus(302))
	assert.Equal(t, StatusCategoryClientError, CategorizeStatus(454))
	assert.Equal(t, StatusCategoryServerError, CategorizeStatus(551))
	assert.Equal(t, StatusCategoryUnknown, CategorizeStatus(600))
	assert.Equal(t, StatusCategoryUnknown, CategorizeStatus(42))
}

func TestSerializeRequest(t *testing.T) {
	request := &Request{
		Method:  MethodOptions,
		URI:     mustURL(t, "rtsp://example.com/media.mp4"),
		Version: Version1,
		Headers: Headers{
			"CSeq":          "1",
			"Proxy-Require": "gzipped-messages",
			"Require":       "implicit-play",
		},
	}

	buf, err := request.Serialize()
	assert.NoError(t, err)
	assert.Equal(t,
		"OPTIONS rtsp://example.com/media.mp4 RTSP/1.0\r\n"+
			"CSeq: 1\r\n"+
			"Proxy-Require: gzipped-messages\r\n"+
			"Require: implicit-play\r\n"+
			"\r\n",
		string(buf))
}

func TestSerializeRequestHeadersAlphabetical(t *testing.T) {
	request := &Request{
		Method:  MethodOptions,
		URI:     mustURL(t, "rtsp://example.com/media.mp4"),
		Version: Version1,
		Headers: Headers{
			"Cc": "value", "C": "value", "Cb": "value",
			"Bbb": "value", "Aaa": "value", "Ca": "value",
		},
	}

	buf, err := request.Serialize()
	assert.NoError(t, err)
	assert.Equal(t,
		"OPTIONS rtsp://example.com/media.mp4 RTSP/1.0\r\n"+
			"Aaa: value\r\n"+
			"Bbb: value\r\n"+
			"C: value\r\n"+
			"Ca: value\r\n"+
			"Cb: value\r\n"+
			"Cc: value\r\n"+
			"\r\n",
		string(buf))
}

func TestSerializeRequestWithBody(t *testing.T) {
	request := &Request{
		Method:  MethodPlay,
		URI:     mustURL(t, "rtsp://example.com/stream/0"),
		Version: Version1,
		Headers: Headers{
			"CSeq":           "1",
			"Content-Length": "16",
			"Session":        "1234abcd",
		},
		Body: []byte("0123456789abcdef"),
	}

	buf, err := request.Serialize()
	assert.NoError(t, err)
	assert.Equal(t,
		"PLAY rtsp://example.com/stream/0 RTSP/1.0\r\n"+
			"CSeq: 1\r\n"+
			"Content-Length: 16\r\n"+
			"Session: 1234abcd\r\n"+
			"\r\n"+
			"0123456789abcdef",
		string(buf))
}

func TestSerializeVersionUnknownFails(t *testing.T) {
	request := &Request{
		Method:  MethodDescribe,
		URI:     mustURL(t, "rtsp://example.com/media.mp4"),
		Version: VersionUnknown,
		Headers: Headers{"CSeq": "2"},
	}
	_, err := request.Serialize()
	assert.Equal(t, ErrVersionUnknown, err)

	response := &Response{Version: VersionUnknown, StatusCode: 200, Reason: "OK"}
	_, err = response.Serialize()
	assert.Equal(t, ErrVersionUnknown, err)
}

func TestSerializeResponse(t *testing.T) {
	response := &Response{
		Version:    Version1,
		StatusCode: StatusOK,
		Reason:     StatusReason(StatusOK),
		Headers: Headers{
			"CSeq":   "1",
			"Public": "DESCRIBE, SETUP, TEARDOWN, PLAY, PAUSE",
		},
	}

	buf, err := response.Serialize()
	assert.NoError(t, err)
	assert.Equal(t,
		"RTSP/1.0 200 OK\r\n"+
			"CSeq: 1\r\n"+
			"Public: DESCRIBE, SETUP, TEARDOWN, PLAY, PAUSE\r\n"+
			"\r\n",
		string(buf))
}

func TestRoundTripRequest(t *testing.T) {
	request := &Request{
		Method:  MethodSetup,
		URI:     mustURL(t, "rtsp://example.com/stream/0"),
		Version: Version2,
		Headers: Headers{
			"CSeq":      "3",
			"Transport": "RTP/AVP/TCP;unicast;interleaved=0-1",
		},
	}

	buf, err := request.Serialize()
	assert.NoError(t, err)

	parser := NewRequestParser()
	status, err := parser.Parse(feed(buf))
	assert.NoError(t, err)
	assert.Equal(t, Done, status)

	parsed, err := parser.Request()
	assert.NoError(t, err)
	assert.Equal(t, request.Method, parsed.Method)
	assert.Equal(t, request.URI.String(), parsed.URI.String())
	assert.Equal(t, request.Version, parsed.Version)
	assert.Equal(t, request.Headers, parsed.Headers)
	assert.Empty(t, parsed.Body)
}
