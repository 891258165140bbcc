package rtsp

import (
	"errors"
	"fmt"
	"strings"
)

// Errors carry the offending wire text so callers can log precisely
// what a misbehaving peer sent. They are returned, never panicked.

// ErrEncoding is returned when a head line is not valid UTF-8.
var ErrEncoding = errors.New("rtsp: encoding incorrect")

type RequestLineMalformedError struct {
	Line string
}

func (e *RequestLineMalformedError) Error() string {
	return fmt.Sprintf("request line malformed: %s", e.Line)
}

type VersionMissingError struct {
	Line string
}

func (e *VersionMissingError) Error() string {
	return fmt.Sprintf("version missing in request line: %s", e.Line)
}

type StatusCodeMissingError struct {
	Line string
}

func (e *StatusCodeMissingError) Error() string {
	return fmt.Sprintf("status code missing in response line: %s", e.Line)
}

type MethodUnknownError struct {
	Method string
}

func (e *MethodUnknownError) Error() string {
	return fmt.Sprintf("method unknown: %s", e.Method)
}

type UriMissingError struct {
	Line string
}

func (e *UriMissingError) Error() string {
	return fmt.Sprintf("uri missing in request line: %s", e.Line)
}

type UriMalformedError struct {
	Line string
	Uri  string
}

func (e *UriMalformedError) Error() string {
	return fmt.Sprintf("uri malformed: %s (in line: %s)", e.Uri, e.Line)
}

type UriNotAbsoluteError struct {
	Uri string
}

func (e *UriNotAbsoluteError) Error() string {
	return fmt.Sprintf("uri must be absolute, but it is relative: %s", e.Uri)
}

type ReasonPhraseMissingError struct {
	Line string
}

func (e *ReasonPhraseMissingError) Error() string {
	return fmt.Sprintf("reason phrase missing in response line: %s", e.Line)
}

type VersionMalformedError struct {
	Line    string
	Version string
}

func (e *VersionMalformedError) Error() string {
	return fmt.Sprintf("version malformed: %s (in line: %s)", e.Version, e.Line)
}

type StatusCodeNotIntegerError struct {
	Line       string
	StatusCode string
}

func (e *StatusCodeNotIntegerError) Error() string {
	return fmt.Sprintf("response has invalid status code: %s (in response line: %s)", e.StatusCode, e.Line)
}

type HeaderMalformedError struct {
	Line string
}

func (e *HeaderMalformedError) Error() string {
	return fmt.Sprintf("header line malformed: %s", e.Line)
}

type ContentLengthNotIntegerError struct {
	Value string
}

func (e *ContentLengthNotIntegerError) Error() string {
	return fmt.Sprintf("message has invalid value for Content-Length: %s", e.Value)
}

var (
	ErrContentLengthMissing = errors.New("rtsp: message does not have Content-Length header")

	// Cycles in the parser state machine. These surface caller bugs
	// (feeding a finished parser), not peer behavior.
	ErrHeadAlreadyDone = errors.New("rtsp: head already done (cycle in state machine)")
	ErrBodyAlreadyDone = errors.New("rtsp: body already done (cycle in state machine)")

	ErrMetadataNotParsed = errors.New("rtsp: metadata not parsed")
	ErrNotDone           = errors.New("rtsp: parser not done yet")

	// ErrVersionUnknown is returned when serializing a message whose
	// version is neither 1.0 nor 2.0.
	ErrVersionUnknown = errors.New("rtsp: message has unknown version")
)

type TransportProtocolProfileMissingError struct {
	Value string
}

func (e *TransportProtocolProfileMissingError) Error() string {
	return fmt.Sprintf("transport protocol and/or profile missing: %s", e.Value)
}

type TransportLowerUnknownError struct {
	Value string
}

func (e *TransportLowerUnknownError) Error() string {
	return fmt.Sprintf("transport lower protocol unknown: %s", e.Value)
}

type TransportParameterUnknownError struct {
	Var string
}

func (e *TransportParameterUnknownError) Error() string {
	return fmt.Sprintf("transport parameter unknown: %s", e.Var)
}

type TransportParameterValueMissingError struct {
	Var string
}

func (e *TransportParameterValueMissingError) Error() string {
	return fmt.Sprintf("transport parameter should have value but does not (var: %s)", e.Var)
}

type TransportParameterValueInvalidError struct {
	Var string
	Val string
}

func (e *TransportParameterValueInvalidError) Error() string {
	return fmt.Sprintf("transport parameter value is invalid or malformed (var: %s, val: %s)", e.Var, e.Val)
}

type TransportChannelMalformedError struct {
	Value string
}

func (e *TransportChannelMalformedError) Error() string {
	return fmt.Sprintf("transport channel malformed: %s", e.Value)
}

type TransportPortMalformedError struct {
	Value string
}

func (e *TransportPortMalformedError) Error() string {
	return fmt.Sprintf("transport port malformed: %s", e.Value)
}

var (
	// ErrInterleavedInvalid is returned when interleaved parsing starts
	// on a byte stream that does not begin with '$' (0x24).
	ErrInterleavedInvalid = errors.New("rtsp: interleaved data does not have valid header magic character")

	// ErrInterleavedPayloadTooLarge is returned when a frame payload
	// does not fit the 16-bit length field.
	ErrInterleavedPayloadTooLarge = errors.New("rtsp: interleaved payload too large")
)

type RangeMalformedError struct {
	Value string
}

func (e *RangeMalformedError) Error() string {
	return fmt.Sprintf("range malformed: %s", e.Value)
}

type RangeUnitNotSupportedError struct {
	Value string
}

func (e *RangeUnitNotSupportedError) Error() string {
	return fmt.Sprintf("range unit not supported: %s", e.Value)
}

type RangeTimeNotSupportedError struct {
	Value string
}

func (e *RangeTimeNotSupportedError) Error() string {
	return fmt.Sprintf("range time not supported: %s", e.Value)
}

type RangeNptTimeMalformedError struct {
	Value string
}

func (e *RangeNptTimeMalformedError) Error() string {
	return fmt.Sprintf("range npt time malformed: %s", e.Value)
}

type RtpInfoUrlMissingError struct {
	Value string
}

func (e *RtpInfoUrlMissingError) Error() string {
	return fmt.Sprintf("rtp info url missing: %s", e.Value)
}

type RtpInfoParameterUnknownError struct {
	Value string
}

func (e *RtpInfoParameterUnknownError) Error() string {
	return fmt.Sprintf("rtp info parameter unknown: %s", e.Value)
}

type RtpInfoParameterInvalidError struct {
	Value string
}

func (e *RtpInfoParameterInvalidError) Error() string {
	return fmt.Sprintf("rtp info parameter invalid: %s", e.Value)
}

type RtpInfoParameterUnexpectedError struct {
	Value string
}

func (e *RtpInfoParameterUnexpectedError) Error() string {
	return fmt.Sprintf("rtp info contains unexpected parameter: %s", e.Value)
}

// Client dialogue errors.

type UriMissingProtocolSchemeError struct {
	Uri string
}

func (e *UriMissingProtocolSchemeError) Error() string {
	return fmt.Sprintf("uri has no protocol scheme: %s", e.Uri)
}

type UriUnsupportedProtocolSchemeError struct {
	Scheme string
}

func (e *UriUnsupportedProtocolSchemeError) Error() string {
	return fmt.Sprintf("uri protocol scheme not supported: %s", e.Scheme)
}

type UriMissingAuthorityError struct {
	Uri string
}

func (e *UriMissingAuthorityError) Error() string {
	return fmt.Sprintf("uri has no authority part: %s", e.Uri)
}

// ResolveError is returned when host name resolution yields no usable
// addresses.
type ResolveError struct {
	Host string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to resolve %s: %v", e.Host, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// ConnectError aggregates the dial failures of every resolved address.
type ConnectError struct {
	Errors []error
}

func (e *ConnectError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("failed to connect: %s", strings.Join(msgs, "; "))
}

var (
	ErrConnectionClosed                = errors.New("rtsp: connection closed")
	ErrUnexpectedInterleavedMessage    = errors.New("rtsp: received interleaved data while awaiting response")
	ErrInvalidRedirect                 = errors.New("rtsp: redirect response has missing or unusable Location header")
	ErrMaximumNumberOfRedirectsReached = errors.New("rtsp: maximum number of redirects reached")
	ErrMissingSdp                      = errors.New("rtsp: DESCRIBE response has no session description body")
)

// InvalidSdpError is returned when a DESCRIBE body fails to parse.
type InvalidSdpError struct {
	Err error
}

func (e *InvalidSdpError) Error() string {
	return fmt.Sprintf("invalid session description: %v", e.Err)
}

func (e *InvalidSdpError) Unwrap() error { return e.Err }

// StatusError is returned when the server answers with a 4xx or 5xx
// status. The full response is retained for inspection.
type StatusError struct {
	Response *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %d %s", e.Response.StatusCode, e.Response.Reason)
}
