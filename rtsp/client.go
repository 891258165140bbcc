package rtsp

import (
	"context"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	errors "golang.org/x/xerrors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailani/avtransport/internal/packet"
	"github.com/kailani/avtransport/sdp"
)

// RTSP 1.0 client implementation.
// See [RFC 2326](https://tools.ietf.org/html/rfc2326).

const (
	defaultPort  = "554"
	maxRedirects = 20
)

var (
	metricRequestsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtsp_requests_sent",
			Help: "Total number of RTSP requests sent.",
		},
		[]string{"method"},
	)
	metricRedirectsFollowed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rtsp_redirects_followed",
			Help: "Total number of RTSP redirect responses followed.",
		},
	)
	metricInterleavedFramesReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rtsp_interleaved_frames_received",
			Help: "Total number of interleaved binary frames received.",
		},
	)
)

func init() {
	prometheus.MustRegister(metricRequestsSent)
	prometheus.MustRegister(metricRedirectsFollowed)
	prometheus.MustRegister(metricInterleavedFramesReceived)
}

// Client communicates with one RTSP server over a single TCP
// connection. It sequences CSeq values, attaches the session identifier
// once one is known, and follows redirects. A Client is owned by one
// caller; requests are strictly sequential.
type Client struct {
	conn net.Conn

	// Effective request URI. Redirection may rewrite it.
	uri *url.URL

	buf   *packet.Buffer
	demux *Demuxer
	rbuf  []byte

	// Monotonically increasing request sequence number.
	cseq int

	// Session identifier, once acquired via SETUP.
	session string

	// Prevent simultaneous requests from multiple goroutines.
	sync.Mutex
}

// Dial connects to the RTSP server named by an rtsp:// URI.
func Dial(rawuri string) (*Client, error) {
	return DialContext(context.Background(), rawuri)
}

func DialContext(ctx context.Context, rawuri string) (*Client, error) {
	uri, err := url.Parse(rawuri)
	if err != nil {
		return nil, &UriMalformedError{Line: rawuri, Uri: rawuri}
	}
	switch uri.Scheme {
	case "rtsp":
	case "":
		return nil, &UriMissingProtocolSchemeError{Uri: rawuri}
	default:
		return nil, &UriUnsupportedProtocolSchemeError{Scheme: uri.Scheme}
	}
	if uri.Host == "" {
		return nil, &UriMissingAuthorityError{Uri: rawuri}
	}

	host := uri.Hostname()
	port := uri.Port()
	if port == "" {
		port = defaultPort
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return nil, &ResolveError{Host: host, Err: err}
	}

	// Attempt each resolved address in order.
	var dialer net.Dialer
	var dialErrors []error
	for _, addr := range addrs {
		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, port))
		if err != nil {
			dialErrors = append(dialErrors, err)
			continue
		}
		log.Debug("connected to %s", conn.RemoteAddr())
		return &Client{
			conn:  conn,
			uri:   uri,
			buf:   packet.NewBuffer(),
			demux: NewDemuxer(),
			rbuf:  make([]byte, 4096),
		}, nil
	}
	return nil, &ConnectError{Errors: dialErrors}
}

// Close shuts down the TCP connection. The client must not be used
// afterwards.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Session returns the session identifier acquired via SETUP, or the
// empty string.
func (c *Client) Session() string {
	c.Lock()
	defer c.Unlock()
	return c.session
}

func (c *Client) applyDeadline(ctx context.Context) {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	} else {
		c.conn.SetDeadline(time.Time{})
	}
}

// receive demultiplexes the next inbound item, reading from the socket
// as needed.
func (c *Client) receive() (*Response, *Frame, error) {
	for {
		response, frame, err := c.demux.Demux(c.buf)
		if err != nil {
			return nil, nil, err
		}
		if response != nil || frame != nil {
			if frame != nil {
				metricInterleavedFramesReceived.Inc()
			}
			return response, frame, nil
		}

		n, err := c.conn.Read(c.rbuf)
		if n > 0 {
			c.buf.Feed(c.rbuf[:n])
			continue
		}
		if err == io.EOF {
			return nil, nil, ErrConnectionClosed
		}
		if err != nil {
			return nil, nil, errors.Errorf("read failed: %w", err)
		}
	}
}

// Request sends one request and awaits its response, following
// redirects. Extra headers are attached as given; CSeq and Session are
// managed by the client. A 4xx or 5xx response is returned as a
// StatusError.
func (c *Client) Request(ctx context.Context, method Method, headers Headers, body []byte) (*Response, error) {
	c.Lock()
	defer c.Unlock()

	c.applyDeadline(ctx)

	for redirects := 0; redirects < maxRedirects; redirects++ {
		response, err := c.roundTrip(method, headers, body)
		if err != nil {
			return nil, err
		}

		if response.Status() == StatusCategoryRedirection {
			if err := c.follow(response); err != nil {
				return nil, err
			}
			metricRedirectsFollowed.Inc()
			continue
		}

		switch response.Status() {
		case StatusCategoryClientError, StatusCategoryServerError:
			return nil, &StatusError{Response: response}
		default:
			return response, nil
		}
	}
	return nil, ErrMaximumNumberOfRedirectsReached
}

func (c *Client) roundTrip(method Method, headers Headers, body []byte) (*Response, error) {
	request := &Request{
		Method:  method,
		URI:     c.uri,
		Version: Version1,
		Headers: Headers{"CSeq": strconv.Itoa(c.cseq)},
		Body:    body,
	}
	c.cseq++
	if c.session != "" {
		request.Headers["Session"] = c.session
	}
	if body != nil {
		request.Headers["Content-Length"] = strconv.Itoa(len(body))
	}
	for name, value := range headers {
		request.Headers[name] = value
	}

	buf, err := request.Serialize()
	if err != nil {
		return nil, err
	}
	if _, err := c.conn.Write(buf); err != nil {
		return nil, errors.Errorf("write failed: %w", err)
	}
	metricRequestsSent.With(prometheus.Labels{"method": string(method)}).Inc()

	response, frame, err := c.receive()
	if err != nil {
		return nil, err
	}
	if frame != nil {
		return nil, ErrUnexpectedInterleavedMessage
	}
	return response, nil
}

// follow rewrites the request URI from a redirect response's Location
// header, keeping scheme and authority.
func (c *Client) follow(response *Response) error {
	location, ok := response.Headers["Location"]
	if !ok {
		return ErrInvalidRedirect
	}
	parsed, err := url.Parse(location)
	if err != nil || parsed.Path == "" {
		return ErrInvalidRedirect
	}

	uri := *c.uri
	uri.Path = parsed.Path
	uri.RawQuery = parsed.RawQuery
	c.uri = &uri
	log.Debug("following redirect to %s", c.uri)
	return nil
}

// Options sends an OPTIONS request and returns the methods advertised
// in the Public header. Method tokens that do not parse are left out.
func (c *Client) Options(ctx context.Context) ([]Method, error) {
	response, err := c.Request(ctx, MethodOptions, nil, nil)
	if err != nil {
		return nil, err
	}

	var methods []Method
	for _, token := range strings.Split(response.Headers["Public"], ",") {
		if method, err := ParseMethod(strings.TrimSpace(token)); err == nil {
			methods = append(methods, method)
		}
	}
	return methods, nil
}

// Describe sends a DESCRIBE request and parses the SDP body.
func (c *Client) Describe(ctx context.Context) (*sdp.Session, error) {
	response, err := c.Request(ctx, MethodDescribe, Headers{
		"Accept": "application/sdp",
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(response.Body) == 0 {
		return nil, ErrMissingSdp
	}
	session, err := sdp.Parse(string(response.Body))
	if err != nil {
		return nil, &InvalidSdpError{Err: err}
	}
	return session, nil
}

// Setup sends a SETUP request offering the given transport. The
// returned session identifier is attached to all subsequent requests;
// the response's transport answer is returned.
func (c *Client) Setup(ctx context.Context, transport *Transport) (*Transport, error) {
	response, err := c.Request(ctx, MethodSetup, Headers{
		"Transport": transport.String(),
	}, nil)
	if err != nil {
		return nil, err
	}

	// See https://tools.ietf.org/html/rfc2326#section-12.37
	session, _, _ := strings.Cut(response.Headers["Session"], ";")
	c.Lock()
	c.session = session
	c.Unlock()

	answer, ok := response.Headers["Transport"]
	if !ok {
		return nil, nil
	}
	return ParseTransport(answer)
}

// Play sends a PLAY request, optionally bounded by a range, and parses
// the per-stream RTP-Info entries.
func (c *Client) Play(ctx context.Context, playRange *Range) ([]*RtpInfo, error) {
	headers := Headers{}
	if playRange != nil {
		headers["Range"] = playRange.String()
	}
	response, err := c.Request(ctx, MethodPlay, headers, nil)
	if err != nil {
		return nil, err
	}

	value, ok := response.Headers["RTP-Info"]
	if !ok {
		return nil, nil
	}
	var infos []*RtpInfo
	for _, part := range strings.Split(value, ",") {
		info, err := ParseRtpInfo(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Pause sends a PAUSE request.
func (c *Client) Pause(ctx context.Context) error {
	_, err := c.Request(ctx, MethodPause, nil, nil)
	return err
}

// Teardown sends a TEARDOWN request and forgets the session identifier.
func (c *Client) Teardown(ctx context.Context) error {
	_, err := c.Request(ctx, MethodTeardown, nil, nil)
	c.Lock()
	c.session = ""
	c.Unlock()
	return err
}

// GetParameter sends a GET_PARAMETER request and returns the response
// body. Servers commonly use it as a session keepalive.
func (c *Client) GetParameter(ctx context.Context) (string, error) {
	response, err := c.Request(ctx, MethodGetParameter, nil, nil)
	if err != nil {
		return "", err
	}
	return string(response.Body), nil
}

// SetParameter sends a SET_PARAMETER request with the given body.
func (c *Client) SetParameter(ctx context.Context, body []byte) error {
	_, err := c.Request(ctx, MethodSetParameter, Headers{
		"Content-Type": "text/parameters",
	}, body)
	return err
}

// WriteFrame sends an interleaved binary frame on the shared
// connection.
func (c *Client) WriteFrame(frame *Frame) error {
	buf, err := frame.Serialize()
	if err != nil {
		return err
	}
	if _, err := c.conn.Write(buf); err != nil {
		return errors.Errorf("write failed: %w", err)
	}
	return nil
}

// Receive awaits the next inbound item: an interleaved media frame or
// an out-of-band textual message from the server. Exactly one of the
// results is non-nil on success.
func (c *Client) Receive(ctx context.Context) (*Response, *Frame, error) {
	c.Lock()
	defer c.Unlock()
	c.applyDeadline(ctx)
	return c.receive()
}
