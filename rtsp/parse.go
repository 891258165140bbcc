package rtsp

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kailani/avtransport/internal/packet"
)

// Incremental message parsing. The parser is fed a shared buffer
// repeatedly; it reports Hungry until a full message has been consumed
// and never reads beyond one message's body, so pipelined messages can
// be extracted by constructing a fresh parser at the current cursor.

// Status is the outcome of one Parse call.
type Status int

const (
	// Hungry means more input is required.
	Hungry Status = iota
	// Done means a complete message is available.
	Done
)

type headState int

const (
	headFirstLine headState = iota
	headHeader
	headDone
)

type bodyState int

const (
	bodyIncomplete bodyState = iota
	bodyComplete
)

// messageParser is the head/body state machine shared by the request
// and response parsers. parseFirstLine stores the metadata of the
// concrete message type.
type messageParser struct {
	inBody  bool
	head    headState
	body    bodyState
	headers Headers
	payload []byte

	parseFirstLine func(line string) error
	haveMetadata   bool
}

func (p *messageParser) init(parseFirstLine func(string) error) {
	p.headers = make(Headers)
	p.parseFirstLine = parseFirstLine
}

func (p *messageParser) parse(buf *packet.Buffer) (Status, error) {
	for {
		if !p.inBody {
			status, again, err := p.parseHead(buf)
			if err != nil || !again {
				return status, err
			}
			continue
		}

		return p.parseBody(buf)
	}
}

func (p *messageParser) parseHead(buf *packet.Buffer) (Status, bool, error) {
	for p.head != headDone {
		line, ok, err := buf.ReadLine()
		if err != nil {
			return Hungry, false, ErrEncoding
		}
		if !ok {
			return Hungry, false, nil
		}

		if err := p.parseHeadLine(strings.TrimSpace(line)); err != nil {
			return Hungry, false, err
		}
	}

	p.inBody = true
	if p.contentLengthPresent() {
		p.body = bodyIncomplete
		return Hungry, true, nil
	}
	p.body = bodyComplete
	return Done, false, nil
}

func (p *messageParser) parseHeadLine(line string) error {
	switch p.head {
	case headFirstLine:
		if err := p.parseFirstLine(line); err != nil {
			return err
		}
		p.haveMetadata = true
		p.head = headHeader
		return nil
	case headHeader:
		if line == "" {
			// Empty line signals the end of the headers.
			p.head = headDone
			return nil
		}
		name, value, err := parseHeaderLine(line)
		if err != nil {
			return err
		}
		p.headers[name] = value
		return nil
	default:
		return ErrHeadAlreadyDone
	}
}

func (p *messageParser) parseBody(buf *packet.Buffer) (Status, error) {
	if p.body == bodyComplete {
		return Done, ErrBodyAlreadyDone
	}

	need, err := p.contentLength()
	if err != nil {
		return Hungry, err
	}
	if buf.Remaining() < need {
		return Hungry, nil
	}
	if need > 0 {
		p.payload = buf.ReadBytes(need)
	}
	p.body = bodyComplete
	return Done, nil
}

func (p *messageParser) contentLengthPresent() bool {
	value, ok := p.headers["Content-Length"]
	return ok && value != "0"
}

func (p *messageParser) contentLength() (int, error) {
	value, ok := p.headers["Content-Length"]
	if !ok {
		return 0, ErrContentLengthMissing
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, &ContentLengthNotIntegerError{Value: value}
	}
	return n, nil
}

func (p *messageParser) done() bool {
	return p.inBody && p.body == bodyComplete
}

// RequestParser incrementally parses one RTSP request.
type RequestParser struct {
	messageParser

	method  Method
	uri     *url.URL
	version Version
}

func NewRequestParser() *RequestParser {
	p := new(RequestParser)
	p.init(func(line string) (err error) {
		p.method, p.uri, p.version, err = parseRequestLine(line)
		return
	})
	return p
}

// Parse consumes bytes from buf. Calling Parse again after Done fails
// with ErrBodyAlreadyDone; construct a fresh parser per message.
func (p *RequestParser) Parse(buf *packet.Buffer) (Status, error) {
	return p.parse(buf)
}

// Request extracts the parsed message. It fails with ErrNotDone until
// Parse has returned Done.
func (p *RequestParser) Request() (*Request, error) {
	if !p.done() {
		return nil, ErrNotDone
	}
	if !p.haveMetadata {
		return nil, ErrMetadataNotParsed
	}
	return &Request{
		Method:  p.method,
		URI:     p.uri,
		Version: p.version,
		Headers: p.headers,
		Body:    p.payload,
	}, nil
}

// ResponseParser incrementally parses one RTSP response.
type ResponseParser struct {
	messageParser

	version Version
	code    int
	reason  string
}

func NewResponseParser() *ResponseParser {
	p := new(ResponseParser)
	p.init(func(line string) (err error) {
		p.version, p.code, p.reason, err = parseStatusLine(line)
		return
	})
	return p
}

func (p *ResponseParser) Parse(buf *packet.Buffer) (Status, error) {
	return p.parse(buf)
}

// Response extracts the parsed message. It fails with ErrNotDone until
// Parse has returned Done.
func (p *ResponseParser) Response() (*Response, error) {
	if !p.done() {
		return nil, ErrNotDone
	}
	if !p.haveMetadata {
		return nil, ErrMetadataNotParsed
	}
	return &Response{
		Version:    p.version,
		StatusCode: p.code,
		Reason:     p.reason,
		Headers:    p.headers,
		Body:       p.payload,
	}, nil
}
