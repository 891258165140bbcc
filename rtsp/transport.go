package rtsp

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Transport header value, RFC 2326 Section 12.39. Only the "RTP/AVP"
// protocol/profile is supported, optionally followed by a lower
// transport and any number of ;-separated parameters. The parameter
// order is preserved so a parsed header re-emits byte-equal, except that
// the mode value is always emitted in quotes.

// Lower is the lower transport protocol of a transport specification.
type Lower int

const (
	LowerTCP Lower = iota
	LowerUDP
)

func (l Lower) String() string {
	if l == LowerTCP {
		return "TCP"
	}
	return "UDP"
}

func parseLower(s string) (Lower, error) {
	switch s {
	case "TCP":
		return LowerTCP, nil
	case "UDP":
		return LowerUDP, nil
	default:
		return 0, &TransportLowerUnknownError{Value: s}
	}
}

// Channel is an interleaved channel number or lo-hi channel pair.
type Channel struct {
	Lo      byte
	Hi      byte
	IsRange bool
}

func (c Channel) String() string {
	if c.IsRange {
		return fmt.Sprintf("%d-%d", c.Lo, c.Hi)
	}
	return strconv.Itoa(int(c.Lo))
}

func parseChannel(s string) (Channel, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	c := Channel{IsRange: isRange}
	n, err := strconv.ParseUint(lo, 10, 8)
	if err != nil {
		return Channel{}, &TransportChannelMalformedError{Value: s}
	}
	c.Lo = byte(n)
	if isRange {
		n, err := strconv.ParseUint(hi, 10, 8)
		if err != nil {
			return Channel{}, &TransportChannelMalformedError{Value: s}
		}
		c.Hi = byte(n)
	}
	return c, nil
}

// Port is a port number or lo-hi port pair.
type Port struct {
	Lo      uint16
	Hi      uint16
	IsRange bool
}

func (p Port) String() string {
	if p.IsRange {
		return fmt.Sprintf("%d-%d", p.Lo, p.Hi)
	}
	return strconv.Itoa(int(p.Lo))
}

func parsePort(s string) (Port, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	p := Port{IsRange: isRange}
	n, err := strconv.ParseUint(lo, 10, 16)
	if err != nil {
		return Port{}, &TransportPortMalformedError{Value: s}
	}
	p.Lo = uint16(n)
	if isRange {
		n, err := strconv.ParseUint(hi, 10, 16)
		if err != nil {
			return Port{}, &TransportPortMalformedError{Value: s}
		}
		p.Hi = uint16(n)
	}
	return p, nil
}

// Parameter is one transport parameter. The concrete types below cover
// the parameter set of RFC 2326 Section 12.39.
type Parameter interface {
	fmt.Stringer
	transportParameter()
}

type (
	ParameterUnicast     struct{}
	ParameterMulticast   struct{}
	ParameterAppend      struct{}
	ParameterDestination struct{ Host net.IP }
	ParameterInterleaved struct{ Channel Channel }
	ParameterTtl         struct{ Value int }
	ParameterLayers      struct{ Value int }
	ParameterPort        struct{ Port Port }
	ParameterClientPort  struct{ Port Port }
	ParameterServerPort  struct{ Port Port }
	ParameterSsrc        struct{ Value string }
	ParameterMode        struct{ Method Method }
)

func (ParameterUnicast) transportParameter()     {}
func (ParameterMulticast) transportParameter()   {}
func (ParameterAppend) transportParameter()      {}
func (ParameterDestination) transportParameter() {}
func (ParameterInterleaved) transportParameter() {}
func (ParameterTtl) transportParameter()         {}
func (ParameterLayers) transportParameter()      {}
func (ParameterPort) transportParameter()        {}
func (ParameterClientPort) transportParameter()  {}
func (ParameterServerPort) transportParameter()  {}
func (ParameterSsrc) transportParameter()        {}
func (ParameterMode) transportParameter()        {}

func (ParameterUnicast) String() string   { return "unicast" }
func (ParameterMulticast) String() string { return "multicast" }
func (ParameterAppend) String() string    { return "append" }

func (p ParameterDestination) String() string { return "destination=" + p.Host.String() }
func (p ParameterInterleaved) String() string { return "interleaved=" + p.Channel.String() }
func (p ParameterTtl) String() string         { return "ttl=" + strconv.Itoa(p.Value) }
func (p ParameterLayers) String() string      { return "layers=" + strconv.Itoa(p.Value) }
func (p ParameterPort) String() string        { return "port=" + p.Port.String() }
func (p ParameterClientPort) String() string  { return "client_port=" + p.Port.String() }
func (p ParameterServerPort) String() string  { return "server_port=" + p.Port.String() }
func (p ParameterSsrc) String() string        { return "ssrc=" + p.Value }
func (p ParameterMode) String() string        { return fmt.Sprintf("mode=%q", string(p.Method)) }

func parseParameter(s string) (Parameter, error) {
	name, value, hasValue := strings.Cut(s, "=")

	requireValue := func() (string, error) {
		if !hasValue {
			return "", &TransportParameterValueMissingError{Var: name}
		}
		return value, nil
	}

	switch name {
	case "unicast":
		return ParameterUnicast{}, nil
	case "multicast":
		return ParameterMulticast{}, nil
	case "append":
		return ParameterAppend{}, nil
	case "destination":
		val, err := requireValue()
		if err != nil {
			return nil, err
		}
		host := net.ParseIP(val)
		if host == nil {
			return nil, &TransportParameterValueInvalidError{Var: name, Val: val}
		}
		return ParameterDestination{Host: host}, nil
	case "interleaved":
		val, err := requireValue()
		if err != nil {
			return nil, err
		}
		channel, err := parseChannel(val)
		if err != nil {
			return nil, &TransportParameterValueInvalidError{Var: name, Val: val}
		}
		return ParameterInterleaved{Channel: channel}, nil
	case "ttl":
		val, err := requireValue()
		if err != nil {
			return nil, err
		}
		ttl, err := strconv.Atoi(val)
		if err != nil {
			return nil, &TransportParameterValueInvalidError{Var: name, Val: val}
		}
		return ParameterTtl{Value: ttl}, nil
	case "layers":
		val, err := requireValue()
		if err != nil {
			return nil, err
		}
		layers, err := strconv.Atoi(val)
		if err != nil {
			return nil, &TransportParameterValueInvalidError{Var: name, Val: val}
		}
		return ParameterLayers{Value: layers}, nil
	case "port", "client_port", "server_port":
		val, err := requireValue()
		if err != nil {
			return nil, err
		}
		port, err := parsePort(val)
		if err != nil {
			return nil, &TransportParameterValueInvalidError{Var: name, Val: val}
		}
		switch name {
		case "port":
			return ParameterPort{Port: port}, nil
		case "client_port":
			return ParameterClientPort{Port: port}, nil
		default:
			return ParameterServerPort{Port: port}, nil
		}
	case "ssrc":
		val, err := requireValue()
		if err != nil {
			return nil, err
		}
		return ParameterSsrc{Value: val}, nil
	case "mode":
		val, err := requireValue()
		if err != nil {
			return nil, err
		}
		// Quotes around the method name are optional.
		val = strings.TrimSuffix(strings.TrimPrefix(val, `"`), `"`)
		method, err := ParseMethod(val)
		if err != nil {
			return nil, &TransportParameterValueInvalidError{Var: name, Val: val}
		}
		return ParameterMode{Method: method}, nil
	default:
		return nil, &TransportParameterUnknownError{Var: name}
	}
}

// Transport is one parsed transport specification.
type Transport struct {
	Lower      *Lower
	Parameters []Parameter
}

func NewTransport() *Transport {
	return &Transport{}
}

func (t *Transport) WithLower(lower Lower) *Transport {
	t.Lower = &lower
	return t
}

func (t *Transport) WithParameter(p Parameter) *Transport {
	t.Parameters = append(t.Parameters, p)
	return t
}

// Destination returns the destination parameter, if present.
func (t *Transport) Destination() (net.IP, bool) {
	for _, p := range t.Parameters {
		if d, ok := p.(ParameterDestination); ok {
			return d.Host, true
		}
	}
	return nil, false
}

// ClientPort returns the client_port parameter, if present.
func (t *Transport) ClientPort() (Port, bool) {
	for _, p := range t.Parameters {
		if c, ok := p.(ParameterClientPort); ok {
			return c.Port, true
		}
	}
	return Port{}, false
}

// ServerPort returns the server_port parameter, if present.
func (t *Transport) ServerPort() (Port, bool) {
	for _, p := range t.Parameters {
		if s, ok := p.(ParameterServerPort); ok {
			return s.Port, true
		}
	}
	return Port{}, false
}

// InterleavedChannel returns the interleaved parameter, if present.
func (t *Transport) InterleavedChannel() (Channel, bool) {
	for _, p := range t.Parameters {
		if i, ok := p.(ParameterInterleaved); ok {
			return i.Channel, true
		}
	}
	return Channel{}, false
}

func (t *Transport) String() string {
	var b strings.Builder
	b.WriteString("RTP/AVP")
	if t.Lower != nil {
		b.WriteByte('/')
		b.WriteString(t.Lower.String())
	}
	for _, p := range t.Parameters {
		b.WriteByte(';')
		b.WriteString(p.String())
	}
	return b.String()
}

// ParseTransport parses one transport specification.
func ParseTransport(s string) (*Transport, error) {
	spec, params, hasParams := strings.Cut(s, ";")

	if !strings.HasPrefix(spec, "RTP/AVP") {
		return nil, &TransportProtocolProfileMissingError{Value: s}
	}

	t := NewTransport()
	if parts := strings.Split(spec, "/"); len(parts) > 2 {
		lower, err := parseLower(parts[2])
		if err != nil {
			return nil, err
		}
		t.Lower = &lower
	}

	if hasParams {
		for _, part := range strings.Split(params, ";") {
			p, err := parseParameter(part)
			if err != nil {
				return nil, err
			}
			t.Parameters = append(t.Parameters, p)
		}
	}

	return t, nil
}
