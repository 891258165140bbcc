package sdp

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Session description model and emitter, RFC 8866 (and its predecessor
// RFC 4566, which RFC 2326 DESCRIBE bodies commonly still follow).

// Session is one parsed or constructed session description.
type Session struct {
	/* v= */
	Version int
	/* o= */
	Origin Origin
	/* s= */
	Name string
	/* i= */
	Description string // optional
	/* u= */
	URI string // optional
	/* e= */
	Email string // optional
	/* p= */
	Phone string // optional
	/* c= */
	Connection *Connection // optional if every media item has one
	/* b= */
	Bandwidth []Bandwidth
	/* t= */
	TimeActive []TimeActive
	/* r= (each with optional trailing z=) */
	Repeats []Repeat
	/* a= */
	Attributes []Attribute
	/* m= ... */
	Media []Media
}

// Origin is the o= line.
type Origin struct {
	Username       string
	SessionId      string
	SessionVersion uint64
	NetworkType    NetworkType
	AddressType    AddressType
	UnicastAddress string
}

func (o Origin) String() string {
	return fmt.Sprintf("%s %s %d %s %s %s",
		o.Username, o.SessionId, o.SessionVersion, o.NetworkType, o.AddressType, o.UnicastAddress)
}

// OriginFor builds a default origin for the given source address.
func OriginFor(ip net.IP, sessionId string) Origin {
	return Origin{
		Username:       "-",
		SessionId:      sessionId,
		SessionVersion: 0,
		NetworkType:    NetworkTypeInternet,
		AddressType:    addressTypeOf(ip),
		UnicastAddress: ip.String(),
	}
}

// Connection is a c= line, at session level or per media item.
type Connection struct {
	NetworkType NetworkType
	AddressType AddressType
	Address     string
}

func (c Connection) String() string {
	return fmt.Sprintf("%s %s %s", c.NetworkType, c.AddressType, c.Address)
}

// ConnectionFor builds a connection for the given destination address.
func ConnectionFor(ip net.IP) Connection {
	return Connection{
		NetworkType: NetworkTypeInternet,
		AddressType: addressTypeOf(ip),
		Address:     ip.String(),
	}
}

// NetworkType of an origin or connection. RFC 8866 defines "IN".
type NetworkType string

const NetworkTypeInternet NetworkType = "IN"

func parseNetworkType(s string) (NetworkType, error) {
	if s != string(NetworkTypeInternet) {
		return "", &NetworkTypeUnknownError{NetworkType: s}
	}
	return NetworkTypeInternet, nil
}

// AddressType of an origin or connection.
type AddressType string

const (
	AddressTypeIpV4 AddressType = "IP4"
	AddressTypeIpV6 AddressType = "IP6"
)

func parseAddressType(s string) (AddressType, error) {
	switch AddressType(s) {
	case AddressTypeIpV4, AddressTypeIpV6:
		return AddressType(s), nil
	default:
		return "", &AddressTypeUnknownError{AddressType: s}
	}
}

func addressTypeOf(ip net.IP) AddressType {
	if ip.To4() != nil {
		return AddressTypeIpV4
	}
	return AddressTypeIpV6
}

// BandwidthType of a b= line.
type BandwidthType string

const (
	BandwidthTypeConferenceTotal     BandwidthType = "CT"
	BandwidthTypeApplicationSpecific BandwidthType = "AS"
)

// Bandwidth is one b= line.
type Bandwidth struct {
	Type  BandwidthType
	Value int
}

func (b Bandwidth) String() string {
	return fmt.Sprintf("%s:%d", b.Type, b.Value)
}

// Attribute is an a= line: a property flag, or a key:value pair when
// Value is non-empty.
type Attribute struct {
	Key   string
	Value string
}

// Property returns a flag attribute.
func Property(key string) Attribute {
	return Attribute{Key: key}
}

// Value returns a key:value attribute.
func Value(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func (a Attribute) String() string {
	if a.Value == "" {
		return a.Key
	}
	return a.Key + ":" + a.Value
}

// Kind of a media item.
type Kind string

const (
	KindVideo       Kind = "video"
	KindAudio       Kind = "audio"
	KindText        Kind = "text"
	KindApplication Kind = "application"
	KindMessage     Kind = "message"
)

func parseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindVideo, KindAudio, KindText, KindApplication, KindMessage:
		return Kind(s), nil
	default:
		return "", &KindUnknownError{Kind: s}
	}
}

// Protocol of a media item.
type Protocol string

const (
	ProtocolRtpAvp  Protocol = "RTP/AVP"
	ProtocolRtpSAvp Protocol = "RTP/SAVP"
)

func parseProtocol(s string) (Protocol, error) {
	switch Protocol(s) {
	case ProtocolRtpAvp, ProtocolRtpSAvp:
		return Protocol(s), nil
	default:
		return "", &ProtocolUnknownError{Protocol: s}
	}
}

// Direction of a media stream.
type Direction string

const (
	DirectionReceiveOnly    Direction = "recvonly"
	DirectionSendOnly       Direction = "sendonly"
	DirectionSendAndReceive Direction = "sendrecv"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionReceiveOnly, DirectionSendOnly, DirectionSendAndReceive:
		return Direction(s), nil
	default:
		return "", &DirectionUnknownError{Direction: s}
	}
}

// Media is one media item: the m= line plus its attached lines.
type Media struct {
	/* m= */
	Kind     Kind
	Port     uint16
	Protocol Protocol
	Format   int
	/* i= */
	Title string // optional
	/* c= */
	Connection *Connection // optional
	/* b= */
	Bandwidth []Bandwidth
	/* a= */
	Attributes []Attribute
}

// Attribute returns the value of the named attribute, or "" when
// absent.
func (m *Media) Attribute(key string) string {
	for _, a := range m.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// Attribute returns the value of the named session-level attribute, or
// "" when absent.
func (s *Session) Attribute(key string) string {
	for _, a := range s.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

type writer strings.Builder

func (w *writer) Write(fragments ...string) {
	for _, s := range fragments {
		(*strings.Builder)(w).WriteString(s)
	}
}

func (w *writer) Writef(format string, args ...interface{}) {
	fmt.Fprintf((*strings.Builder)(w), format, args...)
}

func (w *writer) String() string {
	return (*strings.Builder)(w).String()
}

// String emits the session description in canonical RFC 8866 line
// order, with LF line terminators.
func (s *Session) String() string {
	var w writer
	w.Writef("v=%d\n", s.Version)
	w.Write("o=", s.Origin.String(), "\n")
	w.Write("s=", s.Name, "\n")
	if s.Description != "" {
		w.Write("i=", s.Description, "\n")
	}
	if s.URI != "" {
		w.Write("u=", s.URI, "\n")
	}
	if s.Email != "" {
		w.Write("e=", s.Email, "\n")
	}
	if s.Phone != "" {
		w.Write("p=", s.Phone, "\n")
	}
	if s.Connection != nil {
		w.Write("c=", s.Connection.String(), "\n")
	}
	for _, b := range s.Bandwidth {
		w.Write("b=", b.String(), "\n")
	}
	for _, t := range s.TimeActive {
		w.Write("t=", t.String(), "\n")
	}
	for _, r := range s.Repeats {
		w.Write("r=", r.String(), "\n")
		if len(r.Adjustments) > 0 {
			w.Write("z=", formatAdjustments(r.Adjustments), "\n")
		}
	}
	for _, a := range s.Attributes {
		w.Write("a=", a.String(), "\n")
	}
	for i := range s.Media {
		s.Media[i].write(&w)
	}
	return w.String()
}

func (m *Media) write(w *writer) {
	w.Writef("m=%s %d %s %d\n", m.Kind, m.Port, m.Protocol, m.Format)
	if m.Title != "" {
		w.Write("i=", m.Title, "\n")
	}
	if m.Connection != nil {
		w.Write("c=", m.Connection.String(), "\n")
	}
	for _, b := range m.Bandwidth {
		w.Write("b=", b.String(), "\n")
	}
	for _, a := range m.Attributes {
		w.Write("a=", a.String(), "\n")
	}
}

func (m *Media) String() string {
	var w writer
	m.write(&w)
	return w.String()
}

func parseBandwidth(value string) (Bandwidth, error) {
	typePart, valuePart, ok := strings.Cut(value, ":")
	if !ok {
		return Bandwidth{}, &BandwidthLineMalformedError{Line: value}
	}
	switch BandwidthType(typePart) {
	case BandwidthTypeConferenceTotal, BandwidthTypeApplicationSpecific:
	default:
		return Bandwidth{}, &BandwidthTypeUnknownError{BandwidthType: typePart}
	}
	n, err := strconv.Atoi(valuePart)
	if err != nil {
		return Bandwidth{}, &BandwidthValueInvalidError{Bandwidth: valuePart}
	}
	return Bandwidth{Type: BandwidthType(typePart), Value: n}, nil
}

func parseOrigin(value string) (Origin, error) {
	fields := strings.Fields(value)
	if len(fields) != 6 {
		return Origin{}, &OriginLineInvalidError{Line: value}
	}
	sessionVersion, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return Origin{}, &OriginLineInvalidError{Line: value}
	}
	networkType, err := parseNetworkType(fields[3])
	if err != nil {
		return Origin{}, err
	}
	addressType, err := parseAddressType(fields[4])
	if err != nil {
		return Origin{}, err
	}
	return Origin{
		Username:       fields[0],
		SessionId:      fields[1],
		SessionVersion: sessionVersion,
		NetworkType:    networkType,
		AddressType:    addressType,
		UnicastAddress: fields[5],
	}, nil
}

func parseConnection(value string) (Connection, error) {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return Connection{}, &ConnectionLineInvalidError{Line: value}
	}
	networkType, err := parseNetworkType(fields[0])
	if err != nil {
		return Connection{}, err
	}
	addressType, err := parseAddressType(fields[1])
	if err != nil {
		return Connection{}, err
	}
	return Connection{
		NetworkType: networkType,
		AddressType: addressType,
		Address:     fields[2],
	}, nil
}

func parseAttribute(value string) Attribute {
	key, val, _ := strings.Cut(value, ":")
	return Attribute{Key: key, Value: val}
}

func parseMediaLine(value string) (Media, error) {
	fields := strings.Fields(value)
	if len(fields) < 4 {
		return Media{}, &MediaLineInvalidError{Line: value}
	}
	kind, err := parseKind(fields[0])
	if err != nil {
		return Media{}, err
	}
	port, perr := strconv.ParseUint(fields[1], 10, 16)
	if perr != nil {
		return Media{}, &MediaPortInvalidError{Line: value}
	}
	protocol, err := parseProtocol(fields[2])
	if err != nil {
		return Media{}, err
	}
	format, ferr := strconv.Atoi(fields[3])
	if ferr != nil {
		return Media{}, &MediaFormatInvalidError{Line: value}
	}
	return Media{
		Kind:     kind,
		Port:     uint16(port),
		Protocol: protocol,
		Format:   format,
	}, nil
}
