package sdp

import (
	"net"
	"strconv"
	"time"
)

// Builder constructs a session description, assigning dynamic RTP
// payload types to media items as they are added.

const (
	dynamicPayloadTypeFirst = 96
	dynamicPayloadTypeLast  = 127
)

type Builder struct {
	session         Session
	nextPayloadType int
}

// NewBuilder starts a session description with the required session
// fields filled in.
func NewBuilder(origin net.IP, name string, destination net.IP, timeRange TimeRange) *Builder {
	connection := ConnectionFor(destination)
	return &Builder{
		session: Session{
			Version:    0,
			Origin:     OriginFor(origin, strconv.FormatInt(time.Now().Unix(), 10)),
			Name:       name,
			Connection: &connection,
			TimeActive: []TimeActive{timeRange.timeActive()},
		},
		nextPayloadType: dynamicPayloadTypeFirst,
	}
}

func (b *Builder) WithUsername(username string) *Builder {
	b.session.Origin.Username = username
	return b
}

func (b *Builder) WithSessionVersion(version uint64) *Builder {
	b.session.Origin.SessionVersion = version
	return b
}

func (b *Builder) WithDescription(description string) *Builder {
	b.session.Description = description
	return b
}

func (b *Builder) WithAttribute(attribute Attribute) *Builder {
	b.session.Attributes = append(b.session.Attributes, attribute)
	return b
}

func (b *Builder) WithAttributes(attributes []Attribute) *Builder {
	b.session.Attributes = append(b.session.Attributes, attributes...)
	return b
}

// AddMedia appends a media item, allocating the next dynamic payload
// type from [96, 127] and attaching the codec's rtpmap/fmtp attributes
// plus one direction attribute.
func (b *Builder) AddMedia(kind Kind, title string, port uint16, protocol Protocol, direction Direction, codec CodecParameters) error {
	if b.nextPayloadType > dynamicPayloadTypeLast {
		return ErrTooManyMediaItems
	}
	payloadType := byte(b.nextPayloadType)
	b.nextPayloadType++

	attributes := codec.MediaAttributes(payloadType)
	attributes = append(attributes, Property(string(direction)))

	b.session.Media = append(b.session.Media, Media{
		Kind:       kind,
		Port:       port,
		Protocol:   protocol,
		Format:     int(payloadType),
		Title:      title,
		Attributes: attributes,
	})
	return nil
}

// Session returns the constructed description.
func (b *Builder) Session() *Session {
	return &b.session
}
