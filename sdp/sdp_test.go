package sdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const minimalSdp = "v=0\n" +
	"o=- 0 0 IN IP4 1.2.3.4\n" +
	"s=X\n" +
	"c=IN IP4 1.2.3.4\n" +
	"t=0 0\n"

func TestParseMinimal(t *testing.T) {
	session, err := Parse(minimalSdp)
	assert.NoError(t, err)
	assert.Equal(t, 0, session.Version)
	assert.Equal(t, "-", session.Origin.Username)
	assert.Equal(t, "0", session.Origin.SessionId)
	assert.EqualValues(t, 0, session.Origin.SessionVersion)
	assert.Equal(t, NetworkTypeInternet, session.Origin.NetworkType)
	assert.Equal(t, AddressTypeIpV4, session.Origin.AddressType)
	assert.Equal(t, "1.2.3.4", session.Origin.UnicastAddress)
	assert.Equal(t, "X", session.Name)
	assert.NotNil(t, session.Connection)
	assert.Equal(t, "1.2.3.4", session.Connection.Address)
	assert.Equal(t, []TimeActive{{Start: 0, Stop: 0}}, session.TimeActive)
}

func TestRoundTripMinimal(t *testing.T) {
	session, err := Parse(minimalSdp)
	assert.NoError(t, err)
	assert.Equal(t, minimalSdp, session.String())

	again, err := Parse(session.String())
	assert.NoError(t, err)
	assert.Equal(t, session, again)
}

func TestParseConnectionMissing(t *testing.T) {
	_, err := Parse("v=0\no=- 0 0 IN IP4 1.2.3.4\ns=X\nt=0 0\n")
	assert.Equal(t, ErrConnectionMissing, err)
}

func TestParseConnectionOnEveryMediaItem(t *testing.T) {
	text := "v=0\n" +
		"o=- 0 0 IN IP4 1.2.3.4\n" +
		"s=X\n" +
		"t=0 0\n" +
		"m=video 0 RTP/AVP 96\n" +
		"c=IN IP4 5.6.7.8\n"

	session, err := Parse(text)
	assert.NoError(t, err)
	assert.Nil(t, session.Connection)
	assert.NotNil(t, session.Media[0].Connection)

	// A second media item without its own connection makes the whole
	// description invalid.
	_, err = Parse(text + "m=audio 0 RTP/AVP 97\n")
	assert.Equal(t, ErrConnectionMissing, err)
}

func TestParseTimezoneWithoutRepeat(t *testing.T) {
	_, err := Parse(minimalSdp + "z=0 0\n")
	assert.Equal(t, ErrTimezoneAdjustmentsWithoutRepeatTimes, err)
}

func TestParseRepeatWithTimezone(t *testing.T) {
	text := minimalSdp +
		"r=604800 3600 0 90000\n" +
		"z=2882844526 -1h 2898848070 0\n"

	session, err := Parse(text)
	assert.NoError(t, err)
	assert.Len(t, session.Repeats, 1)

	repeat := session.Repeats[0]
	assert.EqualValues(t, 604800, repeat.Interval)
	assert.EqualValues(t, 3600, repeat.Duration)
	assert.Equal(t, []int64{0, 90000}, repeat.Offsets)
	assert.Equal(t, []TimeZoneAdjustment{
		{Time: 2882844526, Offset: -3600},
		{Time: 2898848070, Offset: 0},
	}, session.Repeats[0].Adjustments)
}

func TestParseRepeatUnitSuffixes(t *testing.T) {
	session, err := Parse(minimalSdp + "r=7d 1h 0 25h\n")
	assert.NoError(t, err)

	repeat := session.Repeats[0]
	assert.EqualValues(t, 604800, repeat.Interval)
	assert.EqualValues(t, 3600, repeat.Duration)
	assert.Equal(t, []int64{0, 90000}, repeat.Offsets)
}

func TestEmitRepeatWithTimezone(t *testing.T) {
	session, err := Parse(minimalSdp + "r=604800 3600 0\nz=0 -30m\n")
	assert.NoError(t, err)
	assert.Equal(t, minimalSdp+"r=604800 3600 0\nz=0 -1800\n", session.String())
}

func TestParseMissingRequiredLines(t *testing.T) {
	_, err := Parse("o=- 0 0 IN IP4 1.2.3.4\ns=X\nc=IN IP4 1.2.3.4\nt=0 0\n")
	assert.Equal(t, ErrVersionMissing, err)

	_, err = Parse("v=0\ns=X\nc=IN IP4 1.2.3.4\nt=0 0\n")
	assert.Equal(t, ErrOriginMissing, err)

	_, err = Parse("v=0\no=- 0 0 IN IP4 1.2.3.4\nc=IN IP4 1.2.3.4\nt=0 0\n")
	assert.Equal(t, ErrSessionNameMissing, err)

	_, err = Parse("v=0\no=- 0 0 IN IP4 1.2.3.4\ns=X\nc=IN IP4 1.2.3.4\n")
	assert.Equal(t, ErrTimeActiveMissing, err)
}

func TestParseLinePrefixInvalid(t *testing.T) {
	_, err := Parse(minimalSdp + "x=whatever\n")
	assert.Equal(t, &LinePrefixInvalidError{Line: "x=whatever"}, err)

	_, err = Parse(minimalSdp + "nonsense\n")
	assert.Equal(t, &LinePrefixInvalidError{Line: "nonsense"}, err)
}

func TestParseVersionUnknown(t *testing.T) {
	_, err := Parse("v=1\no=- 0 0 IN IP4 1.2.3.4\ns=X\nc=IN IP4 1.2.3.4\nt=0 0\n")
	assert.Equal(t, &VersionUnknownError{Version: "1"}, err)
}

func TestParseMediaAttachment(t *testing.T) {
	text := "v=0\n" +
		"o=- 1 2 IN IP4 1.2.3.4\n" +
		"s=session name\n" +
		"i=session info\n" +
		"c=IN IP4 1.2.3.4\n" +
		"b=AS:512\n" +
		"t=0 0\n" +
		"a=recvonly\n" +
		"m=video 5004 RTP/AVP 96\n" +
		"i=video title\n" +
		"b=AS:256\n" +
		"a=rtpmap:96 H264/90000\n" +
		"a=fmtp:96 packetization-mode=1\n" +
		"m=audio 5006 RTP/AVP 97\n" +
		"c=IN IP4 5.6.7.8\n"

	session, err := Parse(text)
	assert.NoError(t, err)

	assert.Equal(t, "session info", session.Description)
	assert.Equal(t, []Bandwidth{{Type: BandwidthTypeApplicationSpecific, Value: 512}}, session.Bandwidth)
	assert.Equal(t, []Attribute{Property("recvonly")}, session.Attributes)

	assert.Len(t, session.Media, 2)
	video := session.Media[0]
	assert.Equal(t, KindVideo, video.Kind)
	assert.EqualValues(t, 5004, video.Port)
	assert.Equal(t, ProtocolRtpAvp, video.Protocol)
	assert.Equal(t, 96, video.Format)
	assert.Equal(t, "video title", video.Title)
	assert.Equal(t, []Bandwidth{{Type: BandwidthTypeApplicationSpecific, Value: 256}}, video.Bandwidth)
	assert.Equal(t, "96 H264/90000", video.Attribute("rtpmap"))
	assert.Equal(t, "96 packetization-mode=1", video.Attribute("fmtp"))

	audio := session.Media[1]
	assert.Equal(t, KindAudio, audio.Kind)
	assert.Equal(t, "5.6.7.8", audio.Connection.Address)

	// The emitter preserves the canonical order on round trip.
	again, err := Parse(session.String())
	assert.NoError(t, err)
	assert.Equal(t, session, again)
}

func TestParseMediaErrors(t *testing.T) {
	_, err := Parse(minimalSdp + "m=video 0\n")
	assert.Equal(t, &MediaLineInvalidError{Line: "video 0"}, err)

	_, err = Parse(minimalSdp + "m=smell 0 RTP/AVP 96\n")
	assert.Equal(t, &KindUnknownError{Kind: "smell"}, err)

	_, err = Parse(minimalSdp + "m=video x RTP/AVP 96\n")
	assert.Equal(t, &MediaPortInvalidError{Line: "video x RTP/AVP 96"}, err)

	_, err = Parse(minimalSdp + "m=video 0 UDP/QUIC 96\n")
	assert.Equal(t, &ProtocolUnknownError{Protocol: "UDP/QUIC"}, err)

	_, err = Parse(minimalSdp + "m=video 0 RTP/AVP h264\n")
	assert.Equal(t, &MediaFormatInvalidError{Line: "video 0 RTP/AVP h264"}, err)
}

func TestParseBandwidthErrors(t *testing.T) {
	_, err := Parse(minimalSdp + "b=AS\n")
	assert.Equal(t, &BandwidthLineMalformedError{Line: "AS"}, err)

	_, err = Parse(minimalSdp + "b=XX:128\n")
	assert.Equal(t, &BandwidthTypeUnknownError{BandwidthType: "XX"}, err)

	_, err = Parse(minimalSdp + "b=AS:lots\n")
	assert.Equal(t, &BandwidthValueInvalidError{Bandwidth: "lots"}, err)
}

func TestParseCrLfLines(t *testing.T) {
	session, err := Parse("v=0\r\no=- 0 0 IN IP4 1.2.3.4\r\ns=X\r\nc=IN IP4 1.2.3.4\r\nt=0 0\r\n")
	assert.NoError(t, err)
	assert.Equal(t, "X", session.Name)
}
