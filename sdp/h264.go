package sdp

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// H.264 codec parameter binding, RFC 6184 Section 8.1.

// CodecParameters produce the media attributes that bind a codec to a
// dynamic payload type.
type CodecParameters interface {
	MediaAttributes(payloadType byte) []Attribute
}

// H264CodecParameters holds the stream metadata advertised for an H.264
// media item: the sequence parameter set, picture parameter sets, and
// the packetization mode used by the sender.
type H264CodecParameters struct {
	SPS               []byte
	PPS               [][]byte
	PacketizationMode int
}

// MediaAttributes returns the rtpmap and fmtp attributes for the given
// payload type.
func (p *H264CodecParameters) MediaAttributes(payloadType byte) []Attribute {
	return []Attribute{
		Value("rtpmap", fmt.Sprintf("%d H264/90000", payloadType)),
		p.fmtp(payloadType),
	}
}

// fmtp carries the packetization mode, the profile level ID (SPS bytes
// 1..4 as six hex characters), and the unpadded-Base64 parameter sets.
func (p *H264CodecParameters) fmtp(payloadType byte) Attribute {
	profileLevelId := fmt.Sprintf("%02x%02x%02x", p.SPS[1], p.SPS[2], p.SPS[3])

	parameterSets := make([]string, 0, 1+len(p.PPS))
	parameterSets = append(parameterSets, base64Encode(p.SPS))
	for _, pps := range p.PPS {
		parameterSets = append(parameterSets, base64Encode(pps))
	}

	return Value("fmtp", fmt.Sprintf(
		"%d packetization-mode=%d; profile-level-id=%s; sprop-parameter-sets=%s",
		payloadType, p.PacketizationMode, profileLevelId, strings.Join(parameterSets, ","),
	))
}

func base64Encode(b []byte) string {
	return base64.RawStdEncoding.EncodeToString(b)
}

// ParseH264FormatParameters reads the parameter list of an fmtp
// attribute value (the part after the payload type) back into codec
// parameters. Unrecognized parameters are ignored.
func ParseH264FormatParameters(format string) (*H264CodecParameters, error) {
	p := new(H264CodecParameters)
	for _, param := range strings.Split(format, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok {
			continue
		}
		switch name {
		case "packetization-mode":
			mode, err := strconv.Atoi(value)
			if err != nil || mode < 0 || mode > 2 {
				return nil, fmt.Errorf("malformed packetization-mode: %q", value)
			}
			p.PacketizationMode = mode
		case "sprop-parameter-sets":
			for i, encoded := range strings.Split(value, ",") {
				ps, err := base64DecodeLenient(encoded)
				if err != nil {
					return nil, fmt.Errorf("malformed sprop-parameter-sets: %q", value)
				}
				if i == 0 {
					p.SPS = ps
				} else {
					p.PPS = append(p.PPS, ps)
				}
			}
		}
	}
	return p, nil
}

func base64DecodeLenient(s string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
