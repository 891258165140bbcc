package rtsp

import (
	"fmt"
	"strconv"
	"strings"
)

// Range header value, RFC 2326 Section 12.29. Only the npt unit is
// supported; effective-time suffixes (";time=...") are rejected.

// NptTime is one side of an npt range: either "now" or a position in
// seconds.
type NptTime struct {
	Now     bool
	Seconds float64
}

func NptNow() NptTime {
	return NptTime{Now: true}
}

func NptSeconds(seconds float64) NptTime {
	return NptTime{Seconds: seconds}
}

func (t NptTime) String() string {
	if t.Now {
		return "now"
	}
	return strconv.FormatFloat(t.Seconds, 'f', 3, 64)
}

func parseNptTime(s string) (NptTime, error) {
	if s == "now" {
		return NptNow(), nil
	}

	switch parts := strings.Split(s, ":"); len(parts) {
	case 1:
		seconds, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return NptTime{}, &RangeNptTimeMalformedError{Value: s}
		}
		return NptSeconds(seconds), nil
	case 3:
		hh, herr := strconv.ParseUint(parts[0], 10, 32)
		mm, merr := strconv.ParseUint(parts[1], 10, 32)
		ss, serr := strconv.ParseFloat(parts[2], 64)
		if herr != nil || merr != nil || serr != nil {
			return NptTime{}, &RangeNptTimeMalformedError{Value: s}
		}
		return NptSeconds(float64(hh)*3600 + float64(mm)*60 + ss), nil
	default:
		return NptTime{}, &RangeNptTimeMalformedError{Value: s}
	}
}

// Range is a parsed Range header value.
type Range struct {
	Start *NptTime
	End   *NptTime
}

// NewRange returns a bounded playback range.
func NewRange(start, end NptTime) *Range {
	return &Range{Start: &start, End: &end}
}

// NewRangeLive returns the open-ended range used for live streams.
func NewRangeLive() *Range {
	start := NptNow()
	return &Range{Start: &start}
}

func (r *Range) String() string {
	var b strings.Builder
	b.WriteString("npt=")
	if r.Start != nil {
		b.WriteString(r.Start.String())
	}
	b.WriteByte('-')
	if r.End != nil {
		b.WriteString(r.End.String())
	}
	return b.String()
}

// ParseRange parses a Range header value.
func ParseRange(s string) (*Range, error) {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		if strings.HasPrefix(s[i+1:], "time=") {
			return nil, &RangeTimeNotSupportedError{Value: s}
		}
		return nil, &RangeMalformedError{Value: s}
	}

	unit, value, ok := strings.Cut(s, "=")
	if !ok {
		return nil, &RangeMalformedError{Value: s}
	}
	if unit != "npt" {
		return nil, &RangeUnitNotSupportedError{Value: s}
	}

	startPart, endPart, ok := strings.Cut(value, "-")
	if !ok {
		return nil, &RangeMalformedError{Value: s}
	}

	r := new(Range)
	if startPart != "" {
		start, err := parseNptTime(startPart)
		if err != nil {
			return nil, err
		}
		r.Start = &start
	}
	if endPart != "" {
		end, err := parseNptTime(endPart)
		if err != nil {
			return nil, err
		}
		r.End = &end
	}
	return r, nil
}

// RtpInfo is one stream entry of the RTP-Info response header, RFC 2326
// Section 12.33.
type RtpInfo struct {
	Url     string
	Seq     *uint16
	Rtptime *uint32
}

func NewRtpInfo(url string) *RtpInfo {
	return &RtpInfo{Url: url}
}

func (i *RtpInfo) WithSeq(seq uint16) *RtpInfo {
	i.Seq = &seq
	return i
}

func (i *RtpInfo) WithRtptime(rtptime uint32) *RtpInfo {
	i.Rtptime = &rtptime
	return i
}

func (i *RtpInfo) String() string {
	var b strings.Builder
	b.WriteString("url=")
	b.WriteString(i.Url)
	if i.Seq != nil {
		fmt.Fprintf(&b, ";seq=%d", *i.Seq)
	}
	if i.Rtptime != nil {
		fmt.Fprintf(&b, ";rtptime=%d", *i.Rtptime)
	}
	return b.String()
}

// ParseRtpInfo parses one stream entry of an RTP-Info header. Only the
// seq and rtptime parameters are recognized, and at most two may follow
// the url; a repeated parameter replaces the earlier value.
func ParseRtpInfo(s string) (*RtpInfo, error) {
	parts := strings.Split(s, ";")

	url, ok := strings.CutPrefix(parts[0], "url=")
	if !ok {
		if parts[0] == "" {
			return nil, &RtpInfoUrlMissingError{Value: s}
		}
		return nil, &RtpInfoParameterUnknownError{Value: parts[0]}
	}
	info := NewRtpInfo(url)

	parameter := func(part string) error {
		if value, ok := strings.CutPrefix(part, "seq="); ok {
			seq, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return &RtpInfoParameterInvalidError{Value: part}
			}
			info.WithSeq(uint16(seq))
			return nil
		}
		if value, ok := strings.CutPrefix(part, "rtptime="); ok {
			rtptime, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return &RtpInfoParameterInvalidError{Value: part}
			}
			info.WithRtptime(uint32(rtptime))
			return nil
		}
		return &RtpInfoParameterUnknownError{Value: part}
	}

	switch len(parts) {
	case 1:
	case 2:
		if err := parameter(parts[1]); err != nil {
			return nil, err
		}
	case 3:
		if err := parameter(parts[1]); err != nil {
			return nil, err
		}
		if err := parameter(parts[2]); err != nil {
			return nil, err
		}
	default:
		return nil, &RtpInfoParameterUnexpectedError{Value: parts[3]}
	}

	return info, nil
}
