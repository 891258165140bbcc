package sdp

import (
	"strings"
)

// Parse reads a session description. Every line is "X=VALUE"; once the
// first m= line appears, subsequent i=, c=, b= and a= lines attach to
// the current media item rather than the session.
func Parse(text string) (*Session, error) {
	session := new(Session)

	var (
		haveVersion bool
		haveOrigin  bool
		haveName    bool
		media       *Media  // current media item, nil at session level
		repeat      *Repeat // most recent r= line, target for z=
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if len(line) < 2 || line[1] != '=' {
			return nil, &LinePrefixInvalidError{Line: line}
		}
		value := line[2:]

		switch line[0] {
		case 'v':
			if value != "0" {
				return nil, &VersionUnknownError{Version: value}
			}
			session.Version = 0
			haveVersion = true
		case 'o':
			origin, err := parseOrigin(value)
			if err != nil {
				return nil, err
			}
			session.Origin = origin
			haveOrigin = true
		case 's':
			session.Name = value
			haveName = true
		case 'i':
			if media != nil {
				media.Title = value
			} else {
				session.Description = value
			}
		case 'u':
			session.URI = value
		case 'e':
			session.Email = value
		case 'p':
			session.Phone = value
		case 'c':
			connection, err := parseConnection(value)
			if err != nil {
				return nil, err
			}
			if media != nil {
				media.Connection = &connection
			} else {
				session.Connection = &connection
			}
		case 'b':
			bandwidth, err := parseBandwidth(value)
			if err != nil {
				return nil, err
			}
			if media != nil {
				media.Bandwidth = append(media.Bandwidth, bandwidth)
			} else {
				session.Bandwidth = append(session.Bandwidth, bandwidth)
			}
		case 't':
			timeActive, err := parseTimeActive(value)
			if err != nil {
				return nil, err
			}
			session.TimeActive = append(session.TimeActive, timeActive)
		case 'r':
			r, err := parseRepeat(value)
			if err != nil {
				return nil, err
			}
			session.Repeats = append(session.Repeats, r)
			repeat = &session.Repeats[len(session.Repeats)-1]
		case 'z':
			if repeat == nil {
				return nil, ErrTimezoneAdjustmentsWithoutRepeatTimes
			}
			adjustments, err := parseAdjustments(value)
			if err != nil {
				return nil, err
			}
			repeat.Adjustments = adjustments
		case 'a':
			attribute := parseAttribute(value)
			if media != nil {
				media.Attributes = append(media.Attributes, attribute)
			} else {
				session.Attributes = append(session.Attributes, attribute)
			}
		case 'm':
			m, err := parseMediaLine(value)
			if err != nil {
				return nil, err
			}
			session.Media = append(session.Media, m)
			media = &session.Media[len(session.Media)-1]
		default:
			return nil, &LinePrefixInvalidError{Line: line}
		}
	}

	if !haveVersion {
		return nil, ErrVersionMissing
	}
	if !haveOrigin {
		return nil, ErrOriginMissing
	}
	if !haveName {
		return nil, ErrSessionNameMissing
	}
	if len(session.TimeActive) == 0 {
		return nil, ErrTimeActiveMissing
	}
	if session.Connection == nil {
		for i := range session.Media {
			if session.Media[i].Connection == nil {
				return nil, ErrConnectionMissing
			}
		}
		if len(session.Media) == 0 {
			return nil, ErrConnectionMissing
		}
	}

	return session, nil
}
