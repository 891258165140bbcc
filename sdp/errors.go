package sdp

import (
	"errors"
	"fmt"
)

type AddressTypeUnknownError struct {
	AddressType string
}

func (e *AddressTypeUnknownError) Error() string {
	return fmt.Sprintf("address type unknown: %s", e.AddressType)
}

type BandwidthLineMalformedError struct {
	Line string
}

func (e *BandwidthLineMalformedError) Error() string {
	return fmt.Sprintf("bandwidth line malformed (must be in format <bwtype>:<bandwidth>): %s", e.Line)
}

type BandwidthTypeUnknownError struct {
	BandwidthType string
}

func (e *BandwidthTypeUnknownError) Error() string {
	return fmt.Sprintf("bandwidth type unknown: %s", e.BandwidthType)
}

type BandwidthValueInvalidError struct {
	Bandwidth string
}

func (e *BandwidthValueInvalidError) Error() string {
	return fmt.Sprintf("bandwidth value not a valid integer: %s", e.Bandwidth)
}

type ConnectionLineInvalidError struct {
	Line string
}

func (e *ConnectionLineInvalidError) Error() string {
	return fmt.Sprintf("connection line is invalid: %s", e.Line)
}

// ErrConnectionMissing is returned by validation when neither the
// session nor every media item carries a connection.
var ErrConnectionMissing = errors.New("sdp: connection missing in session or one or more media items")

type DirectionUnknownError struct {
	Direction string
}

func (e *DirectionUnknownError) Error() string {
	return fmt.Sprintf("direction unknown: %s", e.Direction)
}

type KindUnknownError struct {
	Kind string
}

func (e *KindUnknownError) Error() string {
	return fmt.Sprintf("media kind unknown: %s", e.Kind)
}

type LinePrefixInvalidError struct {
	Line string
}

func (e *LinePrefixInvalidError) Error() string {
	return fmt.Sprintf("line does not start with a valid prefix: %s", e.Line)
}

type MediaFormatInvalidError struct {
	Line string
}

func (e *MediaFormatInvalidError) Error() string {
	return fmt.Sprintf("media item has format identifier that is invalid (not an integer): %s", e.Line)
}

type MediaLineInvalidError struct {
	Line string
}

func (e *MediaLineInvalidError) Error() string {
	return fmt.Sprintf("media line is invalid: %s", e.Line)
}

type MediaPortInvalidError struct {
	Line string
}

func (e *MediaPortInvalidError) Error() string {
	return fmt.Sprintf("media item has port that is invalid (not an integer): %s", e.Line)
}

type NetworkTypeUnknownError struct {
	NetworkType string
}

func (e *NetworkTypeUnknownError) Error() string {
	return fmt.Sprintf("network type unknown: %s", e.NetworkType)
}

type OriginLineInvalidError struct {
	Line string
}

func (e *OriginLineInvalidError) Error() string {
	return fmt.Sprintf("origin line is invalid: %s", e.Line)
}

var ErrOriginMissing = errors.New("sdp: origin missing")

type OriginUnicastAddressInvalidError struct {
	UnicastAddress string
}

func (e *OriginUnicastAddressInvalidError) Error() string {
	return fmt.Sprintf("origin specifies invalid unicast address: %s", e.UnicastAddress)
}

type ProtocolUnknownError struct {
	Protocol string
}

func (e *ProtocolUnknownError) Error() string {
	return fmt.Sprintf("protocol unknown: %s", e.Protocol)
}

type RepeatTimesLineMalformedError struct {
	Line string
}

func (e *RepeatTimesLineMalformedError) Error() string {
	return fmt.Sprintf("repeat times line malformed: %s", e.Line)
}

var ErrSessionNameMissing = errors.New("sdp: session name missing")

type TimeInvalidError struct {
	Time string
}

func (e *TimeInvalidError) Error() string {
	return fmt.Sprintf("time not a valid integer: %s", e.Time)
}

type TimeMalformedError struct {
	Time string
}

func (e *TimeMalformedError) Error() string {
	return fmt.Sprintf("time field malformed: %s", e.Time)
}

type TimeZoneAdjustmentsLineMalformedError struct {
	Line string
}

func (e *TimeZoneAdjustmentsLineMalformedError) Error() string {
	return fmt.Sprintf("timezone adjustment line malformed: %s", e.Line)
}

// ErrTimezoneAdjustmentsWithoutRepeatTimes is returned when a z= line
// appears without a preceding r= line.
var ErrTimezoneAdjustmentsWithoutRepeatTimes = errors.New("sdp: encountered timezone adjustments without repeat times (z= must follow r=)")

type TimeZoneAdjustmentTimeInvalidError struct {
	Time string
}

func (e *TimeZoneAdjustmentTimeInvalidError) Error() string {
	return fmt.Sprintf("timezone adjustment time not a valid integer: %s", e.Time)
}

var (
	ErrTimeActiveMissing = errors.New("sdp: timing missing")
	ErrVersionMissing    = errors.New("sdp: version missing")

	// ErrTooManyMediaItems is returned by the builder when the dynamic
	// payload type range [96, 127] is exhausted.
	ErrTooManyMediaItems = errors.New("sdp: too many media items (ran out of dynamic payload assignments)")
)

type VersionUnknownError struct {
	Version string
}

func (e *VersionUnknownError) Error() string {
	return fmt.Sprintf("version unknown: %s", e.Version)
}
