package rtp

import (
	"errors"
	"fmt"
)

// Errors are returned to the caller unchanged; nothing in this package
// aborts the process.

type NotEnoughDataError struct {
	Have int
	Need int
}

func (e *NotEnoughDataError) Error() string {
	return fmt.Sprintf("buffer too small: %d (need %d)", e.Have, e.Need)
}

type VersionUnknownError struct {
	Version int
}

func (e *VersionUnknownError) Error() string {
	return fmt.Sprintf("version number unknown: %d", e.Version)
}

type CsrcCountInvalidError struct {
	Count int
}

func (e *CsrcCountInvalidError) Error() string {
	return fmt.Sprintf("csrc count invalid (overflow): %d", e.Count)
}

type ExtensionLengthInvalidError struct {
	Length int
}

func (e *ExtensionLengthInvalidError) Error() string {
	return fmt.Sprintf("extension length invalid (overflow): %d", e.Length)
}

type PaddingLengthInvalidError struct {
	Divisor int
	Length  int
}

func (e *PaddingLengthInvalidError) Error() string {
	return fmt.Sprintf("padding divisor produces invalid padding length: %d (to pad %d)", e.Divisor, e.Length)
}

type PacketSizeExceedsMtuError struct {
	Size int
	Mtu  int
}

func (e *PacketSizeExceedsMtuError) Error() string {
	return fmt.Sprintf("packet size exceeds MTU: %d (MTU %d)", e.Size, e.Mtu)
}

type H264PacketizationModeUnknownError struct {
	Mode int
}

func (e *H264PacketizationModeUnknownError) Error() string {
	return fmt.Sprintf("h264 packetization mode unknown: %d", e.Mode)
}

type H264PacketizationModeUnsupportedError struct {
	Mode PacketizationMode
}

func (e *H264PacketizationModeUnsupportedError) Error() string {
	return fmt.Sprintf("h264 packetization mode not supported: %d", int(e.Mode))
}

type H264NalUnitLengthTooSmallError struct {
	Length int
}

func (e *H264NalUnitLengthTooSmallError) Error() string {
	return fmt.Sprintf("h264 nal unit too small: %d bytes", e.Length)
}

type H264AggregationUnitHeaderInvalidError struct {
	Have int
}

func (e *H264AggregationUnitHeaderInvalidError) Error() string {
	return fmt.Sprintf("h264 aggregation unit header invalid: %d bytes left", e.Have)
}

type H264AggregationUnitDataTooSmallError struct {
	Have int
	Need int
}

func (e *H264AggregationUnitDataTooSmallError) Error() string {
	return fmt.Sprintf("h264 aggregation unit data too small: %d (need %d)", e.Have, e.Need)
}

type H264DepacketizationNalTypeUnsupportedError struct {
	Type byte
}

func (e *H264DepacketizationNalTypeUnsupportedError) Error() string {
	return fmt.Sprintf("h264 nal unit type not supported: %d", e.Type)
}

type H264DepacketizationNalTypeUnknownError struct {
	Type byte
}

func (e *H264DepacketizationNalTypeUnknownError) Error() string {
	return fmt.Sprintf("h264 nal unit type unknown: %d", e.Type)
}

// Misuse of the FU-A reassembly state machine. These indicate a protocol
// error on the sender side, not a programmer bug here.
var (
	ErrH264FragmentedStateAlreadyStarted = errors.New("h264 fragmented: fragment already in progress")
	ErrH264FragmentedStateNeverStarted   = errors.New("h264 fragmented: no fragment in progress")
)
