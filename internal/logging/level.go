package logging

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Level is the logging verbosity. Higher values indicate more verbosity.
type Level int

const (
	Error Level = iota - 2
	Warn
	Info
	Debug

	// Allow numeric logging levels up to 9.
	MaxLevel Level = 9
)

func parseLevel(s string) (level Level, err error) {
	// First check for well-known level names or abbreviations.
	switch strings.ToUpper(s) {
	case "E", "ERROR":
		return Error, nil
	case "W", "WARN":
		return Warn, nil
	case "I", "INFO":
		return Info, nil
	case "D", "DEBUG":
		return Debug, nil
	case "T", "TRACE":
		return MaxLevel, nil
	}

	// Otherwise expect an explicit numeric level.
	if n, ierr := strconv.Atoi(s); ierr != nil {
		err = errors.New("invalid logging level: " + s)
	} else {
		level = Level(n)
		if level < Error || level > MaxLevel {
			err = errors.New("numeric level out of range: " + s)
		}
	}
	return
}

func (l Level) letter() byte {
	switch {
	case l <= Error:
		return 'E'
	case l == Warn:
		return 'W'
	case l == Info:
		return 'I'
	case l == Debug:
		return 'D'
	default:
		return byte('0' + l)
	}
}

func (l Level) color() *color.Color {
	switch {
	case l <= Error:
		return color.New(color.FgRed, color.Bold)
	case l == Warn:
		return color.New(color.FgYellow)
	case l == Info:
		return color.New(color.FgGreen)
	case l == Debug:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}
