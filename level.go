package levelgate

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the maximum verbosity a package is allowed to log at.
// Higher values are more verbose.
type Level int8

const (
	// Off disables logging.
	Off Level = iota
	// Error keeps errors only.
	Error
	// Warn keeps warnings and errors.
	Warn
	// Info keeps informational messages and above.
	Info
	// Debug keeps debug messages and above.
	Debug
	// Trace keeps everything.
	Trace
)

// MostVerbose is the level used when no default filter is configured.
const MostVerbose = Trace

// ErrUnknownLevel is returned by ParseLevel for text that names no level.
var ErrUnknownLevel = errors.New("unknown level")

var levelNames = [...]string{
	Off:   "off",
	Error: "error",
	Warn:  "warn",
	Info:  "info",
	Debug: "debug",
	Trace: "trace",
}

// Levels returns every level from least to most verbose.
func Levels() []Level {
	return []Level{Off, Error, Warn, Info, Debug, Trace}
}

// ParseLevel converts a level name into a Level. Matching is case-insensitive
// but otherwise exact: surrounding whitespace is not accepted.
func ParseLevel(text string) (Level, error) {
	lower := strings.ToLower(text)
	for l, name := range levelNames {
		if lower == name {
			return Level(l), nil
		}
	}
	return Off, fmt.Errorf("%w %q", ErrUnknownLevel, text)
}

// Valid reports whether l is one of the declared levels.
func (l Level) Valid() bool {
	return l >= Off && l <= Trace
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int8(l))
	}
	return levelNames[l]
}

// GoName returns the exported identifier of l in this package, e.g. "Warn".
func (l Level) GoName() string {
	if !l.Valid() {
		return ""
	}
	name := levelNames[l]
	return strings.ToUpper(name[:1]) + name[1:]
}

// Enables reports whether a message at msg passes a package capped at l.
// Off never enables anything.
func (l Level) Enables(msg Level) bool {
	return msg != Off && msg <= l
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
