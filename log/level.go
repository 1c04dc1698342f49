package log

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levelName = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the lower-case name of l. Levels between the named ones
// are printed as an offset from the nearest named level below, as slog does.
func (l Level) String() string {
	if s, ok := levelName[l]; ok {
		return s
	}

	if l < LevelDebug {
		return "trace" + strings.TrimPrefix(slog.Level(l-LevelTrace+LevelDebug).String(), "DEBUG")
	}

	return strings.ToLower(slog.Level(l).String())
}

// Levels returns the names of all defined log levels, most verbose first.
func Levels() []string {
	levels := []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.String()
	}

	return names
}

// ParseLevel parses a level name, case-insensitively, optionally followed by
// a "+" or "-" offset as accepted by [slog.Level.UnmarshalText]. Unknown
// names yield [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

var formatName = []string{
	FormatText: "text",
	FormatJSON: "json",
}

func (f Format) String() string {
	if int(f) < len(formatName) {
		return formatName[f]
	}

	return "format(" + strconv.Itoa(int(f)) + ")"
}

// Formats returns the names of all defined log formats.
func Formats() []string {
	return slices.Clone(formatName)
}

// ParseFormat parses a format name. Unknown names yield [DefaultFormat].
func ParseFormat(s string) Format {
	if i := slices.Index(formatName, strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return Format(i)
	}

	return DefaultFormat
}
