package log

import (
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return slog.Level(l).String()
	}
}

// Levels returns an iterator over the names of all defined log levels.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, level := range []Level{
			LevelTrace,
			LevelDebug,
			LevelInfo,
			LevelWarn,
			LevelError,
		} {
			if !yield(level.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a string representation of a log level.
// Valid level strings are "trace", "debug", "info", "warn", and "error"
// (case-insensitive). Unrecognized strings yield [DefaultLevel].
func ParseLevel(s string) Level {
	// slog.Level.UnmarshalText doesn't recognize "trace"
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	l := new(slog.Level)

	err := l.UnmarshalText([]byte(s))
	if err != nil {
		return DefaultLevel
	}

	return Level(*l)
}

// Format represents the output format of log messages.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

// DefaultFormat is the default log output format.
const DefaultFormat = FormatJSON

// String returns the lowercase name of the format.
func (f Format) String() string {
	if f == FormatText {
		return "text"
	}

	return "json"
}

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, format := range []Format{FormatJSON, FormatText} {
			if !yield(format.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a string representation of a log format.
// Unrecognized strings yield [DefaultFormat].
func ParseFormat(s string) Format {
	if strings.EqualFold(s, FormatText.String()) {
		return FormatText
	}

	return DefaultFormat
}

// DefaultTimeLayout is the default layout for log record timestamps.
const DefaultTimeLayout = time.RFC3339

// config holds the complete configuration of a [Logger].
type config struct {
	w          io.Writer
	level      Level
	format     Format
	timeLayout string
	caller     bool
	pretty     bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	cfg := config{
		w:          w,
		level:      DefaultLevel,
		format:     DefaultFormat,
		timeLayout: DefaultTimeLayout,
	}

	return apply(cfg, opts...)
}

// layout resolves named time layouts from the time package so users can
// write "RFC3339" instead of the literal layout string.
func layout(name string) string {
	switch strings.ToUpper(name) {
	case "RFC3339":
		return time.RFC3339
	case "RFC3339NANO":
		return time.RFC3339Nano
	case "RFC1123":
		return time.RFC1123
	case "KITCHEN":
		return time.Kitchen
	case "STAMP":
		return time.Stamp
	case "":
		return DefaultTimeLayout
	default:
		return name
	}
}

// handler constructs the slog.Handler described by the configuration.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     slog.Level(c.level),
		AddSource: c.caller,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				if t := a.Value.Time(); !t.IsZero() {
					a.Value = slog.StringValue(t.Format(layout(c.timeLayout)))
				}
			case slog.LevelKey:
				if lv, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(Level(lv).String())
				}
			}

			return a
		},
	}

	if c.format == FormatText {
		if c.pretty {
			return newPrettyHandler(c.w, opts)
		}

		return slog.NewTextHandler(c.w, opts)
	}

	return slog.NewJSONHandler(c.w, opts)
}
