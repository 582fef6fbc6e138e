package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger provides a concurrency-safe simplified logging interface.
type Logger struct {
	*slog.Logger

	cfg config
}

// Make creates a new [Logger] that writes to the specified writer.
// The default configuration is [DefaultFormat], [DefaultLevel], and
// [DefaultTimeLayout] with caller info disabled.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := makeConfig(w, opts...)

	return Logger{
		cfg:    cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// Wrap returns a new [Logger] using the receiver's configuration as the base
// with the provided options applied on top.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := apply(l.cfg, opts...)

	return Logger{
		cfg:    cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// With returns a new [Logger] that includes the given attributes in each log
// message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	return Logger{
		cfg:    l.cfg,
		Logger: slog.New(l.Logger.Handler().WithAttrs(attrs)),
	}
}

// Level returns the current minimum log level.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.cfg.level
}

// Trace logs a message at trace level.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.TraceContext(context.Background(), msg, attrs...)
}

// TraceContext logs a message at trace level with the given context.
func (l Logger) TraceContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	if l.Logger == nil {
		return
	}

	l.Logger.LogAttrs(ctx, slog.Level(LevelTrace), msg, attrs...)
}

// Package-level default logger, configured by [Config].
//
//nolint:gochecknoglobals
var (
	defaultMu     sync.RWMutex
	defaultLogger = Make(os.Stderr)
)

// Config reconfigures the package-level default logger.
func Config(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLogger = defaultLogger.Wrap(opts...)
}

// Default returns the package-level default logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLogger
}

// Trace logs a message at trace level using the default logger.
func Trace(msg string, args ...any) {
	Default().Logger.Log(context.Background(), slog.Level(LevelTrace), msg, args...)
}

// Debug logs a message at debug level using the default logger.
func Debug(msg string, args ...any) { Default().Logger.Debug(msg, args...) }

// Info logs a message at info level using the default logger.
func Info(msg string, args ...any) { Default().Logger.Info(msg, args...) }

// Warn logs a message at warn level using the default logger.
func Warn(msg string, args ...any) { Default().Logger.Warn(msg, args...) }

// Error logs a message at error level using the default logger.
func Error(msg string, args ...any) { Default().Logger.Error(msg, args...) }

// DebugContext logs a message at debug level with the given context using
// the default logger.
func DebugContext(ctx context.Context, msg string, args ...any) {
	Default().Logger.DebugContext(ctx, msg, args...)
}
