// Package log wraps log/slog with a trace level, selectable output formats,
// and a process-wide default logger that the CLI configures from flags.
//
// Three formats are supported: json, text, and a colorized pretty variant of
// text intended for terminals. The pretty handler is selected automatically
// when the text format is combined with [WithPretty].
package log
