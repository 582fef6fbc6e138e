package tmpl

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values). Derived errors created with
// [Error.Wrap] and [Error.With] match their sentinel under [errors.Is].
var (
	// ErrParse reports malformed template source.
	ErrParse = NewError("parse error")

	// ErrTrimInvariant reports a template that reached the evaluator while
	// still containing trim markers. This is a construction bug, not a
	// user-facing failure: the public constructors make it unreachable.
	ErrTrimInvariant = NewError("template contains unresolved trim markers")

	// ErrNoField reports a key that no provider in the context chain
	// resolved.
	ErrNoField = NewError("no such field")

	// ErrTypeMismatch reports a field with the wrong shape, e.g. a list
	// where a string was required.
	ErrTypeMismatch = NewError("type mismatch")

	// ErrPartialLoad reports a named template that could not be retrieved
	// from the store.
	ErrPartialLoad = NewError("failed to load partial")

	// ErrContextFault reports a context provider whose own computation
	// failed, e.g. missing required metadata.
	ErrContextFault = NewError("context lookup failed")

	// ErrNotString reports a call argument that did not reduce to a string.
	ErrNotString = NewError("argument is not a string")

	// ErrNoTemplate reports a name the store has no template for.
	ErrNoTemplate = NewError("no such template")

	// ErrTemplateRead reports an I/O failure while reading a template.
	ErrTemplateRead = NewError("failed to read template")

	// ErrFrontMatter reports malformed metadata front matter.
	ErrFrontMatter = NewError("malformed front matter")

	// ErrExprCompile reports a computed field whose expression failed to
	// compile.
	ErrExprCompile = NewError("expression compilation failed")

	// ErrMaxDepth reports partial inclusion nested beyond the configured
	// limit.
	ErrMaxDepth = NewError("maximum inclusion depth exceeded")

	// ErrApplyTemplate frames a render failure of a template applied to a
	// distinct item.
	ErrApplyTemplate = NewError("failed to apply template to item")

	// ErrApplySelf frames a render failure of an item's own body used as
	// its template.
	ErrApplySelf = NewError("failed to interpolate item body")
)

// Error represents a rendering failure with an ordered breadcrumb trail and
// optional structured logging attributes. It implements both error and
// slog.LogValuer.
type Error struct {
	msg   string
	err   error       // wrapped error (for errors.Unwrap)
	attrs []slog.Attr // attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface by joining the breadcrumb trail,
// outermost first.
func (e *Error) Error() string {
	return strings.Join(e.Trail(), ": ")
}

// Trail returns the ordered list of messages carried by the error chain,
// outermost first. Callers presenting a failure (e.g. as a build error)
// should show the trail verbatim.
func (e *Error) Trail() []string {
	var trail []string

	for err := error(e); err != nil; {
		ee, ok := err.(*Error)
		if !ok {
			trail = append(trail, err.Error())

			break
		}

		if ee.msg != "" {
			trail = append(trail, ee.msg)
		}

		err = ee.err
	}

	return trail
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an [*Error] carrying the same message.
// This makes derived errors (via [Error.Wrap]/[Error.With]) match their
// sentinel under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error with the receiver's message wrapping another
// error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// crumb pushes a breadcrumb message in front of a failure's trail.
func crumb(msg string, err *Error) *Error {
	return &Error{msg: msg, err: err}
}

// typeMismatch builds an ErrTypeMismatch carrying the expected and actual
// field shapes.
func typeMismatch(expected, actual string) *Error {
	return ErrTypeMismatch.
		Wrap(errors.New("expected " + expected + ", got " + actual)).
		With(
			slog.String("expected", expected),
			slog.String("actual", actual),
		)
}

// parseError builds an ErrParse annotated with the offending line and a
// caret marking the column.
func parseError(origin, source string, offset int, msg string) *Error {
	line, col := position(source, offset)

	var buf strings.Builder

	buf.WriteString(msg)
	buf.WriteString(" at line ")
	buf.WriteString(strconv.Itoa(line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(col))

	lines := strings.Split(source, "\n")
	if line > 0 && line <= len(lines) {
		text := lines[line-1]

		buf.WriteString(":\n  ")
		buf.WriteString(strconv.Itoa(line))
		buf.WriteString(" | ")
		buf.WriteString(text)
		buf.WriteByte('\n')

		// 2 leading spaces + line number + " | "
		padding := strings.Repeat(" ", len(strconv.Itoa(line))+5)
		if col > 0 {
			padding += strings.Repeat(" ", col-1)
		}

		buf.WriteString(padding + "^")
	}

	return ErrParse.
		Wrap(errors.New(buf.String())).
		With(
			slog.String("origin", origin),
			slog.Int("line", line),
			slog.Int("column", col),
		)
}

// position converts a byte offset into a 1-based line and column.
func position(source string, offset int) (line, col int) {
	if offset > len(source) {
		offset = len(source)
	}

	line = 1 + strings.Count(source[:offset], "\n")

	if idx := strings.LastIndexByte(source[:offset], '\n'); idx >= 0 {
		col = offset - idx
	} else {
		col = offset + 1
	}

	return line, col
}
