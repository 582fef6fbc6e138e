package tmpl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestErrorTrailOutermostFirst(t *testing.T) {
	inner := NewError("inner")
	mid := crumb("mid", inner)
	outer := crumb("outer", mid)

	trail := outer.Trail()

	want := []string{"outer", "mid", "inner"}
	if len(trail) != len(want) {
		t.Fatalf("expected %d messages, got %v", len(want), trail)
	}

	for i, msg := range want {
		if trail[i] != msg {
			t.Errorf("trail[%d]: expected %q, got %q", i, msg, trail[i])
		}
	}
}

func TestErrorTrailIncludesForeignCause(t *testing.T) {
	err := ErrPartialLoad.Wrap(errors.New("disk on fire"))

	trail := err.Trail()
	if trail[len(trail)-1] != "disk on fire" {
		t.Errorf("expected foreign cause last, got %v", trail)
	}
}

func TestErrorMessageJoinsTrail(t *testing.T) {
	err := crumb("a", crumb("b", NewError("c")))

	if err.Error() != "a: b: c" {
		t.Errorf("expected 'a: b: c', got %q", err.Error())
	}
}

func TestErrorIsSentinel(t *testing.T) {
	derived := ErrNoField.
		Wrap(errors.New("no field named \"x\"")).
		With(slog.String("field", "x"))

	if !errors.Is(derived, ErrNoField) {
		t.Error("derived error should match its sentinel")
	}

	if errors.Is(derived, ErrTypeMismatch) {
		t.Error("derived error should not match a different sentinel")
	}
}

func TestErrorIsThroughWrapping(t *testing.T) {
	err := crumb("outer", ErrMaxDepth.With(slog.Int("depth", 9)))

	if !errors.Is(err, ErrMaxDepth) {
		t.Error("wrapped sentinel should match through the chain")
	}
}

func TestWrapError(t *testing.T) {
	plain := errors.New("plain")

	ee := WrapError(plain)
	if ee.Unwrap() != plain {
		t.Error("expected plain error to be wrapped")
	}

	already := NewError("typed")
	if WrapError(fmt.Errorf("ctx: %w", already)) != already {
		t.Error("expected existing *Error to be extracted")
	}
}

func TestErrorWithPreservesImmutability(t *testing.T) {
	base := NewError("base")

	derived := base.With(slog.String("k", "v"))
	if len(base.attrs) != 0 {
		t.Error("With must not mutate the receiver")
	}

	if len(derived.attrs) != 1 {
		t.Errorf("expected 1 attr, got %d", len(derived.attrs))
	}
}

func TestErrorLogValue(t *testing.T) {
	err := ErrNoField.
		Wrap(errors.New("cause")).
		With(slog.String("field", "x"))

	val := err.LogValue()
	if val.Kind() != slog.KindGroup {
		t.Fatalf("expected group value, got %v", val.Kind())
	}

	keys := map[string]bool{}
	for _, attr := range val.Group() {
		keys[attr.Key] = true
	}

	for _, want := range []string{"error", "cause", "field"} {
		if !keys[want] {
			t.Errorf("expected attr %q in log value", want)
		}
	}
}

func TestParseErrorSnippet(t *testing.T) {
	err := parseError("test.tmpl", "abc\ndef $", 8, "unclosed directive")

	msg := err.Error()

	if !strings.Contains(msg, "line 2, column 5") {
		t.Errorf("expected position in message, got %q", msg)
	}

	if !strings.Contains(msg, "2 | def $") {
		t.Errorf("expected source snippet in message, got %q", msg)
	}

	if !strings.Contains(msg, "^") {
		t.Errorf("expected caret in message, got %q", msg)
	}
}

func TestPosition(t *testing.T) {
	source := "ab\ncde\nf"

	cases := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
		{99, 3, 2}, // clamped to end of input
	}

	for _, tc := range cases {
		line, col := position(source, tc.offset)
		if line != tc.line || col != tc.col {
			t.Errorf("offset %d: expected %d:%d, got %d:%d",
				tc.offset, tc.line, tc.col, line, col)
		}
	}
}

func TestTypeMismatch(t *testing.T) {
	err := typeMismatch("string", "list")

	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}

	if !strings.Contains(err.Error(), "expected string, got list") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
