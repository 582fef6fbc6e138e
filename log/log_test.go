package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"bogus":   DefaultLevel,
		"":        DefaultLevel,
		"WARNING": DefaultLevel, // only the slog spellings are recognized
	}

	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", input, want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"json":  FormatJSON,
		"text":  FormatText,
		"TEXT":  FormatText,
		"bogus": DefaultFormat,
		"":      DefaultFormat,
	}

	for input, want := range cases {
		if got := ParseFormat(input); got != want {
			t.Errorf("ParseFormat(%q): expected %v, got %v", input, want, got)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelTrace.String() != "trace" {
		t.Errorf("expected 'trace', got %q", LevelTrace.String())
	}
}

func TestLevelsAndFormats(t *testing.T) {
	var levels []string
	for name := range Levels() {
		levels = append(levels, name)
	}

	if len(levels) != 5 || levels[0] != "trace" {
		t.Errorf("unexpected level names %v", levels)
	}

	var formats []string
	for name := range Formats() {
		formats = append(formats, name)
	}

	if len(formats) != 2 {
		t.Errorf("unexpected format names %v", formats)
	}
}

func TestMakeJSONOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("hello", slog.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if record["msg"] != "hello" {
		t.Errorf("expected msg 'hello', got %v", record["msg"])
	}

	if record["k"] != "v" {
		t.Errorf("expected attr k=v, got %v", record["k"])
	}

	if record["level"] != "debug" {
		t.Errorf("expected level 'debug', got %v", record["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelWarn))

	logger.Info("suppressed")

	if buf.Len() != 0 {
		t.Errorf("expected info below warn to be suppressed, got %q", buf.String())
	}

	logger.Warn("emitted")

	if buf.Len() == 0 {
		t.Error("expected warn output")
	}
}

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace))

	logger.Trace("tracing", slog.Int("n", 1))

	if !strings.Contains(buf.String(), "trace") {
		t.Errorf("expected trace level in output, got %q", buf.String())
	}

	buf.Reset()

	info := Make(&buf, WithLevel(LevelInfo))

	info.Trace("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected trace below info to be suppressed, got %q", buf.String())
	}
}

func TestWrapOverridesConfig(t *testing.T) {
	var first, second bytes.Buffer

	logger := Make(&first, WithLevel(LevelInfo))
	wrapped := logger.Wrap(WithWriter(&second), WithLevel(LevelDebug))

	wrapped.Debug("to second")

	if first.Len() != 0 {
		t.Errorf("expected no output on original writer, got %q", first.String())
	}

	if second.Len() == 0 {
		t.Error("expected output on wrapped writer")
	}
}

func TestWithAttachesAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf).With(slog.String("component", "test"))

	logger.Info("msg")

	if !strings.Contains(buf.String(), `"component":"test"`) {
		t.Errorf("expected component attr, got %q", buf.String())
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText))

	logger.Info("plain text")

	out := buf.String()
	if !strings.Contains(out, "msg=") {
		t.Errorf("expected logfmt output, got %q", out)
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))

	logger.Info("colorful", slog.String("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "\033[") {
		t.Errorf("expected ANSI escapes in pretty output, got %q", out)
	}

	if !strings.Contains(out, "colorful") {
		t.Errorf("expected message in output, got %q", out)
	}

	if !strings.Contains(out, "k=") {
		t.Errorf("expected attr in output, got %q", out)
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(h.WithGroup("req"))

	logger.Info("grouped", slog.String("id", "42"))

	if !strings.Contains(buf.String(), "req.id=") {
		t.Errorf("expected dotted group prefix, got %q", buf.String())
	}
}

func TestTimeLayout(t *testing.T) {
	if layout("RFC3339NANO") != "2006-01-02T15:04:05.999999999Z07:00" {
		t.Errorf("unexpected layout %q", layout("RFC3339NANO"))
	}

	if layout("") != DefaultTimeLayout {
		t.Errorf("expected default layout for empty name")
	}

	custom := "15:04:05"
	if layout(custom) != custom {
		t.Errorf("expected custom layout passthrough, got %q", layout(custom))
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	var buf bytes.Buffer

	// Reconfigure the package default, then restore stderr output.
	Config(WithWriter(&buf), WithLevel(LevelDebug))
	t.Cleanup(func() {
		Config(WithWriter(os.Stderr), WithLevel(DefaultLevel))
	})

	Debug("via default")

	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("expected output via default logger, got %q", buf.String())
	}

	if Default().Level() != LevelDebug {
		t.Errorf("expected level debug, got %v", Default().Level())
	}
}
