package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func TestResolveYAML(t *testing.T) {
	r := strings.NewReader("log_level: debug\nlog-format: text\nmax_depth: 4\n")

	resolver, err := resolve(r)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	// Underscore keys match hyphenated flag names.
	v, err := resolver.Resolve(nil, nil, flagNamed("log-level"))
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}

	if v != "debug" {
		t.Errorf("expected 'debug', got %v", v)
	}

	// Hyphenated keys match directly.
	v, err = resolver.Resolve(nil, nil, flagNamed("log-format"))
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}

	if v != "text" {
		t.Errorf("expected 'text', got %v", v)
	}

	// Numbers are converted to strings for Kong.
	v, err = resolver.Resolve(nil, nil, flagNamed("max-depth"))
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}

	if v != "4" {
		t.Errorf("expected '4', got %v (%T)", v, v)
	}
}

func TestResolveYAMLMissingFlag(t *testing.T) {
	resolver, err := resolve(strings.NewReader("log_level: debug\n"))
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	v, err := resolver.Resolve(nil, nil, flagNamed("unknown"))
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}

	if v != nil {
		t.Errorf("expected nil for unknown flag, got %v", v)
	}
}

func TestResolveYAMLEmpty(t *testing.T) {
	resolver, err := resolve(strings.NewReader(""))
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	v, err := resolver.Resolve(nil, nil, flagNamed("log-level"))
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}

	if v != nil {
		t.Errorf("expected nil from empty config, got %v", v)
	}
}

func TestResolveYAMLMalformed(t *testing.T) {
	_, err := resolve(strings.NewReader("\t: {[not yaml"))
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
