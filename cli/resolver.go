package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Flag names with hyphens (e.g., "log-level") may use underscores in the
// config file (e.g., "log_level"). Command-line flags override config file
// values.
//
// Example config file:
//
//	log_level: debug
//	log_format: text
//	log_pretty: true
func resolve(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}

	err := yaml.NewDecoder(r).Decode(&values)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Empty config file
			return config{}, nil
		}

		return nil, err
	}

	return config(values), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed, the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML keys may use
	// underscores. Try both forms.
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := r[name]; ok {
			return kongValue(value), nil
		}
	}

	// Not found, let Kong use defaults
	return nil, nil
}

// kongValue converts decoded YAML scalars to the string forms Kong expects.
func kongValue(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return value
	}
}
