package log

import "io"

// Option applies a configuration option to config.
type Option func(config) config

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithWriter returns an option that sets the log output writer.
func WithWriter(w io.Writer) Option {
	return func(cfg config) config {
		cfg.w = w

		return cfg
	}
}

// WithLevel returns an option that sets the minimum log level.
func WithLevel(level Level) Option {
	return func(cfg config) config {
		cfg.level = level

		return cfg
	}
}

// WithFormat returns an option that sets the log output format.
func WithFormat(format Format) Option {
	return func(cfg config) config {
		cfg.format = format

		return cfg
	}
}

// WithTimeLayout returns an option that sets the timestamp layout.
// Named layouts from the time package (e.g., "RFC3339") are recognized.
func WithTimeLayout(name string) Option {
	return func(cfg config) config {
		cfg.timeLayout = name

		return cfg
	}
}

// WithCaller returns an option that toggles caller information.
func WithCaller(enable bool) Option {
	return func(cfg config) config {
		cfg.caller = enable

		return cfg
	}
}

// WithPretty returns an option that toggles colorized pretty printing of the
// text format. It has no effect on the json format.
func WithPretty(enable bool) Option {
	return func(cfg config) config {
		cfg.pretty = enable

		return cfg
	}
}
