// Package cli contains the command line interface for stitch.
//
// # Usage
//
// The CLI renders dollar-sign templates against content items:
//
//	stitch render page.tmpl --item post.md --templates ./layouts
//
// Content items may carry YAML front matter between "---" fences; its keys
// become template fields alongside the built-in $body$ and $id$ fields.
// Additional fields can be supplied on the command line, either as fixed
// strings (--meta key=value) or as computed expressions (--expr
// key=expression) evaluated per lookup.
//
// Logging and profiling are configured globally:
//
//	stitch --log-level=debug --log-format=text render ...
//	stitch --pprof-mode=cpu render ...
//
// Flags may also be set in a YAML config file in the user's config
// directory, with hyphens replaced by underscores (log_level: debug).
// Command-line flags override config file values.
package cli
