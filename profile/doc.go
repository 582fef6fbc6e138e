// Package profile wraps github.com/pkg/profile behind a small functional
// configuration so the CLI can start and stop profiling from flags.
package profile
