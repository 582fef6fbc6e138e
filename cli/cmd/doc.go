// Package cmd implements the subcommands of the stitch CLI.
package cmd
