package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/stitchtext/stitch/log"
	"github.com/stitchtext/stitch/tmpl"
)

// Inspect parses a template and prints its element tree.
type Inspect struct {
	Source string `arg:"" default:"-" help:"Template source file or '-' for stdin"`
}

// Run executes the inspect command.
func (c *Inspect) Run(ctx context.Context) error {
	data, name, err := readSource(c.Source)
	if err != nil {
		return err
	}

	t, err := tmpl.Parse(name, string(data))
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "inspect", slog.String("template", name))

	t.Print(os.Stdout)

	return nil
}
