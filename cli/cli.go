package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/stitchtext/stitch/cli/cmd"
	"github.com/stitchtext/stitch/cli/cmd/preview"
	"github.com/stitchtext/stitch/pkg"
)

// CLI is the top-level command-line interface for stitch.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Render  cmd.Render  `cmd:"" default:"withargs" help:"Render a template against a content item"`
	Inspect cmd.Inspect `cmd:"" help:"Parse a template and print its element tree"`
	Preview preview.Cmd `cmd:"" help:"Edit a template with a live rendered preview"`
}

// Run executes the stitch CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		"version": strings.TrimSpace(pkg.Version),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact: true,
				Summary: true,
			}),
		kong.Configuration(resolve, configPath(baseConfig)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx)
}
