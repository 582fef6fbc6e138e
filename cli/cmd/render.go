package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stitchtext/stitch/log"
	"github.com/stitchtext/stitch/tmpl"
)

// Render renders a named template against a content item.
type Render struct {
	Template string `arg:"" optional:"" help:"Template name, resolved in the templates directory"`

	Item      string            `default:"-" help:"Content item file or '-' for stdin"            short:"i"`
	Templates string            `default:"." help:"Directory searched for templates and partials" short:"t" type:"existingdir"`
	Output    string            `default:"-" help:"Output file or '-' for stdout"                 short:"o"`
	Meta      map[string]string `help:"Additional string fields (key=value)"                      short:"m"`
	Expr      map[string]string `help:"Computed fields (key=expression)"                          short:"e"`
	Self      bool              `help:"Render the item's own body as its template"`
	MaxDepth  int               `default:"0" help:"Maximum partial nesting depth (0 = unbounded)"`
}

var errNoTemplateArg = errors.New("template argument or --self required")

// Run executes the render command.
func (r *Render) Run(ctx context.Context) error {
	if r.Template == "" && !r.Self {
		return errNoTemplateArg
	}

	item, meta, err := LoadItem(r.Item)
	if err != nil {
		return err
	}

	lookup, err := BuildContext(meta, r.Meta, r.Expr)
	if err != nil {
		return err
	}

	engine := tmpl.NewEngine(
		tmpl.WithStore[string](tmpl.NewDirStore(r.Templates)),
		tmpl.WithLogger[string](log.Default()),
		tmpl.WithMaxDepth[string](r.MaxDepth),
	)

	log.DebugContext(ctx, "render",
		slog.String("template", r.Template),
		slog.String("item", item.ID),
		slog.Bool("self", r.Self),
	)

	var out string

	if r.Self {
		out, err = tmpl.RenderSelf(engine, lookup, item)
	} else {
		out, err = engine.RenderNamed(r.Template, lookup, item)
	}

	if err != nil {
		return err
	}

	return writeOutput(r.Output, out)
}
