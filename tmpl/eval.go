package tmpl

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/stitchtext/stitch/log"
)

// Engine renders templates against contexts and items. The zero engine has
// no store (partial inclusion fails) and no inclusion depth limit; see
// [NewEngine] and the With* options. An engine holds no mutable state and
// is safe for concurrent use.
type Engine[B any] struct {
	store    Store
	logger   log.Logger
	maxDepth int
}

// NewEngine constructs an engine with the given options.
func NewEngine[B any](opts ...Option[B]) *Engine[B] {
	e := &Engine[B]{logger: log.Default()}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option applies a configuration option to an [Engine].
type Option[B any] func(*Engine[B])

// WithStore returns an option that sets the template store consulted by
// $partial$ directives and [Engine.RenderNamed].
func WithStore[B any](s Store) Option[B] {
	return func(e *Engine[B]) { e.store = s }
}

// WithLogger returns an option that sets the logger used for non-fatal
// diagnostics (absorbed $if$ condition faults).
func WithLogger[B any](l log.Logger) Option[B] {
	return func(e *Engine[B]) { e.logger = l }
}

// WithMaxDepth returns an option that bounds partial inclusion nesting.
// Zero, the default, leaves recursion unbounded: a template that directly
// or transitively includes itself will then exhaust the stack, and
// preventing such cycles is the hosting pipeline's responsibility.
func WithMaxDepth[B any](n int) Option[B] {
	return func(e *Engine[B]) { e.maxDepth = n }
}

// Render renders a template against a context and item. Rendering is
// all-or-nothing: on any hard failure no partial output is returned, and
// the error carries the full breadcrumb trail for presentation.
func (e *Engine[B]) Render(
	t *Template,
	ctx Context[B],
	item Item[B],
) (string, error) {
	out, fault := e.render(t, ctx, item, 0)
	if fault == nil {
		return out, nil
	}

	// Two framings: an item interpolating its own body as a template, or
	// a template applied to a distinct item.
	if t.origin == item.ID {
		return "", ErrApplySelf.Wrap(fault).
			With(slog.String("item", item.ID))
	}

	return "", ErrApplyTemplate.Wrap(fault).
		With(
			slog.String("template", t.origin),
			slog.String("item", item.ID),
		)
}

// RenderNamed loads a template from the engine's store and renders it.
func (e *Engine[B]) RenderNamed(
	name string,
	ctx Context[B],
	item Item[B],
) (string, error) {
	if e.store == nil {
		return "", ErrPartialLoad.
			Wrap(errNoStore).
			With(slog.String("template", name))
	}

	t, err := e.store.Load(name)
	if err != nil {
		return "", ErrPartialLoad.Wrap(err).
			With(slog.String("template", name))
	}

	return e.Render(t, ctx, item)
}

// RenderSelf parses the item's own body as its template and renders it
// against the item itself.
func RenderSelf(
	e *Engine[string],
	ctx Context[string],
	item Item[string],
) (string, error) {
	t, err := Parse(item.ID, item.Body)
	if err != nil {
		return "", ErrApplySelf.Wrap(err).
			With(slog.String("item", item.ID))
	}

	return e.Render(t, ctx, item)
}

var errNoStore = NewError("no template store configured")

func (e *Engine[B]) render(
	t *Template,
	ctx Context[B],
	item Item[B],
	depth int,
) (string, *Error) {
	return e.renderElems(t.origin, t.elements, ctx, item, depth)
}

func (e *Engine[B]) renderElems(
	origin string,
	elems []Element,
	ctx Context[B],
	item Item[B],
	depth int,
) (string, *Error) {
	var sb strings.Builder

	for i := range elems {
		s, fault := e.renderElem(origin, &elems[i], ctx, item, depth)
		if fault != nil {
			return "", fault
		}

		sb.WriteString(s)
	}

	return sb.String(), nil
}

func (e *Engine[B]) renderElem(
	origin string,
	el *Element,
	ctx Context[B],
	item Item[B],
	depth int,
) (string, *Error) {
	switch el.Kind {
	case ElemChunk:
		return el.Text, nil

	case ElemEscaped:
		return "$", nil

	case ElemExpr:
		return e.renderExpr(el, ctx, item)

	case ElemIf:
		return e.renderIf(origin, el, ctx, item, depth)

	case ElemFor:
		return e.renderFor(origin, el, ctx, item, depth)

	case ElemPartial:
		return e.renderPartial(el, ctx, item, depth)

	default:
		// ElemTrimL/ElemTrimR: the normalization pass runs exactly once,
		// at construction; a surviving marker means the template bypassed
		// the public constructor.
		return "", ErrTrimInvariant.With(
			slog.String("origin", origin),
			slog.String("marker", el.Kind.String()),
		)
	}
}

func (e *Engine[B]) renderExpr(
	el *Element,
	ctx Context[B],
	item Item[B],
) (string, *Error) {
	o := e.eval(el.Expr, ctx, item)

	switch {
	case o.IsFault():
		return "", crumb(inExpr(el.Expr), o.Err())

	case o.IsAbsent():
		return "", crumb(inExpr(el.Expr), noField(el.Expr.Key, ctx))
	}

	f := o.Value()
	if f.Kind != FieldString {
		return "", crumb(inExpr(el.Expr),
			typeMismatch("string", f.Kind.String()))
	}

	return f.Str, nil
}

// renderIf branches on the presence of the condition field. Any successful
// resolution selects the then-branch regardless of the field's value: an
// empty-string field is still "true". Hard faults are absorbed with a
// debug note and select the else-branch, exactly like genuine absence.
func (e *Engine[B]) renderIf(
	origin string,
	el *Element,
	ctx Context[B],
	item Item[B],
	depth int,
) (string, *Error) {
	o := e.eval(el.Expr, ctx, item)

	if o.IsFault() && e.logger.Logger != nil {
		e.logger.Debug("condition lookup failed",
			slog.String("template", origin),
			slog.String("condition", el.Expr.String()),
			slog.Any("error", o.Err()),
		)
	}

	if o.IsFound() {
		return e.renderElems(origin, el.Body, ctx, item, depth)
	}

	if el.Alt == nil {
		return "", nil
	}

	return e.renderElems(origin, el.Alt, ctx, item, depth)
}

func (e *Engine[B]) renderFor(
	origin string,
	el *Element,
	ctx Context[B],
	item Item[B],
	depth int,
) (string, *Error) {
	o := e.eval(el.Expr, ctx, item)

	switch {
	case o.IsFault():
		return "", crumb(inLoop(el.Expr), o.Err())

	case o.IsAbsent():
		return "", crumb(inLoop(el.Expr), noField(el.Expr.Key, ctx))
	}

	f := o.Value()

	var parts []string

	switch f.Kind {
	case FieldList:
		// Members render under the sub-context alone, replacing the
		// enclosing context.
		for _, member := range f.Items {
			s, fault := e.renderElems(origin, el.Body, f.Sub, member, depth)
			if fault != nil {
				return "", crumb(inLoop(el.Expr), fault)
			}

			parts = append(parts, s)
		}

	case FieldLexical:
		// Members render under build(value) chained in front of the
		// enclosing context, against the original item.
		for _, value := range f.Values {
			s, fault := e.renderElems(origin, el.Body,
				Chain(f.Build(value), ctx), item, depth)
			if fault != nil {
				return "", crumb(inLoop(el.Expr), fault)
			}

			parts = append(parts, s)
		}

	default:
		return "", crumb(inLoop(el.Expr),
			typeMismatch("list", f.Kind.String()))
	}

	// The separator renders exactly once, against the enclosing context
	// and item.
	sep := ""

	if el.Alt != nil {
		s, fault := e.renderElems(origin, el.Alt, ctx, item, depth)
		if fault != nil {
			return "", crumb(inLoop(el.Expr), fault)
		}

		sep = s
	}

	return strings.Join(parts, sep), nil
}

func (e *Engine[B]) renderPartial(
	el *Element,
	ctx Context[B],
	item Item[B],
	depth int,
) (string, *Error) {
	o := e.eval(el.Expr, ctx, item)

	switch {
	case o.IsFault():
		return "", crumb(inPartial(el.Expr), o.Err())

	case o.IsAbsent():
		return "", crumb(inPartial(el.Expr), noField(el.Expr.Key, ctx))
	}

	f := o.Value()
	if f.Kind != FieldString {
		return "", crumb(inPartial(el.Expr),
			typeMismatch("string", f.Kind.String()))
	}

	if e.store == nil {
		return "", crumb(inPartial(el.Expr),
			ErrPartialLoad.Wrap(errNoStore).
				With(slog.String("template", f.Str)))
	}

	if e.maxDepth > 0 && depth+1 > e.maxDepth {
		return "", crumb(inPartial(el.Expr),
			ErrMaxDepth.With(
				slog.Int("depth", depth+1),
				slog.Int("max_depth", e.maxDepth),
			))
	}

	sub, err := e.store.Load(f.Str)
	if err != nil {
		return "", crumb(inPartial(el.Expr),
			ErrPartialLoad.Wrap(err).
				With(slog.String("template", f.Str)))
	}

	// The included template sees the same context and item as the
	// including one.
	s, fault := e.render(sub, ctx, item, depth+1)
	if fault != nil {
		return "", crumb(inPartial(el.Expr), fault)
	}

	return s, nil
}

// eval evaluates a template expression to an outcome. Call arguments are
// evaluated left to right and must each reduce to a string before the call
// is resolved.
func (e *Engine[B]) eval(
	x Expr,
	ctx Context[B],
	item Item[B],
) Outcome[Field[B]] {
	switch x.Kind {
	case ExprString:
		return Found(StringField[B](x.Text))

	case ExprIdent:
		return ctx.Resolve(x.Key, nil, item)

	case ExprCall:
		args := make([]string, 0, len(x.Args))

		for i := range x.Args {
			o := e.eval(x.Args[i], ctx, item)

			switch {
			case o.IsFault():
				return Fail[Field[B]](crumb(inArg(i, x), o.Err()))

			case o.IsAbsent():
				return Fail[Field[B]](crumb(inArg(i, x),
					noField(x.Args[i].Key, ctx)))
			}

			f := o.Value()
			if f.Kind != FieldString {
				return Fail[Field[B]](crumb(inArg(i, x),
					ErrNotString.Wrap(
						typeMismatch("string", f.Kind.String()))))
			}

			args = append(args, f.Str)
		}

		return ctx.Resolve(x.Key, args, item)

	default:
		return Fail[Field[B]](NewError("unknown expression kind"))
	}
}

// Breadcrumb labels name the enclosing construct by its source text.

func inExpr(x Expr) string {
	return "in expr '$" + x.String() + "$'"
}

func inLoop(x Expr) string {
	return "in loop context of '$for(" + x.String() + ")$'"
}

func inPartial(x Expr) string {
	return "in inclusion of '$partial(" + x.String() + ")$'"
}

func inArg(i int, x Expr) string {
	return "in argument #" + strconv.Itoa(i+1) + " of '$" + x.String() + "$'"
}
