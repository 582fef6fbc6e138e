package tmpl

import (
	"strconv"
	"strings"
)

// ExprKind indicates the kind of a template expression.
type ExprKind int

const (
	// ExprIdent is a field reference looked up in the context.
	ExprIdent ExprKind = iota

	// ExprCall is a field reference with an argument list. Arguments are
	// themselves expressions and must reduce to strings before the call
	// is resolved.
	ExprCall

	// ExprString is a string literal that never consults the context.
	ExprString
)

// Expr is an expression embedded in a template directive.
// Exactly the fields relevant to Kind are set.
type Expr struct {
	Kind ExprKind
	Key  string // ExprIdent, ExprCall
	Args []Expr // ExprCall
	Text string // ExprString
}

// Ident returns a field-reference expression.
func Ident(key string) Expr { return Expr{Kind: ExprIdent, Key: key} }

// Call returns a field-reference expression with arguments.
func Call(key string, args ...Expr) Expr {
	return Expr{Kind: ExprCall, Key: key, Args: args}
}

// Lit returns a string-literal expression.
func Lit(text string) Expr { return Expr{Kind: ExprString, Text: text} }

// String reconstructs the source text of the expression. It is used to name
// expressions in diagnostic breadcrumbs.
func (x Expr) String() string {
	switch x.Kind {
	case ExprCall:
		var sb strings.Builder

		sb.WriteString(x.Key)
		sb.WriteByte('(')

		for i, arg := range x.Args {
			if i > 0 {
				sb.WriteByte(',')
			}

			sb.WriteString(arg.String())
		}

		sb.WriteByte(')')

		return sb.String()

	case ExprString:
		return strconv.Quote(x.Text)

	default:
		return x.Key
	}
}

// ElemKind indicates the kind of a template element.
type ElemKind int

const (
	// ElemChunk is literal output text.
	ElemChunk ElemKind = iota

	// ElemEscaped is the literal "$" produced by the "$$" directive.
	ElemEscaped

	// ElemExpr is a single interpolation.
	ElemExpr

	// ElemIf branches on the presence of its condition field. Body holds
	// the then-branch; Alt holds the else-branch (nil when absent).
	ElemIf

	// ElemFor iterates over a list field. Body holds the loop body; Alt
	// holds the separator (nil when absent).
	ElemFor

	// ElemPartial splices in the template named by its expression.
	ElemPartial

	// ElemTrimL and ElemTrimR are whitespace-control markers. They are
	// valid only before normalization and must never reach the evaluator.
	ElemTrimL
	ElemTrimR
)

// String returns the directive-style name of the element kind.
func (k ElemKind) String() string {
	switch k {
	case ElemChunk:
		return "chunk"
	case ElemEscaped:
		return "escaped"
	case ElemExpr:
		return "expr"
	case ElemIf:
		return "if"
	case ElemFor:
		return "for"
	case ElemPartial:
		return "partial"
	case ElemTrimL:
		return "trim-left"
	case ElemTrimR:
		return "trim-right"
	default:
		return "unknown"
	}
}

// Element is a single node of a template.
// Exactly the fields relevant to Kind are set.
type Element struct {
	Kind ElemKind
	Text string    // ElemChunk
	Expr Expr      // ElemExpr, ElemIf, ElemFor, ElemPartial
	Body []Element // ElemIf then-branch, ElemFor loop body
	Alt  []Element // ElemIf else-branch, ElemFor separator (nil = absent)
}

// Chunk returns a literal-text element.
func Chunk(text string) Element { return Element{Kind: ElemChunk, Text: text} }

// Escaped returns a literal "$" element.
func Escaped() Element { return Element{Kind: ElemEscaped} }

// Interp returns an interpolation element for the given expression.
func Interp(x Expr) Element { return Element{Kind: ElemExpr, Expr: x} }

// If returns a conditional element. Pass a nil elseBody when the template
// has no $else$ branch.
func If(cond Expr, thenBody, elseBody []Element) Element {
	return Element{Kind: ElemIf, Expr: cond, Body: thenBody, Alt: elseBody}
}

// For returns a loop element. Pass a nil sep when the template has no $sep$
// section.
func For(source Expr, body, sep []Element) Element {
	return Element{Kind: ElemFor, Expr: source, Body: body, Alt: sep}
}

// Partial returns an inclusion element for the given name expression.
func Partial(name Expr) Element { return Element{Kind: ElemPartial, Expr: name} }

// Template is an immutable, normalized sequence of elements plus an origin
// label used in diagnostics. The only way to obtain one is [New] or [Parse],
// both of which resolve trim markers; a Template is therefore safe to share
// across goroutines and never contains ElemTrimL or ElemTrimR.
type Template struct {
	origin   string
	elements []Element
}

// New constructs a template from an element sequence, resolving any trim
// markers the sequence contains. This is the sole chokepoint for the trim
// invariant: the evaluator treats a surviving marker as a construction bug.
func New(origin string, elements []Element) *Template {
	return &Template{
		origin:   origin,
		elements: normalize(elements),
	}
}

// Origin returns the diagnostic label the template was constructed with,
// typically the path of its source file.
func (t *Template) Origin() string { return t.origin }
