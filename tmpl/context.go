package tmpl

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/sahilm/fuzzy"
)

// FieldKind indicates the shape of a resolved field.
type FieldKind int

const (
	// FieldEmpty is a found-but-valueless field. It satisfies $if$ but has
	// no string content to interpolate.
	FieldEmpty FieldKind = iota

	// FieldString is a plain string field.
	FieldString

	// FieldList is a homogeneous collection whose members share one
	// sub-context.
	FieldList

	// FieldLexical is a collection of raw values, each converted to a
	// context on demand and applied against the original item.
	FieldLexical
)

// String names the field shape as it appears in type-mismatch diagnostics.
// Both list shapes read as "list".
func (k FieldKind) String() string {
	switch k {
	case FieldEmpty:
		return "empty"
	case FieldString:
		return "string"
	case FieldList, FieldLexical:
		return "list"
	default:
		return "unknown"
	}
}

// Field is the resolved shape of a context lookup.
// Exactly the fields relevant to Kind are set.
type Field[B any] struct {
	Kind FieldKind

	Str string // FieldString

	Sub   Context[B] // FieldList
	Items []Item[B]  // FieldList

	Build  func(value any) Context[B] // FieldLexical
	Values []any                      // FieldLexical
}

// EmptyField returns a found-but-valueless field.
func EmptyField[B any]() Field[B] {
	return Field[B]{Kind: FieldEmpty}
}

// StringField returns a string field.
func StringField[B any](s string) Field[B] {
	return Field[B]{Kind: FieldString, Str: s}
}

// ListField returns a collection field whose members are rendered under the
// given sub-context alone, replacing the enclosing context.
func ListField[B any](sub Context[B], items []Item[B]) Field[B] {
	return Field[B]{Kind: FieldList, Sub: sub, Items: items}
}

// LexicalListField returns a collection of raw values. During iteration each
// value is converted to a context with build and chained in front of the
// enclosing context, applied against the original item.
func LexicalListField[B any](
	build func(value any) Context[B],
	values []any,
) Field[B] {
	return Field[B]{Kind: FieldLexical, Build: build, Values: values}
}

// Context is a value-lookup capability: it resolves a key and an optional
// argument list against the current item to a typed field or a typed
// failure. Lookups must be pure with respect to the item and deterministic
// for equal inputs within one build.
type Context[B any] struct {
	resolve func(key string, args []string, item Item[B]) Outcome[Field[B]]
	names   []string
}

// MakeContext constructs a context from a resolver function. The optional
// names list advertises the keys the provider can resolve; it is used only
// for "did you mean" diagnostics and may be left empty.
func MakeContext[B any](
	resolve func(key string, args []string, item Item[B]) Outcome[Field[B]],
	names ...string,
) Context[B] {
	return Context[B]{resolve: resolve, names: names}
}

// Resolve looks up a key against the item. The zero Context resolves
// nothing.
func (c Context[B]) Resolve(
	key string,
	args []string,
	item Item[B],
) Outcome[Field[B]] {
	if c.resolve == nil {
		return Absent[Field[B]]()
	}

	return c.resolve(key, args, item)
}

// Names returns the field names the context advertises for diagnostics.
func (c Context[B]) Names() []string { return c.names }

// Chain composes providers into an ordered chain tried left to right: the
// first found or faulted outcome wins, and absence falls through to the
// next provider. A hard fault is therefore non-recoverable by later
// providers; only an explicit "not present" can be shadowed.
func Chain[B any](providers ...Context[B]) Context[B] {
	var names []string
	for _, p := range providers {
		names = append(names, p.names...)
	}

	return Context[B]{
		names: names,
		resolve: func(
			key string,
			args []string,
			item Item[B],
		) Outcome[Field[B]] {
			for _, p := range providers {
				if o := p.Resolve(key, args, item); !o.IsAbsent() {
					return o
				}
			}

			return Absent[Field[B]]()
		},
	}
}

// noField builds the terminal ErrNoField fault produced when a chain is
// exhausted without resolving a key. When the context advertises its field
// names, the nearest fuzzy match is offered as a suggestion.
func noField[B any](key string, ctx Context[B]) *Error {
	detail := "no field named " + strconv.Quote(key)

	err := ErrNoField.With(slog.String("field", key))

	if matches := fuzzy.Find(key, ctx.Names()); len(matches) > 0 {
		detail += " (did you mean " + strconv.Quote(matches[0].Str) + "?)"
		err = err.With(slog.String("suggestion", matches[0].Str))
	}

	return err.Wrap(errors.New(detail))
}
