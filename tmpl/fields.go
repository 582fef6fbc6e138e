package tmpl

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// field builds a single-key provider: absent for every other key.
func field[B any](
	key string,
	resolve func(args []string, item Item[B]) Outcome[Field[B]],
) Context[B] {
	return Context[B]{
		names: []string{key},
		resolve: func(
			k string,
			args []string,
			item Item[B],
		) Outcome[Field[B]] {
			if k != key {
				return Absent[Field[B]]()
			}

			return resolve(args, item)
		},
	}
}

// ConstField resolves key to a fixed string for every item.
func ConstField[B any](key, value string) Context[B] {
	return field(key, func([]string, Item[B]) Outcome[Field[B]] {
		return Found(StringField[B](value))
	})
}

// FuncField resolves key by calling fn with the evaluated argument list and
// the current item. A non-nil error becomes a hard context fault.
func FuncField[B any](
	key string,
	fn func(args []string, item Item[B]) (string, error),
) Context[B] {
	return field(key, func(args []string, item Item[B]) Outcome[Field[B]] {
		s, err := fn(args, item)
		if err != nil {
			return Fail[Field[B]](
				ErrContextFault.Wrap(err).
					With(slog.String("field", key)),
			)
		}

		return Found(StringField[B](s))
	})
}

// FlagField resolves key to an empty field when present reports true, and
// is absent otherwise. It exists purely to drive $if$ branches: presence,
// not content, is the truthiness signal.
func FlagField[B any](
	key string,
	present func(item Item[B]) bool,
) Context[B] {
	return field(key, func(_ []string, item Item[B]) Outcome[Field[B]] {
		if !present(item) {
			return Absent[Field[B]]()
		}

		return Found(EmptyField[B]())
	})
}

// ItemField resolves key to the item's identifier.
func ItemField[B any](key string) Context[B] {
	return field(key, func(_ []string, item Item[B]) Outcome[Field[B]] {
		return Found(StringField[B](item.ID))
	})
}

// BodyField resolves key to the item's body.
func BodyField(key string) Context[string] {
	return field(key, func(_ []string, item Item[string]) Outcome[Field[string]] {
		return Found(StringField[string](item.Body))
	})
}

// CollectionField resolves key to a list of items rendered under sub.
func CollectionField[B any](
	key string,
	sub Context[B],
	items []Item[B],
) Context[B] {
	return field(key, func([]string, Item[B]) Outcome[Field[B]] {
		return Found(ListField(sub, items))
	})
}

// ValuesField resolves key to a lexical list of raw values, each converted
// to a context with build during iteration.
func ValuesField[B any](
	key string,
	build func(value any) Context[B],
	values []any,
) Context[B] {
	return field(key, func([]string, Item[B]) Outcome[Field[B]] {
		return Found(LexicalListField(build, values))
	})
}

// MetadataContext resolves keys from a metadata map, typically parsed from
// an item's front matter. Scalars resolve to string fields; sequences
// resolve to lexical lists whose members expose their value as $item$ (or,
// for mapping members, one field per key).
func MetadataContext[B any](meta map[string]any) Context[B] {
	names := make([]string, 0, len(meta))
	for k := range meta {
		names = append(names, k)
	}

	return Context[B]{
		names: names,
		resolve: func(
			key string,
			_ []string,
			_ Item[B],
		) Outcome[Field[B]] {
			v, ok := meta[key]
			if !ok {
				return Absent[Field[B]]()
			}

			if seq, ok := v.([]any); ok {
				return Found(LexicalListField(metaValueContext[B], seq))
			}

			if v == nil {
				return Found(EmptyField[B]())
			}

			return Found(StringField[B](fmt.Sprint(v)))
		},
	}
}

// metaValueContext converts one member of a metadata sequence into a
// context. Mapping members expose one field per key; scalar members expose
// their value as "item".
func metaValueContext[B any](value any) Context[B] {
	if m, ok := value.(map[string]any); ok {
		return MetadataContext[B](m)
	}

	return ConstField[B]("item", fmt.Sprint(value))
}

// ExprField resolves key by evaluating a compiled expression. The expression
// environment exposes the item identifier as "id", the item body as "body",
// and the evaluated call arguments as "args". Compilation happens once, at
// construction; a compile failure is reported immediately.
func ExprField[B any](key, source string) (Context[B], error) {
	program, err := expr.Compile(source)
	if err != nil {
		return Context[B]{}, ErrExprCompile.Wrap(err).
			With(
				slog.String("field", key),
				slog.String("source", source),
			)
	}

	return exprField[B](key, program), nil
}

func exprField[B any](key string, program *vm.Program) Context[B] {
	return field(key, func(args []string, item Item[B]) Outcome[Field[B]] {
		env := map[string]any{
			"id":   item.ID,
			"body": item.Body,
			"args": args,
		}

		out, err := expr.Run(program, env)
		if err != nil {
			return Fail[Field[B]](
				ErrContextFault.Wrap(err).
					With(slog.String("field", key)),
			)
		}

		return Found(StringField[B](fmt.Sprint(out)))
	})
}

// DefaultContext resolves the fields every string-bodied item carries:
// $body$ and $id$.
func DefaultContext() Context[string] {
	return Chain(
		BodyField("body"),
		ItemField[string]("id"),
	)
}
