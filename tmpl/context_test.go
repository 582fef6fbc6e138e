package tmpl

import (
	"errors"
	"slices"
	"testing"
)

func TestZeroContextResolvesNothing(t *testing.T) {
	var ctx Context[string]

	o := ctx.Resolve("anything", nil, Item[string]{})
	if !o.IsAbsent() {
		t.Errorf("expected absent outcome, got %+v", o)
	}
}

func TestChainFirstFoundWins(t *testing.T) {
	ctx := Chain(
		ConstField[string]("k", "first"),
		ConstField[string]("k", "second"),
	)

	o := ctx.Resolve("k", nil, Item[string]{})
	if !o.IsFound() || o.Value().Str != "first" {
		t.Errorf("expected 'first', got %+v", o)
	}
}

func TestChainAbsenceFallsThrough(t *testing.T) {
	ctx := Chain(
		ConstField[string]("a", "1"),
		ConstField[string]("b", "2"),
	)

	o := ctx.Resolve("b", nil, Item[string]{})
	if !o.IsFound() || o.Value().Str != "2" {
		t.Errorf("expected fall-through to 'b', got %+v", o)
	}
}

func TestChainFaultDoesNotFallThrough(t *testing.T) {
	ctx := Chain(
		FuncField("k", func([]string, Item[string]) (string, error) {
			return "", errors.New("boom")
		}),
		ConstField[string]("k", "shadowed"),
	)

	// A hard fault wins over later providers; only absence is recoverable.
	o := ctx.Resolve("k", nil, Item[string]{})
	if !o.IsFault() {
		t.Fatalf("expected fault, got %+v", o)
	}

	if !errors.Is(o.Err(), ErrContextFault) {
		t.Errorf("expected ErrContextFault, got %v", o.Err())
	}
}

func TestChainNames(t *testing.T) {
	ctx := Chain(
		ConstField[string]("a", "1"),
		Chain(
			ConstField[string]("b", "2"),
			ConstField[string]("c", "3"),
		),
	)

	names := ctx.Names()
	for _, want := range []string{"a", "b", "c"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected name %q in %v", want, names)
		}
	}
}

func TestMakeContext(t *testing.T) {
	ctx := MakeContext(func(
		key string,
		args []string,
		_ Item[string],
	) Outcome[Field[string]] {
		if key != "echo" {
			return Absent[Field[string]]()
		}

		return Found(StringField[string](args[0]))
	}, "echo")

	o := ctx.Resolve("echo", []string{"hi"}, Item[string]{})
	if !o.IsFound() || o.Value().Str != "hi" {
		t.Errorf("unexpected outcome %+v", o)
	}
}

func TestFuncFieldReceivesArgsAndItem(t *testing.T) {
	ctx := FuncField("tag", func(args []string, item Item[string]) (string, error) {
		return item.ID + ":" + args[0], nil
	})

	o := ctx.Resolve("tag", []string{"x"}, MakeItem("post.md", ""))
	if !o.IsFound() || o.Value().Str != "post.md:x" {
		t.Errorf("unexpected outcome %+v", o)
	}
}

func TestMetadataContextScalars(t *testing.T) {
	ctx := MetadataContext[string](map[string]any{
		"title": "Go",
		"count": 3,
		"ok":    true,
		"nada":  nil,
	})

	cases := []struct {
		key  string
		kind FieldKind
		str  string
	}{
		{"title", FieldString, "Go"},
		{"count", FieldString, "3"},
		{"ok", FieldString, "true"},
		{"nada", FieldEmpty, ""},
	}

	for _, tc := range cases {
		o := ctx.Resolve(tc.key, nil, Item[string]{})
		if !o.IsFound() {
			t.Errorf("%s: expected found, got %+v", tc.key, o)

			continue
		}

		f := o.Value()
		if f.Kind != tc.kind || f.Str != tc.str {
			t.Errorf("%s: expected (%v, %q), got (%v, %q)",
				tc.key, tc.kind, tc.str, f.Kind, f.Str)
		}
	}
}

func TestMetadataContextSequence(t *testing.T) {
	ctx := MetadataContext[string](map[string]any{
		"tags": []any{"a", "b"},
	})

	o := ctx.Resolve("tags", nil, Item[string]{})
	if !o.IsFound() {
		t.Fatalf("expected found, got %+v", o)
	}

	f := o.Value()
	if f.Kind != FieldLexical {
		t.Fatalf("expected lexical list, got %v", f.Kind)
	}

	if len(f.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(f.Values))
	}

	member := f.Build(f.Values[0])

	mo := member.Resolve("item", nil, Item[string]{})
	if !mo.IsFound() || mo.Value().Str != "a" {
		t.Errorf("expected member field 'item' = 'a', got %+v", mo)
	}
}

func TestMetadataContextAbsentKey(t *testing.T) {
	ctx := MetadataContext[string](map[string]any{"title": "Go"})

	o := ctx.Resolve("missing", nil, Item[string]{})
	if !o.IsAbsent() {
		t.Errorf("expected absent, got %+v", o)
	}
}

func TestExprField(t *testing.T) {
	ctx, err := ExprField[string]("shout", `upper(body) + "!"`)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	o := ctx.Resolve("shout", nil, MakeItem("post.md", "hey"))
	if !o.IsFound() || o.Value().Str != "HEY!" {
		t.Errorf("unexpected outcome %+v", o)
	}
}

func TestExprFieldArgs(t *testing.T) {
	ctx, err := ExprField[string]("pick", "args[0]")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	o := ctx.Resolve("pick", []string{"chosen"}, Item[string]{})
	if !o.IsFound() || o.Value().Str != "chosen" {
		t.Errorf("unexpected outcome %+v", o)
	}
}

func TestExprFieldCompileError(t *testing.T) {
	_, err := ExprField[string]("bad", "1 +")
	if err == nil {
		t.Fatal("expected compile error")
	}

	if !errors.Is(err, ErrExprCompile) {
		t.Errorf("expected ErrExprCompile, got %v", err)
	}
}

func TestExprFieldRuntimeFault(t *testing.T) {
	ctx, err := ExprField[string]("bad", "args[5]")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	o := ctx.Resolve("bad", nil, Item[string]{})
	if !o.IsFault() {
		t.Fatalf("expected fault, got %+v", o)
	}

	if !errors.Is(o.Err(), ErrContextFault) {
		t.Errorf("expected ErrContextFault, got %v", o.Err())
	}
}

func TestValuesField(t *testing.T) {
	ctx := ValuesField("nums",
		func(value any) Context[string] {
			return ConstField[string]("n", value.(string))
		},
		[]any{"1", "2"},
	)

	o := ctx.Resolve("nums", nil, Item[string]{})
	if !o.IsFound() || o.Value().Kind != FieldLexical {
		t.Fatalf("expected lexical list, got %+v", o)
	}
}

func TestFieldKindString(t *testing.T) {
	cases := map[FieldKind]string{
		FieldEmpty:   "empty",
		FieldString:  "string",
		FieldList:    "list",
		FieldLexical: "list",
	}

	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%d: expected %q, got %q", kind, want, got)
		}
	}
}
