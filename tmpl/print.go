package tmpl

import (
	"io"
	"strconv"
	"strings"
)

// Print writes a formatted representation of the template's element tree to
// the writer.
func (t *Template) Print(w io.Writer) {
	put := writer(w)
	put("\n", "Template", t.origin)
	printElems(w, t.elements, 1)
}

func writer(w io.Writer) func(eol string, item ...string) {
	return func(eol string, item ...string) {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)
		if err != nil {
			panic(err)
		}
	}
}

func printElems(w io.Writer, elems []Element, indent int) {
	for i := range elems {
		printElem(w, &elems[i], indent)
	}
}

func printElem(w io.Writer, el *Element, indent int) {
	prefix := strings.Repeat("  ", indent)
	put := writer(w)

	switch el.Kind {
	case ElemChunk:
		put("\n", prefix+"Chunk", strconv.Quote(el.Text))

	case ElemEscaped:
		put("\n", prefix+"Escaped")

	case ElemExpr:
		put("\n", prefix+"Expr", el.Expr.String())

	case ElemIf:
		put("\n", prefix+"If", el.Expr.String())
		put("\n", prefix+"  Then")
		printElems(w, el.Body, indent+2)

		if el.Alt != nil {
			put("\n", prefix+"  Else")
			printElems(w, el.Alt, indent+2)
		}

	case ElemFor:
		put("\n", prefix+"For", el.Expr.String())
		put("\n", prefix+"  Body")
		printElems(w, el.Body, indent+2)

		if el.Alt != nil {
			put("\n", prefix+"  Sep")
			printElems(w, el.Alt, indent+2)
		}

	case ElemPartial:
		put("\n", prefix+"Partial", el.Expr.String())

	default:
		put("\n", prefix+el.Kind.String())
	}
}
