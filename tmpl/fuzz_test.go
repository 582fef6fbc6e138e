package tmpl

import "testing"

// FuzzParse checks that arbitrary input never panics the parser and that
// every successfully parsed template is fully normalized.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"plain text",
		"$$",
		"$title$",
		"$-title-$",
		"$greet(a, \"b\", $c$)$",
		"$if(x)$a$else$b$endif$",
		"$for(xs)$$item$$sep$, $endfor$",
		"$partial(\"p.tmpl\")$",
		"$if(x)$$for(y)$$item$$endfor$$endif$",
		"unterminated $",
		"$if(x)$no end",
		"$greet(\"\\n\\t\\\"\\$\")$",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, source string) {
		tpl, err := Parse("fuzz.tmpl", source)
		if err != nil {
			return
		}

		var walk func([]Element)

		walk = func(elems []Element) {
			for _, el := range elems {
				if el.Kind == ElemTrimL || el.Kind == ElemTrimR {
					t.Errorf("marker %v survived normalization of %q",
						el.Kind, source)
				}

				walk(el.Body)
				walk(el.Alt)
			}
		}

		walk(tpl.elements)
	})
}
