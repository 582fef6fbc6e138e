package tmpl

import (
	"strings"
	"unicode"
)

// normalize resolves trim markers in an element sequence, recursing into
// nested bodies. An ElemTrimL marker strips trailing whitespace from the
// chunk preceding it; an ElemTrimR marker strips leading whitespace from
// the chunk following it. Chunks trimmed to nothing are dropped. The pass
// is total: its output never contains a marker.
func normalize(elems []Element) []Element {
	out := make([]Element, 0, len(elems))

	trimNext := false

	for _, el := range elems {
		switch el.Kind {
		case ElemTrimL:
			if n := len(out); n > 0 && out[n-1].Kind == ElemChunk {
				out[n-1].Text = strings.TrimRightFunc(
					out[n-1].Text, unicode.IsSpace)

				if out[n-1].Text == "" {
					out = out[:n-1]
				}
			}

			continue

		case ElemTrimR:
			trimNext = true

			continue
		}

		if trimNext {
			trimNext = false

			if el.Kind == ElemChunk {
				el.Text = strings.TrimLeftFunc(el.Text, unicode.IsSpace)
				if el.Text == "" {
					continue
				}
			}
		}

		switch el.Kind {
		case ElemIf, ElemFor:
			el.Body = normalize(el.Body)

			if el.Alt != nil {
				el.Alt = normalize(el.Alt)
			}
		}

		out = append(out, el)
	}

	return out
}
