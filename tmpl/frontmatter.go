package tmpl

import (
	"strings"

	"github.com/goccy/go-yaml"
)

const frontMatterFence = "---"

// SplitFrontMatter separates a source document into its YAML front matter
// and body. Front matter is delimited by "---" fences on their own lines at
// the very start of the document:
//
//	---
//	title: Hello
//	---
//	body text
//
// A document without a leading fence is returned unchanged with nil
// metadata. Malformed YAML inside the fences is an ErrFrontMatter fault.
func SplitFrontMatter(source string) (map[string]any, string, error) {
	rest, ok := strings.CutPrefix(source, frontMatterFence+"\n")
	if !ok {
		return nil, source, nil
	}

	block, body, ok := strings.Cut(rest, "\n"+frontMatterFence)
	if !ok {
		return nil, "", ErrFrontMatter.
			Wrap(errNoClosingFence)
	}

	// Swallow the newline terminating the closing fence, if any.
	body = strings.TrimPrefix(body, "\n")

	meta := map[string]any{}

	err := yaml.Unmarshal([]byte(block), &meta)
	if err != nil {
		return nil, "", ErrFrontMatter.Wrap(err)
	}

	return meta, body, nil
}

var errNoClosingFence = NewError("missing closing fence")
