package cmd

import (
	"io"
	"maps"
	"os"
	"slices"

	"github.com/klauspost/readahead"

	"github.com/stitchtext/stitch/tmpl"
)

// stdinName identifies stdin-sourced documents in diagnostics.
const stdinName = "stdin"

// LoadItem reads a content document from path ("-" for stdin), splits its
// YAML front matter, and returns the resulting item with its metadata. The
// item's identifier is the path it was read from.
func LoadItem(path string) (tmpl.Item[string], map[string]any, error) {
	data, name, err := readSource(path)
	if err != nil {
		return tmpl.Item[string]{}, nil, err
	}

	meta, body, err := tmpl.SplitFrontMatter(string(data))
	if err != nil {
		return tmpl.Item[string]{}, nil, err
	}

	return tmpl.MakeItem(name, body), meta, nil
}

// BuildContext composes the lookup chain for rendering: fixed string fields
// first, then computed expression fields, then front matter metadata, then
// the built-in $body$ and $id$ fields. Earlier providers shadow later ones.
func BuildContext(
	meta map[string]any,
	consts map[string]string,
	exprs map[string]string,
) (tmpl.Context[string], error) {
	chain := make([]tmpl.Context[string], 0, len(consts)+len(exprs)+2)

	for _, key := range slices.Sorted(maps.Keys(consts)) {
		chain = append(chain, tmpl.ConstField[string](key, consts[key]))
	}

	for _, key := range slices.Sorted(maps.Keys(exprs)) {
		c, err := tmpl.ExprField[string](key, exprs[key])
		if err != nil {
			return tmpl.Context[string]{}, err
		}

		chain = append(chain, c)
	}

	if len(meta) > 0 {
		chain = append(chain, tmpl.MetadataContext[string](meta))
	}

	chain = append(chain, tmpl.DefaultContext())

	return tmpl.Chain(chain...), nil
}

// readSource reads path, or stdin when path is "-" or empty, returning the
// content and the name to report in diagnostics.
func readSource(path string) ([]byte, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)

		return data, stdinName, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	ra := readahead.NewReader(f)
	defer ra.Close()

	data, err := io.ReadAll(ra)

	return data, path, err
}

// writeOutput writes s to path, or stdout when path is "-" or empty.
func writeOutput(path, s string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(os.Stdout, s)

		return err
	}

	return os.WriteFile(path, []byte(s), 0o600)
}
