package tmpl

import (
	"slices"
	"strings"
)

// Parse parses template source text into a normalized [Template]. The origin
// label, typically the source file path, is carried into diagnostics.
func Parse(origin, source string) (*Template, error) {
	p := &parser{origin: origin, src: source}

	elems, term, err := p.parseSeq(false)
	if err != nil {
		return nil, err
	}

	// term is nil at end of input; parseSeq rejects stray terminators.
	_ = term

	return New(origin, elems), nil
}

// parser is a single-pass recursive-descent parser over the directive
// grammar. It tracks only a byte offset; line and column are derived from
// the offset when an error is reported.
type parser struct {
	origin string
	src    string
	pos    int
}

// directive is one parsed $...$ construct.
type directive struct {
	word   string // keyword, or "" for a bare expression directive
	expr   Expr   // subject of if/for/partial, or the bare expression
	trimL  bool   // '-' hugging the opening dollar
	trimR  bool   // '-' hugging the closing dollar
	offset int    // byte offset of the opening dollar
}

// keyword terminators that close an enclosing construct.
var terminators = []string{"else", "endif", "sep", "endfor"}

// parseSeq parses elements until end of input or until one of the given
// terminator keywords. It returns the terminating directive, or nil at end
// of input. A terminator's left trim marker is appended to the returned
// sequence; its right trim marker is the caller's to place.
func (p *parser) parseSeq(
	pendingTrimR bool,
	terms ...string,
) ([]Element, *directive, *Error) {
	elems := []Element{}

	if pendingTrimR {
		elems = append(elems, Element{Kind: ElemTrimR})
	}

	for p.pos < len(p.src) {
		idx := strings.IndexByte(p.src[p.pos:], '$')
		if idx < 0 {
			elems = append(elems, Chunk(p.src[p.pos:]))
			p.pos = len(p.src)

			break
		}

		if idx > 0 {
			elems = append(elems, Chunk(p.src[p.pos:p.pos+idx]))
			p.pos += idx
		}

		if p.pos+1 < len(p.src) && p.src[p.pos+1] == '$' {
			elems = append(elems, Escaped())
			p.pos += 2

			continue
		}

		d, err := p.parseDirective()
		if err != nil {
			return nil, nil, err
		}

		if slices.Contains(terminators, d.word) {
			if !slices.Contains(terms, d.word) {
				return nil, nil, p.errorAt(d.offset,
					"unexpected $"+d.word+"$")
			}

			if d.trimL {
				elems = append(elems, Element{Kind: ElemTrimL})
			}

			return elems, d, nil
		}

		elems, err = p.parseConstruct(elems, d)
		if err != nil {
			return nil, nil, err
		}
	}

	return elems, nil, nil
}

// parseConstruct appends the element(s) for a non-terminator directive,
// parsing nested bodies for if and for.
func (p *parser) parseConstruct(
	elems []Element,
	d *directive,
) ([]Element, *Error) {
	if d.trimL {
		elems = append(elems, Element{Kind: ElemTrimL})
	}

	switch d.word {
	case "if":
		thenBody, term, err := p.parseSeq(d.trimR, "else", "endif")
		if err != nil {
			return nil, err
		}

		if term == nil {
			return nil, p.errorAt(d.offset, "missing $endif$")
		}

		var elseBody []Element

		if term.word == "else" {
			elseBody, term, err = p.parseSeq(term.trimR, "endif")
			if err != nil {
				return nil, err
			}

			if term == nil {
				return nil, p.errorAt(d.offset, "missing $endif$")
			}
		}

		elems = append(elems, If(d.expr, thenBody, elseBody))

		if term.trimR {
			elems = append(elems, Element{Kind: ElemTrimR})
		}

	case "for":
		body, term, err := p.parseSeq(d.trimR, "sep", "endfor")
		if err != nil {
			return nil, err
		}

		if term == nil {
			return nil, p.errorAt(d.offset, "missing $endfor$")
		}

		var sep []Element

		if term.word == "sep" {
			sep, term, err = p.parseSeq(term.trimR, "endfor")
			if err != nil {
				return nil, err
			}

			if term == nil {
				return nil, p.errorAt(d.offset, "missing $endfor$")
			}
		}

		elems = append(elems, For(d.expr, body, sep))

		if term.trimR {
			elems = append(elems, Element{Kind: ElemTrimR})
		}

	case "partial":
		elems = append(elems, Partial(d.expr))

		if d.trimR {
			elems = append(elems, Element{Kind: ElemTrimR})
		}

	default:
		elems = append(elems, Interp(d.expr))

		if d.trimR {
			elems = append(elems, Element{Kind: ElemTrimR})
		}
	}

	return elems, nil
}

// parseDirective parses one $...$ construct starting at the opening dollar.
func (p *parser) parseDirective() (*directive, *Error) {
	d := &directive{offset: p.pos}

	p.pos++ // opening '$'

	if p.peek() == '-' {
		d.trimL = true
		p.pos++
	}

	word, err := p.ident()
	if err != nil {
		return nil, err
	}

	switch word {
	case "if", "for", "partial":
		d.word = word

		if p.peek() != '(' {
			return nil, p.errorAt(p.pos, "expected '(' after $"+word)
		}

		p.pos++

		d.expr, err = p.parseLookup()
		if err != nil {
			return nil, err
		}

		if p.peek() != ')' {
			return nil, p.errorAt(p.pos, "expected ')'")
		}

		p.pos++

	case "else", "endif", "sep", "endfor":
		d.word = word

	default:
		if p.peek() == '(' {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			d.expr = Call(word, args...)
		} else {
			d.expr = Ident(word)
		}
	}

	if p.peek() == '-' {
		d.trimR = true
		p.pos++
	}

	if p.peek() != '$' {
		return nil, p.errorAt(p.pos, "unclosed directive")
	}

	p.pos++

	return d, nil
}

// parseLookup parses an expression in lookup position: an identifier naming
// a field, optionally followed by an argument list, or a double-quoted
// string literal.
func (p *parser) parseLookup() (Expr, *Error) {
	if p.peek() == '"' {
		return p.parseQuoted()
	}

	key, err := p.ident()
	if err != nil {
		return Expr{}, err
	}

	if p.peek() == '(' {
		args, err := p.parseArgs()
		if err != nil {
			return Expr{}, err
		}

		return Call(key, args...), nil
	}

	return Ident(key), nil
}

// parseArgs parses a parenthesized argument list. The opening parenthesis
// has not been consumed.
func (p *parser) parseArgs() ([]Expr, *Error) {
	p.pos++ // '('

	args := []Expr{}

	p.skipSpace()

	if p.peek() == ')' {
		p.pos++

		return args, nil
	}

	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		p.skipSpace()

		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()

		case ')':
			p.pos++

			return args, nil

		default:
			return nil, p.errorAt(p.pos,
				"expected ',' or ')' in argument list")
		}
	}
}

// parseArg parses an expression in argument position: a double-quoted
// string, a nested $expr$, or a bare word treated as a string literal.
func (p *parser) parseArg() (Expr, *Error) {
	switch p.peek() {
	case '"':
		return p.parseQuoted()

	case '$':
		p.pos++

		x, err := p.parseLookup()
		if err != nil {
			return Expr{}, err
		}

		if p.peek() != '$' {
			return Expr{}, p.errorAt(p.pos, "unclosed nested expression")
		}

		p.pos++

		return x, nil

	default:
		return p.parseBareWord()
	}
}

// parseQuoted parses a double-quoted string literal with escapes.
func (p *parser) parseQuoted() (Expr, *Error) {
	start := p.pos

	p.pos++ // '"'

	var sb strings.Builder

	for p.pos < len(p.src) {
		switch b := p.src[p.pos]; b {
		case '"':
			p.pos++

			return Lit(sb.String()), nil

		case '\\':
			if p.pos+1 >= len(p.src) {
				return Expr{}, p.errorAt(start,
					"unterminated string literal")
			}

			p.pos++

			switch c := p.src[p.pos]; c {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\', '$':
				sb.WriteByte(c)
			default:
				return Expr{}, p.errorAt(p.pos,
					"invalid escape sequence")
			}

			p.pos++

		default:
			sb.WriteByte(b)
			p.pos++
		}
	}

	return Expr{}, p.errorAt(start, "unterminated string literal")
}

// parseBareWord parses an unquoted argument up to the next comma or closing
// parenthesis, with surrounding whitespace trimmed.
func (p *parser) parseBareWord() (Expr, *Error) {
	start := p.pos

	for p.pos < len(p.src) {
		b := p.src[p.pos]
		if b == ',' || b == ')' {
			break
		}

		if b == '$' {
			return Expr{}, p.errorAt(p.pos, "unexpected '$' in argument")
		}

		p.pos++
	}

	word := strings.TrimSpace(p.src[start:p.pos])
	if word == "" {
		return Expr{}, p.errorAt(start, "empty argument")
	}

	return Lit(word), nil
}

// ident scans an identifier: a letter or underscore followed by letters,
// digits, underscores, or dots.
func (p *parser) ident() (string, *Error) {
	start := p.pos

	for p.pos < len(p.src) && identByte(p.src[p.pos], p.pos == start) {
		p.pos++
	}

	if p.pos == start {
		return "", p.errorAt(start, "expected identifier")
	}

	return p.src[start:p.pos], nil
}

func identByte(b byte, first bool) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b == '_':
		return true
	case first:
		return false
	default:
		return b >= '0' && b <= '9' || b == '.'
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) &&
		(p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

// peek returns the byte at the cursor, or 0 at end of input.
func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) errorAt(offset int, msg string) *Error {
	return parseError(p.origin, p.src, offset, msg)
}
