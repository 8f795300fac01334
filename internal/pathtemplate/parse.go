package pathtemplate

import "fmt"

// ParseError is returned by Parse when the source does not match the
// template grammar.
type ParseError struct {
	Source string
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pathtemplate: parse error at %d in %q: %s", e.Pos, e.Source, e.Msg)
}

type parser struct {
	source string
	src []rune
	pos int
}

// Parse compiles a path template source string into a Template. Parse is
// pure: it performs no I/O and has no side effects.
func Parse(source string) (*Template, error) {
	p := &parser{source: source, src: []rune(source)}
	parts, err := p.parseParts(nil)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errf("unbalanced '}'")
	}
	return &Template{Source: source, Parts: parts}, nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }
func (p *parser) peek() rune { return p.src[p.pos] }
func (p *parser) next() rune { c := p.src[p.pos]; p.pos++; return c }
func (p *parser) errf(format string, args ...any) error {
	return &ParseError{Source: p.source, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// parseParts parses a run of literal/variable/call Parts, stopping (without
// consuming) when it sees a rune present in terminators, or at EOF when
// terminators is nil (top-level parse). A bare '}' encountered while
// terminators is nil is an unbalanced-brace parse error.
func (p *parser) parseParts(terminators map[rune]bool) ([]Part, error) {
	var parts []Part
	var lit []rune

	flush := func() {
		if len(lit) > 0 {
			parts = append(parts, Literal{Text: string(lit)})
			lit = nil
		}
	}

	for {
		if p.atEnd() {
			flush()
			return parts, nil
		}
		c := p.peek()
		if terminators != nil && terminators[c] {
			flush()
			return parts, nil
		}
		switch c {
		case '\\':
			p.next()
			if p.atEnd() {
				return nil, p.errf("dangling escape at end of input")
			}
			lit = append(lit, p.next())
		case '$':
			flush()
			v, err := p.parseVariable()
			if err != nil {
				return nil, err
			}
			parts = append(parts, v)
		case '%':
			flush()
			call, err := p.parseCall()
			if err != nil {
				return nil, err
			}
			parts = append(parts, call)
		case '}':
			return nil, p.errf("unbalanced '}'")
		default:
			lit = append(lit, p.next())
		}
	}
}

func (p *parser) parseVariable() (Part, error) {
	p.next() // consume '$'
	if p.atEnd() {
		return nil, p.errf("empty variable name")
	}
	if p.peek() == '{' {
		p.next()
		start := p.pos
		for !p.atEnd() && p.peek() != '}' {
			p.next()
		}
		if p.atEnd() {
			return nil, p.errf("unbalanced '{' in variable reference")
		}
		name := string(p.src[start:p.pos])
		p.next() // consume '}'
		if name == "" || !isValidIdent(name) {
			return nil, p.errf("invalid variable name %q", name)
		}
		return Variable{Name: name}, nil
	}
	start := p.pos
	for !p.atEnd() && isIdentChar(p.peek()) {
		p.next()
	}
	name := string(p.src[start:p.pos])
	if name == "" {
		return nil, p.errf("empty variable name")
	}
	return Variable{Name: name}, nil
}

func (p *parser) parseCall() (Part, error) {
	p.next() // consume '%'
	start := p.pos
	for !p.atEnd() && isIdentChar(p.peek()) {
		p.next()
	}
	name := string(p.src[start:p.pos])
	if name == "" {
		return nil, p.errf("empty function name")
	}
	if p.atEnd() || p.peek() != '{' {
		return nil, p.errf("expected '{' after function name %q", name)
	}
	p.next() // consume '{'

	var args [][]Part
	argTerms := map[rune]bool{',': true, '}': true}
	for {
		expr, err := p.parseParts(argTerms)
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
		if p.atEnd() {
			return nil, p.errf("unbalanced '{' in call to %q", name)
		}
		switch p.next() {
		case ',':
			continue
		case '}':
			return Call{Name: name, Args: args}, nil
		}
	}
}

func isIdentChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isIdentChar(r) {
			return false
		}
	}
	return true
}
