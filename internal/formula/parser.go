package formula

import "fmt"

type node interface {
	pos() int
}

type identNode struct {
	name   string
	offset int
}

type numberNode struct {
	text   string
	offset int
}

type callArg struct {
	name  string
	value token
}

type callNode struct {
	name   string
	args   []callArg
	offset int
}

type binaryNode struct {
	op          tokenKind
	left, right node
	offset      int
}

type parenNode struct {
	inner  []summand
	offset int
}

type groupNode struct {
	fixed, group []summand
	offset       int
}

func (n identNode) pos() int  { return n.offset }
func (n numberNode) pos() int { return n.offset }
func (n callNode) pos() int   { return n.offset }
func (n binaryNode) pos() int { return n.offset }
func (n parenNode) pos() int  { return n.offset }
func (n groupNode) pos() int  { return n.offset }

type summand struct {
	negated bool
	node    node
}

// Parse reads a specification into a Formula. The intercept defaults to
// present. Repeated fixed terms (including a:b versus b:a) collapse to
// their first occurrence.
func Parse(src string) (*Formula, error) {
	p := &parser{lx: newLexer(src)}
	summands, err := p.parseFormula()
	if err != nil {
		return nil, err
	}
	return build(summands)
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level literals.
func MustParse(src string) *Formula {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return f
}

type parser struct {
	lx *lexer
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok, err := p.lx.next()
	if err != nil {
		return token{}, err
	}
	if tok.kind != kind {
		return token{}, errorf(tok.offset, "expected %s, found %s", kind, describe(tok))
	}
	return tok, nil
}

func describe(tok token) string {
	if tok.text != "" && tok.kind != tokEOF {
		return fmt.Sprintf("%s %q", tok.kind, tok.text)
	}
	return tok.kind.String()
}

func (p *parser) parseFormula() ([]summand, error) {
	tok, err := p.lx.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokEOF {
		return nil, errorf(tok.offset, "empty specification")
	}
	if tok.kind == tokTilde {
		if _, err := p.lx.next(); err != nil {
			return nil, err
		}
	}
	summands, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	tok, err = p.lx.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokEOF:
		return summands, nil
	case tokTilde:
		return nil, errorf(tok.offset, "two-sided specifications are not supported")
	}
	return nil, errorf(tok.offset, "unexpected %s", describe(tok))
}

func (p *parser) parseSum() ([]summand, error) {
	var out []summand
	negated := false
	tok, err := p.lx.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokMinus {
		negated = true
		_, _ = p.lx.next()
	}
	for {
		n, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		out = append(out, summand{negated: negated, node: n})

		tok, err := p.lx.peek()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokPlus:
			negated = false
		case tokMinus:
			negated = true
		default:
			return out, nil
		}
		_, _ = p.lx.next()
	}
}

func (p *parser) parseProduct() (node, error) {
	return p.parseBinary(tokStar, p.parseInteraction)
}

func (p *parser) parseInteraction() (node, error) {
	return p.parseBinary(tokColon, p.parseAtom)
}

func (p *parser) parseBinary(op tokenKind, operand func() (node, error)) (node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lx.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind != op {
			return left, nil
		}
		_, _ = p.lx.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right, offset: tok.offset}
	}
}

func (p *parser) parseAtom() (node, error) {
	tok, err := p.lx.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokNumber:
		return numberNode{text: tok.text, offset: tok.offset}, nil
	case tokIdent:
		next, err := p.lx.peek()
		if err != nil {
			return nil, err
		}
		if next.kind != tokLParen {
			return identNode{name: tok.text, offset: tok.offset}, nil
		}
		_, _ = p.lx.next()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return callNode{name: tok.text, args: args, offset: tok.offset}, nil
	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		next, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		switch next.kind {
		case tokRParen:
			return parenNode{inner: inner, offset: tok.offset}, nil
		case tokPipe:
			group, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			return groupNode{fixed: inner, group: group, offset: tok.offset}, nil
		}
		return nil, errorf(next.offset, "expected ')' or '|', found %s", describe(next))
	}
	return nil, errorf(tok.offset, "unexpected %s", describe(tok))
}

// parseArgs reads a call argument list after the opening parenthesis.
func (p *parser) parseArgs() ([]callArg, error) {
	var args []callArg
	tok, err := p.lx.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokRParen {
		_, _ = p.lx.next()
		return nil, nil
	}
	for {
		first, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		if first.kind != tokIdent && first.kind != tokString && first.kind != tokNumber {
			return nil, errorf(first.offset, "expected argument, found %s", describe(first))
		}
		arg := callArg{value: first}
		next, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		if next.kind == tokEquals {
			if first.kind != tokIdent {
				return nil, errorf(first.offset, "argument name must be a name")
			}
			val, err := p.lx.next()
			if err != nil {
				return nil, err
			}
			if val.kind != tokIdent && val.kind != tokString && val.kind != tokNumber {
				return nil, errorf(val.offset, "expected argument value, found %s", describe(val))
			}
			arg = callArg{name: first.text, value: val}
			if next, err = p.lx.next(); err != nil {
				return nil, err
			}
		}
		args = append(args, arg)
		switch next.kind {
		case tokComma:
			continue
		case tokRParen:
			return args, nil
		}
		return nil, errorf(next.offset, "expected ',' or ')', found %s", describe(next))
	}
}
