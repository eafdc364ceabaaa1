package formula

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPlus
	tokMinus
	tokColon
	tokStar
	tokPipe
	tokLParen
	tokRParen
	tokComma
	tokEquals
	tokTilde
)

var punct = map[rune]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	':': tokColon,
	'*': tokStar,
	'|': tokPipe,
	'(': tokLParen,
	')': tokRParen,
	',': tokComma,
	'=': tokEquals,
	'~': tokTilde,
}

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "name"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	}
	for r, kind := range punct {
		if kind == k {
			return "'" + string(r) + "'"
		}
	}
	return "token"
}

type token struct {
	kind   tokenKind
	text   string
	offset int
}

// lexer produces tokens with a single token of lookahead.
type lexer struct {
	src  string
	pos  int
	look *token
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (lx *lexer) peek() (token, error) {
	if lx.look == nil {
		tok, err := lx.scan()
		if err != nil {
			return token{}, err
		}
		lx.look = &tok
	}
	return *lx.look, nil
}

func (lx *lexer) next() (token, error) {
	tok, err := lx.peek()
	lx.look = nil
	return tok, err
}

func (lx *lexer) scan() (token, error) {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		lx.pos += size
	}
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, offset: lx.pos}, nil
	}

	start := lx.pos
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	switch {
	case isIdentStart(r):
		for lx.pos < len(lx.src) {
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			if !isIdentContinue(r) {
				break
			}
			lx.pos += size
		}
		return token{kind: tokIdent, text: lx.src[start:lx.pos], offset: start}, nil
	case unicode.IsDigit(r):
		for lx.pos < len(lx.src) && (isASCIIDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '.') {
			lx.pos++
		}
		return token{kind: tokNumber, text: lx.src[start:lx.pos], offset: start}, nil
	case r == '`':
		end := strings.IndexByte(lx.src[start+1:], '`')
		if end < 0 {
			return token{}, errorf(start, "unterminated quoted name")
		}
		lx.pos = start + 1 + end + 1
		name := lx.src[start+1 : start+1+end]
		if name == "" {
			return token{}, errorf(start, "empty quoted name")
		}
		return token{kind: tokIdent, text: name, offset: start}, nil
	case r == '"' || r == '\'':
		end := strings.IndexRune(lx.src[start+1:], r)
		if end < 0 {
			return token{}, errorf(start, "unterminated string")
		}
		lx.pos = start + 1 + end + 1
		return token{kind: tokString, text: lx.src[start+1 : start+1+end], offset: start}, nil
	}

	if kind, ok := punct[r]; ok {
		lx.pos += size
		return token{kind: kind, text: string(r), offset: start}, nil
	}
	return token{}, errorf(start, "unexpected character %q", r)
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
