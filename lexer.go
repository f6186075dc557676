// lexer.go
//
// Scanner for Anubhav source text. Produces the full token slice in one
// pass (Scan). Statements are newline-terminated, so unlike most
// whitespace the scanner emits NEWLINE tokens; '#' comments run to end
// of line and are discarded.
//
// String literals are double-quoted, support backslash escapes and the
// ${...} interpolation sub-grammar: the scanner splits a literal into a
// StringTemplate of literal segments and the token sub-streams for each
// hole. The parser turns those sub-streams into expressions later.
package anubhav

import "fmt"

// LexError reports a scanning failure with a 1-based line and 0-based
// column, matching Token coordinates.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// Lexer scans an Anubhav source string into tokens.
type Lexer struct {
	src    string
	start  int
	cur    int
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// newSubLexer is used for ${...} holes; it inherits the position of the
// hole so diagnostics inside interpolations point at the right place.
func newSubLexer(src string, line, col int) *Lexer {
	return &Lexer{src: src, line: line, col: col}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekNext() (byte, bool) {
	if l.cur+1 >= len(l.src) {
		return 0, false
	}
	return l.src[l.cur+1], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
	l.start = l.cur
}

func (l *Lexer) errf(format string, args ...interface{}) *LexError {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: fmt.Sprintf(format, args...)}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }

// Scan tokenizes the whole source. The returned slice always ends with
// an EOF token on success.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.cur
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur
	l.addToken(EOF, nil)
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	ch, _ := l.advance()
	switch ch {
	case ' ', '\t', '\r':
		l.start = l.cur
		return nil
	case '\n':
		l.addToken(NEWLINE, nil)
		return nil
	case '#':
		for {
			c, ok := l.peek()
			if !ok || c == '\n' {
				break
			}
			l.advance()
		}
		l.start = l.cur
		return nil
	case '(':
		l.addToken(LPAREN, nil)
	case ')':
		l.addToken(RPAREN, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '+':
		l.addToken(PLUS, nil)
	case '-':
		l.addToken(MINUS, nil)
	case '*':
		if c, ok := l.peek(); ok && c == '*' {
			l.advance()
			l.addToken(POWER, nil)
		} else {
			l.addToken(STAR, nil)
		}
	case '/':
		l.addToken(SLASH, nil)
	case '%':
		l.addToken(PERCENT, nil)
	case '=':
		// A single '=' is accepted as equality, as in the reference
		// implementation; there is no assignment operator.
		if c, ok := l.peek(); ok && c == '=' {
			l.advance()
		}
		l.addToken(EQ, nil)
	case '!':
		if c, ok := l.peek(); ok && c == '=' {
			l.advance()
			l.addToken(NEQ, nil)
			return nil
		}
		return l.errf("unexpected character '!' (use NOT or '!=')")
	case '<':
		if c, ok := l.peek(); ok && c == '=' {
			l.advance()
			l.addToken(LESS_EQ, nil)
		} else {
			l.addToken(LESS, nil)
		}
	case '>':
		if c, ok := l.peek(); ok && c == '=' {
			l.advance()
			l.addToken(GREATER_EQ, nil)
		} else {
			l.addToken(GREATER, nil)
		}
	case '"':
		return l.scanString()
	default:
		switch {
		case isDigit(ch):
			l.scanNumber()
		case isAlpha(ch):
			l.scanIdentifier()
		default:
			return l.errf("invalid character %q", string(rune(ch)))
		}
	}
	return nil
}

func (l *Lexer) scanNumber() {
	for {
		c, ok := l.peek()
		if !ok || !isDigit(c) {
			break
		}
		l.advance()
	}
	if c, ok := l.peek(); ok && c == '.' {
		if n, ok2 := l.peekNext(); ok2 && isDigit(n) {
			l.advance()
			for {
				c, ok := l.peek()
				if !ok || !isDigit(c) {
					break
				}
				l.advance()
			}
		}
	}
	var f float64
	fmt.Sscanf(l.src[l.start:l.cur], "%g", &f)
	l.addToken(NUMBER, f)
}

func (l *Lexer) scanIdentifier() {
	for {
		c, ok := l.peek()
		if !ok || !isAlphaNum(c) {
			break
		}
		l.advance()
	}
	word := l.src[l.start:l.cur]
	if tt, ok := keywords[word]; ok {
		l.addToken(tt, nil)
		return
	}
	l.addToken(ID, word)
}

// scanString consumes a double-quoted literal (the opening quote is
// already consumed) and builds its StringTemplate.
func (l *Lexer) scanString() error {
	tmpl := &StringTemplate{}
	var lit []byte
	flushLit := func() {
		tmpl.Segments = append(tmpl.Segments, TemplateSegment{Lit: string(lit)})
		lit = nil
	}
	for {
		c, ok := l.peek()
		if !ok || c == '\n' {
			return l.errf("unterminated string")
		}
		switch c {
		case '"':
			l.advance()
			if len(lit) > 0 || len(tmpl.Segments) == 0 {
				flushLit()
			}
			l.addToken(STRING, tmpl)
			return nil
		case '\\':
			l.advance()
			e, ok := l.advance()
			if !ok {
				return l.errf("unterminated string")
			}
			switch e {
			case 'n':
				lit = append(lit, '\n')
			case 't':
				lit = append(lit, '\t')
			case 'r':
				lit = append(lit, '\r')
			case '"':
				lit = append(lit, '"')
			case '\\':
				lit = append(lit, '\\')
			case '$':
				lit = append(lit, '$')
			default:
				return l.errf("unknown escape sequence '\\%s'", string(rune(e)))
			}
		case '$':
			if n, ok := l.peekNext(); ok && n == '{' {
				if len(lit) > 0 {
					flushLit()
				}
				l.advance() // '$'
				l.advance() // '{'
				seg, err := l.scanInterpolation()
				if err != nil {
					return err
				}
				tmpl.Segments = append(tmpl.Segments, seg)
				continue
			}
			l.advance()
			lit = append(lit, '$')
		default:
			l.advance()
			lit = append(lit, c)
		}
	}
}

// scanInterpolation reads the text of one ${...} hole (the "${" is
// already consumed) and tokenizes it with a sub-lexer.
func (l *Lexer) scanInterpolation() (TemplateSegment, error) {
	holeLine, holeCol := l.line, l.col
	begin := l.cur
	for {
		c, ok := l.peek()
		if !ok || c == '\n' || c == '"' {
			return TemplateSegment{}, l.errf("unterminated interpolation, expected '}'")
		}
		if c == '}' {
			break
		}
		l.advance()
	}
	text := l.src[begin:l.cur]
	l.advance() // '}'
	sub := newSubLexer(text, holeLine, holeCol)
	toks, err := sub.Scan()
	if err != nil {
		return TemplateSegment{}, err
	}
	// Drop the trailing EOF; the parser appends its own sentinel when
	// it parses the hole.
	if len(toks) > 0 && toks[len(toks)-1].Type == EOF {
		toks = toks[:len(toks)-1]
	}
	if len(toks) == 0 {
		return TemplateSegment{}, &LexError{Line: holeLine, Col: holeCol, Msg: "empty interpolation"}
	}
	return TemplateSegment{Toks: toks}, nil
}
