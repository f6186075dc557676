// lexer_test.go
package anubhav

import (
	"reflect"
	"strings"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func Test_Lexer_StoreAndArithmetic(t *testing.T) {
	src := "STORE total 2 + 3 * 4"
	got := wantTypes(t, src, []TokenType{
		STORE, ID, NUMBER, PLUS, NUMBER, STAR, NUMBER,
	})
	if got[1].Lexeme != "total" {
		t.Fatalf("identifier lexeme: %q", got[1].Lexeme)
	}
	if got[2].Literal.(float64) != 2 {
		t.Fatalf("number literal: %v", got[2].Literal)
	}
}

func Test_Lexer_NewlinesAndComments(t *testing.T) {
	src := "STORE a 1 # trailing comment\n# whole line\nSTORE b 2\n"
	wantTypes(t, src, []TokenType{
		STORE, ID, NUMBER, NEWLINE,
		NEWLINE,
		STORE, ID, NUMBER, NEWLINE,
	})
}

func Test_Lexer_OpKeywordsAreIdentifiers(t *testing.T) {
	// Operation words are resolved at parse time, not in the scanner.
	got := wantTypes(t, "PUSH xs 5", []TokenType{ID, ID, NUMBER})
	if got[0].Lexeme != "PUSH" {
		t.Fatalf("op word lexeme: %q", got[0].Lexeme)
	}
}

func Test_Lexer_StructuralKeywords(t *testing.T) {
	wantTypes(t, "FOR i FROM 1 TO 10 STEP 2 DO", []TokenType{
		FOR, ID, FROM, NUMBER, TO, NUMBER, STEP, NUMBER, DO,
	})
	wantTypes(t, "IF x >= 2 AND NOT y THEN", []TokenType{
		IF, ID, GREATER_EQ, NUMBER, AND, NOT, ID, THEN,
	})
}

func Test_Lexer_PowerAndComparisons(t *testing.T) {
	wantTypes(t, "CALCULATE x 2 ** 3 != 9", []TokenType{
		CALCULATE, ID, NUMBER, POWER, NUMBER, NEQ, NUMBER,
	})
	// A single '=' is accepted as equality.
	wantTypes(t, "IF a = b THEN", []TokenType{IF, ID, EQ, ID, THEN})
}

func Test_Lexer_PlainString(t *testing.T) {
	got := wantTypes(t, `PRINT "hello,\n \"world\""`, []TokenType{PRINT, STRING})
	tmpl := got[1].Literal.(*StringTemplate)
	if !tmpl.IsLiteral() {
		t.Fatalf("expected literal template")
	}
	if tmpl.LiteralText() != "hello,\n \"world\"" {
		t.Fatalf("literal text: %q", tmpl.LiteralText())
	}
}

func Test_Lexer_InterpolatedString(t *testing.T) {
	got := wantTypes(t, `PRINT "sum is ${a + b}!"`, []TokenType{PRINT, STRING})
	tmpl := got[1].Literal.(*StringTemplate)
	if tmpl.IsLiteral() {
		t.Fatalf("expected interpolation hole")
	}
	if len(tmpl.Segments) != 3 {
		t.Fatalf("segments: %d", len(tmpl.Segments))
	}
	if tmpl.Segments[0].Lit != "sum is " || tmpl.Segments[2].Lit != "!" {
		t.Fatalf("literal segments: %q / %q", tmpl.Segments[0].Lit, tmpl.Segments[2].Lit)
	}
	holeTypes := typesWithoutEOF(tmpl.Segments[1].Toks)
	if !reflect.DeepEqual(holeTypes, []TokenType{ID, PLUS, ID}) {
		t.Fatalf("hole tokens: %v", holeTypes)
	}
}

func Test_Lexer_EscapedDollarIsLiteral(t *testing.T) {
	got := wantTypes(t, `PRINT "cost \$${price}"`, []TokenType{PRINT, STRING})
	tmpl := got[1].Literal.(*StringTemplate)
	if tmpl.Segments[0].Lit != "cost $" {
		t.Fatalf("segment: %q", tmpl.Segments[0].Lit)
	}
}

func wantLexError(t *testing.T, src, substr string, line int) {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("expected lex error for %q", src)
	}
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
	if !strings.Contains(le.Msg, substr) {
		t.Fatalf("message %q does not contain %q", le.Msg, substr)
	}
	if le.Line != line {
		t.Fatalf("line = %d, want %d", le.Line, line)
	}
}

func Test_Lexer_Errors(t *testing.T) {
	wantLexError(t, "PRINT \"oops", "unterminated string", 1)
	wantLexError(t, "STORE a 1\nSTORE b @", "invalid character", 2)
	wantLexError(t, `PRINT "x ${a"`, "unterminated interpolation", 1)
	wantLexError(t, `PRINT "x ${}"`, "empty interpolation", 1)
	wantLexError(t, `PRINT "bad \q escape"`, "unknown escape", 1)
	wantLexError(t, "STORE x 1 ! 2", "unexpected character '!'", 1)
}

func Test_Lexer_Positions(t *testing.T) {
	got := toks(t, "STORE a 1\nSTORE bee 2")
	// Second STORE starts line 2, column 0; "bee" at column 6.
	var second *Token
	for i := range got {
		if got[i].Type == ID && got[i].Lexeme == "bee" {
			second = &got[i]
		}
	}
	if second == nil {
		t.Fatalf("token not found")
	}
	if second.Line != 2 || second.Col != 6 {
		t.Fatalf("pos = %d:%d", second.Line, second.Col)
	}
}
