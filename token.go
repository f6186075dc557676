// token.go
package anubhav

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	NEWLINE

	// Punctuation
	LPAREN // "("
	RPAREN // ")"
	COMMA  // ","

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	POWER      // "**"
	EQ         // "=="
	NEQ        // "!="
	LESS       // "<"
	GREATER    // ">"
	LESS_EQ    // "<="
	GREATER_EQ // ">="

	// Literals & identifiers
	ID
	NUMBER
	STRING

	// Statement keywords
	INTENT
	MANIFEST
	CALCULATE
	STORE
	COMBINE
	PRINT
	INCREMENT
	DECREMENT
	IF
	THEN
	ELSE
	FOR
	FROM
	TO
	STEP
	WHILE
	REPEAT
	TIMES
	SWITCH
	CASE
	DEFAULT
	BREAK
	CONTINUE
	TRY
	CATCH
	ASSERT
	FUNCTION
	CALL
	RETURN
	IMPORT
	EXPORT
	WITH
	RECALL
	DO
	END

	// Expression keywords
	AND
	OR
	NOT

	// Sort/order modes
	ASC
	DESC
)

// Token is a lexical token with optional literal payload.
// For STRING tokens Literal holds a *StringTemplate; for NUMBER a float64.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int // 1-based
	Col     int // 0-based
}

// StringTemplate is the scanned form of a double-quoted literal: literal
// segments interleaved with the token sub-streams of each ${...} hole.
// A plain string has a single segment with Toks == nil.
type StringTemplate struct {
	Segments []TemplateSegment
}

// TemplateSegment is either a literal chunk (Toks nil) or an interpolation
// hole carrying the tokens of the embedded expression.
type TemplateSegment struct {
	Lit  string
	Toks []Token
}

// IsLiteral reports whether the template has no interpolation holes.
func (t *StringTemplate) IsLiteral() bool {
	for _, s := range t.Segments {
		if s.Toks != nil {
			return false
		}
	}
	return true
}

// LiteralText joins the literal segments. Only meaningful when IsLiteral.
func (t *StringTemplate) LiteralText() string {
	out := ""
	for _, s := range t.Segments {
		out += s.Lit
	}
	return out
}

// keywords maps the structural (grammar) keywords. Built-in operation
// keywords (PUSH, SORT, FETCH, ...) deliberately lex as ID and are
// resolved against the operation table at parse time, so that hosts can
// register new operations without touching the lexer.
var keywords = map[string]TokenType{
	"INTENT":    INTENT,
	"MANIFEST":  MANIFEST,
	"CALCULATE": CALCULATE,
	"STORE":     STORE,
	"COMBINE":   COMBINE,
	"PRINT":     PRINT,
	"INCREMENT": INCREMENT,
	"DECREMENT": DECREMENT,
	"IF":        IF,
	"THEN":      THEN,
	"ELSE":      ELSE,
	"FOR":       FOR,
	"FROM":      FROM,
	"TO":        TO,
	"STEP":      STEP,
	"WHILE":     WHILE,
	"REPEAT":    REPEAT,
	"TIMES":     TIMES,
	"SWITCH":    SWITCH,
	"CASE":      CASE,
	"DEFAULT":   DEFAULT,
	"BREAK":     BREAK,
	"CONTINUE":  CONTINUE,
	"TRY":       TRY,
	"CATCH":     CATCH,
	"ASSERT":    ASSERT,
	"FUNCTION":  FUNCTION,
	"CALL":      CALL,
	"RETURN":    RETURN,
	"IMPORT":    IMPORT,
	"EXPORT":    EXPORT,
	"WITH":      WITH,
	"RECALL":    RECALL,
	"DO":        DO,
	"END":       END,
	"AND":       AND,
	"OR":        OR,
	"NOT":       NOT,
	"ASC":       ASC,
	"DESC":      DESC,
}

var tokenNames = map[TokenType]string{
	EOF:        "end of input",
	NEWLINE:    "end of line",
	LPAREN:     "'('",
	RPAREN:     "')'",
	COMMA:      "','",
	PLUS:       "'+'",
	MINUS:      "'-'",
	STAR:       "'*'",
	SLASH:      "'/'",
	PERCENT:    "'%'",
	POWER:      "'**'",
	EQ:         "'=='",
	NEQ:        "'!='",
	LESS:       "'<'",
	GREATER:    "'>'",
	LESS_EQ:    "'<='",
	GREATER_EQ: "'>='",
	ID:         "identifier",
	NUMBER:     "number",
	STRING:     "string",
	DO:         "DO",
	END:        "END",
	THEN:       "THEN",
	TIMES:      "TIMES",
	TO:         "TO",
	FROM:       "FROM",
	CATCH:      "CATCH",
}

func (tt TokenType) String() string {
	if n, ok := tokenNames[tt]; ok {
		return n
	}
	for kw, t := range keywords {
		if t == tt {
			return kw
		}
	}
	return "token"
}
