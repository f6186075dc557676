// parser.go: recursive-descent parser
//
// Statements are keyword-led and newline-terminated. Structural
// keywords (IF, FOR, FUNCTION, ...) each have a dedicated rule;
// statements that start with a plain identifier are resolved against
// the operation table, which supplies the argument shape to parse.
// Expressions use precedence climbing: OR < AND < equality <
// relational < additive < multiplicative < power < unary.
package anubhav

import "fmt"

// ParseError reports a syntax failure. Col is 0-based. Incomplete is
// set when the parser ran out of input inside an open construct; the
// REPL uses it to decide whether to keep reading lines.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err is a ParseError caused by truncated
// input, i.e. the source could become valid with more lines.
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Incomplete
}

// mathFuncs are the builtins callable with f(args) syntax inside
// expressions. Arity is checked at evaluation time.
var mathFuncs = map[string]bool{
	"MIN":    true,
	"MAX":    true,
	"ABS":    true,
	"SQRT":   true,
	"FLOOR":  true,
	"CEIL":   true,
	"ROUND":  true,
	"RANDOM": true,
	"LENGTH": true,
	"SIZE":   true,
}

// Parser consumes a token slice produced by the lexer.
type Parser struct {
	toks []Token
	cur  int
	ops  OpTable
}

// NewParser creates a parser over toks, resolving op statements
// against ops.
func NewParser(toks []Token, ops OpTable) *Parser {
	return &Parser{toks: toks, ops: ops}
}

// ParseSource lexes and parses a whole program.
func ParseSource(src string, ops OpTable) ([]Statement, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return NewParser(toks, ops).Parse()
}

// Parse parses the whole token stream into a statement list.
func (p *Parser) Parse() ([]Statement, error) {
	var prog []Statement
	p.skipNewlines()
	for !p.check(EOF) {
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog = append(prog, st)
		if err := p.terminator(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	return prog, nil
}

/* ===========================
   token helpers
   =========================== */

func (p *Parser) peek() Token { return p.toks[p.cur] }

func (p *Parser) advance() Token {
	t := p.toks[p.cur]
	if t.Type != EOF {
		p.cur++
	}
	return t
}

func (p *Parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *Parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errAt(t Token, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Line:       t.Line,
		Col:        t.Col,
		Msg:        fmt.Sprintf(format, args...),
		Incomplete: t.Type == EOF,
	}
}

func (p *Parser) expect(tt TokenType, ctx string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	t := p.peek()
	return Token{}, p.errAt(t, "expected %s %s, got %s", tt, ctx, t.Type)
}

func (p *Parser) expectName(ctx string) (Token, error) {
	return p.expect(ID, ctx)
}

func (p *Parser) skipNewlines() {
	for p.check(NEWLINE) {
		p.advance()
	}
}

// terminator requires the end of a statement: a newline or EOF.
func (p *Parser) terminator() error {
	if p.check(NEWLINE) || p.check(EOF) {
		return nil
	}
	t := p.peek()
	return p.errAt(t, "unexpected %s, expected end of line", t.Type)
}

// atStmtEnd reports whether the current statement has no more tokens.
func (p *Parser) atStmtEnd() bool {
	return p.check(NEWLINE) || p.check(EOF)
}

func tokPos(t Token) Pos { return Pos{Line: t.Line, Col: t.Col} }

/* ===========================
   statements
   =========================== */

func (p *Parser) statement() (Statement, error) {
	t := p.peek()
	switch t.Type {
	case INTENT:
		return p.intentStmt()
	case MANIFEST:
		return p.manifestStmt()
	case STORE, CALCULATE:
		return p.storeStmt()
	case COMBINE:
		return p.combineStmt()
	case PRINT:
		return p.printStmt()
	case INCREMENT:
		return p.incrementStmt(1)
	case DECREMENT:
		return p.incrementStmt(-1)
	case IF:
		return p.ifStmt()
	case FOR:
		return p.forStmt()
	case WHILE:
		return p.whileStmt()
	case REPEAT:
		return p.repeatStmt()
	case SWITCH:
		return p.switchStmt()
	case BREAK:
		p.advance()
		return &BreakStmt{Pos: tokPos(t)}, nil
	case CONTINUE:
		p.advance()
		return &ContinueStmt{Pos: tokPos(t)}, nil
	case TRY:
		return p.tryStmt()
	case ASSERT:
		return p.assertStmt()
	case FUNCTION:
		return p.funcDefStmt()
	case CALL:
		return p.callStmt()
	case RETURN:
		return p.returnStmt()
	case IMPORT:
		return p.importStmt()
	case EXPORT:
		return p.exportStmt()
	case ID:
		return p.opStmt()
	default:
		return nil, p.errAt(t, "unexpected %s at start of statement", t.Type)
	}
}

func (p *Parser) intentStmt() (Statement, error) {
	kw := p.advance()
	name, err := p.expectName("after INTENT")
	if err != nil {
		return nil, err
	}
	desc, err := p.stringLit("after INTENT name")
	if err != nil {
		return nil, err
	}
	return &IntentStmt{Pos: tokPos(kw), Name: name.Lexeme, Desc: desc}, nil
}

func (p *Parser) manifestStmt() (Statement, error) {
	kw := p.advance()
	name, err := p.expectName("after MANIFEST")
	if err != nil {
		return nil, err
	}
	st := &ManifestStmt{Pos: tokPos(kw), Name: name.Lexeme}
	if p.match(WITH) {
		st.With, err = p.stringLit("after WITH")
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (p *Parser) storeStmt() (Statement, error) {
	kw := p.advance()
	name, err := p.expectName(fmt.Sprintf("after %s", kw.Lexeme))
	if err != nil {
		return nil, err
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if kw.Type == CALCULATE {
		return &CalculateStmt{Pos: tokPos(kw), Name: name.Lexeme, Expr: expr}, nil
	}
	return &StoreStmt{Pos: tokPos(kw), Name: name.Lexeme, Expr: expr}, nil
}

// combineItem parses a string literal or identifier piece.
func (p *Parser) combineItem(ctx string) (CombineItem, error) {
	t := p.peek()
	switch t.Type {
	case STRING:
		lit, err := p.stringLit(ctx)
		if err != nil {
			return CombineItem{}, err
		}
		return CombineItem{Pos: tokPos(t), Lit: lit}, nil
	case ID:
		p.advance()
		return CombineItem{Pos: tokPos(t), Var: t.Lexeme}, nil
	default:
		return CombineItem{}, p.errAt(t, "expected string or identifier %s, got %s", ctx, t.Type)
	}
}

func (p *Parser) combineStmt() (Statement, error) {
	kw := p.advance()
	name, err := p.expectName("after COMBINE")
	if err != nil {
		return nil, err
	}
	st := &CombineStmt{Pos: tokPos(kw), Name: name.Lexeme}
	for {
		// WITH between pieces is optional noise.
		p.match(WITH)
		item, err := p.combineItem("in COMBINE")
		if err != nil {
			return nil, err
		}
		st.Items = append(st.Items, item)
		if p.atStmtEnd() {
			break
		}
	}
	return st, nil
}

func (p *Parser) printStmt() (Statement, error) {
	kw := p.advance()
	st := &PrintStmt{Pos: tokPos(kw)}
	for {
		item, err := p.combineItem("in PRINT")
		if err != nil {
			return nil, err
		}
		st.Items = append(st.Items, item)
		if p.atStmtEnd() {
			break
		}
	}
	return st, nil
}

func (p *Parser) incrementStmt(delta float64) (Statement, error) {
	kw := p.advance()
	name, err := p.expectName(fmt.Sprintf("after %s", kw.Lexeme))
	if err != nil {
		return nil, err
	}
	return &IncrementStmt{Pos: tokPos(kw), Name: name.Lexeme, Delta: delta}, nil
}

func (p *Parser) ifStmt() (Statement, error) {
	st, err := p.ifChain()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(END, "to close IF"); err != nil {
		return nil, err
	}
	return st, nil
}

// ifChain parses "IF cond THEN block {ELSE IF ...} [ELSE block]"
// leaving the single closing END for the caller.
func (p *Parser) ifChain() (*IfStmt, error) {
	kw := p.advance() // IF
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(THEN, "after IF condition"); err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	st := &IfStmt{Pos: tokPos(kw), Cond: cond}
	st.Then, err = p.block(kw, "IF", ELSE, END)
	if err != nil {
		return nil, err
	}
	if p.check(ELSE) {
		et := p.advance()
		if p.check(IF) {
			st.ElseIf, err = p.ifChain()
			if err != nil {
				return nil, err
			}
		} else {
			if err := p.terminator(); err != nil {
				return nil, err
			}
			st.Else, err = p.block(et, "ELSE", END)
			if err != nil {
				return nil, err
			}
		}
	}
	return st, nil
}

func (p *Parser) forStmt() (Statement, error) {
	kw := p.advance()
	name, err := p.expectName("after FOR")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(FROM, "after FOR variable"); err != nil {
		return nil, err
	}
	from, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TO, "after FOR start"); err != nil {
		return nil, err
	}
	to, err := p.expression()
	if err != nil {
		return nil, err
	}
	st := &ForStmt{Pos: tokPos(kw), Var: name.Lexeme, From: from, To: to}
	if p.match(STEP) {
		st.Step, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	st.Body, err = p.doBlock(kw, "FOR")
	return st, err
}

func (p *Parser) whileStmt() (Statement, error) {
	kw := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.doBlock(kw, "WHILE")
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Pos: tokPos(kw), Cond: cond, Body: body}, nil
}

func (p *Parser) repeatStmt() (Statement, error) {
	kw := p.advance()
	count, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TIMES, "after REPEAT count"); err != nil {
		return nil, err
	}
	body, err := p.doBlock(kw, "REPEAT")
	if err != nil {
		return nil, err
	}
	return &RepeatStmt{Pos: tokPos(kw), Count: count, Body: body}, nil
}

func (p *Parser) switchStmt() (Statement, error) {
	kw := p.advance()
	subject, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	p.skipNewlines()
	st := &SwitchStmt{Pos: tokPos(kw), Subject: subject}
	for p.check(CASE) {
		ct := p.advance()
		match, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(DO, "after CASE value"); err != nil {
			return nil, err
		}
		if err := p.terminator(); err != nil {
			return nil, err
		}
		body, err := p.block(ct, "CASE", CASE, DEFAULT, END)
		if err != nil {
			return nil, err
		}
		st.Cases = append(st.Cases, SwitchCase{Pos: tokPos(ct), Match: match, Body: body})
	}
	if p.check(DEFAULT) {
		dt := p.advance()
		if _, err := p.expect(DO, "after DEFAULT"); err != nil {
			return nil, err
		}
		if err := p.terminator(); err != nil {
			return nil, err
		}
		st.Default, err = p.block(dt, "DEFAULT", END)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(END, "to close SWITCH"); err != nil {
		return nil, err
	}
	return st, nil
}

func (p *Parser) tryStmt() (Statement, error) {
	kw := p.advance()
	if _, err := p.expect(DO, "after TRY"); err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	body, err := p.block(kw, "TRY", CATCH)
	if err != nil {
		return nil, err
	}
	ct, err := p.expect(CATCH, "to close TRY block")
	if err != nil {
		return nil, err
	}
	errVar, err := p.expectName("after CATCH")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(DO, "after CATCH variable"); err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	catch, err := p.block(ct, "CATCH", END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(END, "to close CATCH"); err != nil {
		return nil, err
	}
	return &TryStmt{Pos: tokPos(kw), Body: body, ErrVar: errVar.Lexeme, Catch: catch}, nil
}

func (p *Parser) assertStmt() (Statement, error) {
	kw := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	st := &AssertStmt{Pos: tokPos(kw), Cond: cond}
	if p.check(STRING) {
		st.Msg, err = p.stringLit("after ASSERT condition")
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (p *Parser) funcDefStmt() (Statement, error) {
	kw := p.advance()
	name, err := p.expectName("after FUNCTION")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN, "after function name"); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(RPAREN) {
		for {
			pn, err := p.expectName("in parameter list")
			if err != nil {
				return nil, err
			}
			params = append(params, pn.Lexeme)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(RPAREN, "after parameter list"); err != nil {
		return nil, err
	}
	body, err := p.doBlock(kw, "FUNCTION")
	if err != nil {
		return nil, err
	}
	return &FuncDefStmt{Pos: tokPos(kw), Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) callStmt() (Statement, error) {
	kw := p.advance()
	name, err := p.expectName("after CALL")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN, "after function name"); err != nil {
		return nil, err
	}
	st := &CallStmt{Pos: tokPos(kw), Name: name.Lexeme}
	if !p.check(RPAREN) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			st.Args = append(st.Args, arg)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(RPAREN, "after arguments"); err != nil {
		return nil, err
	}
	if p.check(ID) {
		st.Result = p.advance().Lexeme
	}
	return st, nil
}

func (p *Parser) returnStmt() (Statement, error) {
	kw := p.advance()
	st := &ReturnStmt{Pos: tokPos(kw)}
	if !p.atStmtEnd() {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		st.Expr = expr
	}
	return st, nil
}

func (p *Parser) importStmt() (Statement, error) {
	kw := p.advance()
	path, err := p.stringLit("after IMPORT")
	if err != nil {
		return nil, err
	}
	return &ImportStmt{Pos: tokPos(kw), Path: path}, nil
}

func (p *Parser) exportStmt() (Statement, error) {
	kw := p.advance()
	st := &ExportStmt{Pos: tokPos(kw)}
	for p.check(ID) {
		st.Names = append(st.Names, p.advance().Lexeme)
	}
	if len(st.Names) == 0 {
		return nil, p.errAt(p.peek(), "expected at least one variable after EXPORT")
	}
	path, err := p.stringLit("after EXPORT variables")
	if err != nil {
		return nil, err
	}
	st.Path = path
	return st, nil
}

// opStmt parses a built-in operation statement, driven by the OpSpec
// argument shape.
func (p *Parser) opStmt() (Statement, error) {
	t := p.advance()
	spec, ok := p.ops[t.Lexeme]
	if !ok {
		if reservedOps[t.Lexeme] {
			return nil, p.errAt(t, "operation '%s' is reserved but not implemented", t.Lexeme)
		}
		return nil, p.errAt(t, "unknown statement '%s'", t.Lexeme)
	}
	st := &OpCallStmt{Pos: tokPos(t), Op: spec}
	for i, a := range spec.Args {
		// Omitted optional arguments keep their slot so argument
		// indices stay aligned with the OpSpec.
		if a.Optional && p.atStmtEnd() {
			st.Args = append(st.Args, OpArg{})
			continue
		}
		if a.Prefix != EOF {
			if a.Optional && !p.check(a.Prefix) {
				st.Args = append(st.Args, OpArg{})
				continue
			}
			if _, err := p.expect(a.Prefix, fmt.Sprintf("in %s", spec.Name)); err != nil {
				return nil, err
			}
		}
		arg, err := p.opArg(spec, i, a)
		if err != nil {
			return nil, err
		}
		st.Args = append(st.Args, arg)
	}
	return st, nil
}

func (p *Parser) opArg(spec *OpSpec, i int, a ArgSpec) (OpArg, error) {
	t := p.peek()
	switch a.Kind {
	case argIdent, argOut:
		name, err := p.expectName(fmt.Sprintf("for %s", argLabel(spec, i)))
		if err != nil {
			return OpArg{}, err
		}
		return OpArg{Pos: tokPos(name), Ident: name.Lexeme}, nil
	case argExpr:
		expr, err := p.expression()
		if err != nil {
			return OpArg{}, err
		}
		return OpArg{Pos: expr.ExprPos(), Expr: expr}, nil
	case argStr:
		lit, err := p.stringLit(fmt.Sprintf("for %s", argLabel(spec, i)))
		if err != nil {
			return OpArg{}, err
		}
		return OpArg{Pos: lit.Pos, Expr: lit}, nil
	case argKey:
		if p.check(ID) {
			name := p.advance()
			return OpArg{Pos: tokPos(name), Ident: name.Lexeme}, nil
		}
		lit, err := p.stringLit(fmt.Sprintf("for %s", argLabel(spec, i)))
		if err != nil {
			return OpArg{}, err
		}
		return OpArg{Pos: lit.Pos, Expr: lit}, nil
	case argMode:
		for _, m := range a.Modes {
			if p.check(m) {
				mt := p.advance()
				return OpArg{Pos: tokPos(mt), Mode: mt.Lexeme}, nil
			}
		}
		return OpArg{}, p.errAt(t, "invalid mode for %s", argLabel(spec, i))
	}
	return OpArg{}, p.errAt(t, "internal: bad argument kind")
}

// doBlock parses "DO <newline> block END". The opening keyword token
// is threaded through so an unterminated body names where it began.
func (p *Parser) doBlock(open Token, what string) ([]Statement, error) {
	if _, err := p.expect(DO, fmt.Sprintf("to open %s body", what)); err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	body, err := p.block(open, what, END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(END, fmt.Sprintf("to close %s", what)); err != nil {
		return nil, err
	}
	return body, nil
}

// block parses statements until one of the stop keywords, which is
// left unconsumed. Hitting EOF first is an incomplete-input error
// pointing back at the construct that opened the block.
func (p *Parser) block(open Token, what string, stops ...TokenType) ([]Statement, error) {
	var body []Statement
	p.skipNewlines()
	for {
		t := p.peek()
		for _, s := range stops {
			if t.Type == s {
				return body, nil
			}
		}
		if t.Type == EOF {
			return nil, p.errAt(t, "unexpected end of input, expected %s for %s opened at %d:%d",
				stops[len(stops)-1], what, open.Line, open.Col+1)
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		body = append(body, st)
		if err := p.terminator(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
}

/* ===========================
   expressions
   =========================== */

func (p *Parser) expression() (Expression, error) {
	return p.orExpr()
}

func (p *Parser) orExpr() (Expression, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.check(OR) {
		op := p.advance()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Pos: tokPos(op), Op: OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) andExpr() (Expression, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(AND) {
		op := p.advance()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Pos: tokPos(op), Op: AND, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) equality() (Expression, error) {
	left, err := p.relational()
	if err != nil {
		return nil, err
	}
	for p.check(EQ) || p.check(NEQ) {
		op := p.advance()
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Pos: tokPos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) relational() (Expression, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.check(LESS) || p.check(GREATER) || p.check(LESS_EQ) || p.check(GREATER_EQ) {
		op := p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Pos: tokPos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) additive() (Expression, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(PLUS) || p.check(MINUS) {
		op := p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Pos: tokPos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) multiplicative() (Expression, error) {
	left, err := p.powerExpr()
	if err != nil {
		return nil, err
	}
	for p.check(STAR) || p.check(SLASH) || p.check(PERCENT) {
		op := p.advance()
		right, err := p.powerExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Pos: tokPos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

// powerExpr is right-associative: 2 ** 3 ** 2 is 2 ** (3 ** 2).
func (p *Parser) powerExpr() (Expression, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	if p.check(POWER) {
		op := p.advance()
		right, err := p.powerExpr()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Pos: tokPos(op), Op: POWER, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) unary() (Expression, error) {
	if p.check(NOT) || p.check(MINUS) {
		op := p.advance()
		expr, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Pos: tokPos(op), Op: op.Type, Expr: expr}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (Expression, error) {
	t := p.peek()
	switch t.Type {
	case NUMBER:
		p.advance()
		return &NumberLit{Pos: tokPos(t), Val: t.Literal.(float64)}, nil
	case STRING:
		return p.stringLit("in expression")
	case LPAREN:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "to close group"); err != nil {
			return nil, err
		}
		return expr, nil
	case RECALL:
		p.advance()
		name, err := p.expectName("after RECALL")
		if err != nil {
			return nil, err
		}
		return &VarRef{Pos: tokPos(name), Name: name.Lexeme}, nil
	case ID:
		p.advance()
		if p.check(LPAREN) {
			if !mathFuncs[t.Lexeme] {
				return nil, p.errAt(t, "unknown function '%s'", t.Lexeme)
			}
			p.advance()
			var args []Expression
			if !p.check(RPAREN) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if _, err := p.expect(RPAREN, "after arguments"); err != nil {
				return nil, err
			}
			return &FuncExpr{Pos: tokPos(t), Name: t.Lexeme, Args: args}, nil
		}
		return &VarRef{Pos: tokPos(t), Name: t.Lexeme}, nil
	default:
		return nil, p.errAt(t, "unexpected %s in expression", t.Type)
	}
}

// stringLit consumes a STRING token and parses the expression of every
// interpolation hole.
func (p *Parser) stringLit(ctx string) (*StringLit, error) {
	tok, err := p.expect(STRING, ctx)
	if err != nil {
		return nil, err
	}
	tmpl := tok.Literal.(*StringTemplate)
	lit := &StringLit{Pos: tokPos(tok), Tmpl: tmpl}
	for _, seg := range tmpl.Segments {
		if seg.Toks == nil {
			continue
		}
		expr, err := parseHole(seg.Toks, p.ops)
		if err != nil {
			return nil, err
		}
		lit.Holes = append(lit.Holes, expr)
	}
	return lit, nil
}

// parseHole parses the token stream of one ${...} hole as a single
// expression.
func parseHole(toks []Token, ops OpTable) (Expression, error) {
	end := Pos{Line: 1, Col: 0}
	if n := len(toks); n > 0 {
		end = Pos{Line: toks[n-1].Line, Col: toks[n-1].Col + len(toks[n-1].Lexeme)}
	}
	toks = append(append([]Token{}, toks...), Token{Type: EOF, Line: end.Line, Col: end.Col})
	sub := NewParser(toks, ops)
	expr, err := sub.expression()
	if err != nil {
		// A broken hole can never be completed by more input.
		if pe, ok := err.(*ParseError); ok {
			pe.Incomplete = false
		}
		return nil, err
	}
	if !sub.check(EOF) {
		t := sub.peek()
		return nil, sub.errAt(t, "unexpected %s in interpolation", t.Type)
	}
	return expr, nil
}
