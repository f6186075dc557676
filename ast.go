// ast.go
//
// Typed syntax tree for Anubhav programs. Every node carries the
// position of its introducing token so runtime errors can point back
// into the source.
package anubhav

// Pos is a source position, 1-based line and 0-based column.
type Pos struct {
	Line int
	Col  int
}

// Statement is implemented by all statement nodes.
type Statement interface {
	stmtNode()
	StmtPos() Pos
}

// Expression is implemented by all expression nodes.
type Expression interface {
	exprNode()
	ExprPos() Pos
}

// ---- statements ----

// IntentStmt declares a named intention: INTENT name "description".
type IntentStmt struct {
	Pos  Pos
	Name string
	Desc *StringLit
}

// ManifestStmt prints the value bound to a name, optionally followed by
// a context string: MANIFEST name [WITH "context"].
type ManifestStmt struct {
	Pos  Pos
	Name string
	With *StringLit // nil when no WITH clause
}

// StoreStmt binds an expression result: STORE name expr.
type StoreStmt struct {
	Pos  Pos
	Name string
	Expr Expression
}

// CalculateStmt evaluates an expression into a name: CALCULATE name AS expr.
type CalculateStmt struct {
	Pos  Pos
	Name string
	Expr Expression
}

// CombineItem is one piece of a COMBINE or PRINT statement, either a
// string literal or a variable reference.
type CombineItem struct {
	Pos Pos
	Lit *StringLit // set for string pieces
	Var string     // set for identifier pieces
}

// CombineStmt concatenates pieces into a name: COMBINE name item {WITH item}.
type CombineStmt struct {
	Pos   Pos
	Name  string
	Items []CombineItem
}

// PrintStmt writes its items to standard output, joined by single
// spaces and followed by a newline.
type PrintStmt struct {
	Pos   Pos
	Items []CombineItem
}

// IncrementStmt adds a delta to a numeric variable. Decrement uses
// Delta -1.
type IncrementStmt struct {
	Pos   Pos
	Name  string
	Delta float64
}

// IfStmt is one IF/ELSE IF/ELSE chain. ElseIf links the next chain
// link; Else holds the final block.
type IfStmt struct {
	Pos    Pos
	Cond   Expression
	Then   []Statement
	ElseIf *IfStmt
	Else   []Statement
}

// ForStmt is a counted loop: FOR var FROM a TO b [STEP s] DO ... END.
type ForStmt struct {
	Pos  Pos
	Var  string
	From Expression
	To   Expression
	Step Expression // nil means step 1
	Body []Statement
}

// WhileStmt loops while a condition holds.
type WhileStmt struct {
	Pos  Pos
	Cond Expression
	Body []Statement
}

// RepeatStmt runs its body a fixed number of times: REPEAT n TIMES DO ... END.
type RepeatStmt struct {
	Pos   Pos
	Count Expression
	Body  []Statement
}

// SwitchCase is one CASE arm of a switch.
type SwitchCase struct {
	Pos   Pos
	Match Expression
	Body  []Statement
}

// SwitchStmt selects the first matching CASE, or DEFAULT.
type SwitchStmt struct {
	Pos     Pos
	Subject Expression
	Cases   []SwitchCase
	Default []Statement
}

// BreakStmt exits the innermost loop.
type BreakStmt struct{ Pos Pos }

// ContinueStmt skips to the next iteration of the innermost loop.
type ContinueStmt struct{ Pos Pos }

// TryStmt runs Body, and on a runtime error binds the message to
// ErrVar and runs Catch.
type TryStmt struct {
	Pos    Pos
	Body   []Statement
	ErrVar string
	Catch  []Statement
}

// AssertStmt raises an assertion failure when its condition is false.
type AssertStmt struct {
	Pos  Pos
	Cond Expression
	Msg  *StringLit // nil for the default message
}

// FuncDefStmt defines a named function: FUNCTION name(p1, p2) DO ... END.
type FuncDefStmt struct {
	Pos    Pos
	Name   string
	Params []string
	Body   []Statement
}

// CallStmt invokes a function, optionally binding its result:
// CALL name(args) [result].
type CallStmt struct {
	Pos    Pos
	Name   string
	Args   []Expression
	Result string
}

// ReturnStmt returns from the current function, with an optional value.
type ReturnStmt struct {
	Pos  Pos
	Expr Expression // nil returns the default value
}

// ImportStmt executes another source file in the current interpreter.
type ImportStmt struct {
	Pos  Pos
	Path *StringLit
}

// ExportStmt writes re-creatable source for the named bindings to a
// file.
type ExportStmt struct {
	Pos   Pos
	Names []string
	Path  *StringLit
}

// OpCallStmt is a builtin-operation statement. The parser resolves the
// leading identifier against the op table and parses arguments
// according to the op's signature; Args holds them in declaration
// order (identifiers and modes appear as IdentArg / ModeArg values).
type OpCallStmt struct {
	Pos  Pos
	Op   *OpSpec
	Args []OpArg
}

// OpArg is one parsed argument of an OpCallStmt.
type OpArg struct {
	Pos   Pos
	Ident string     // ident and out arguments, or a bare-word key
	Expr  Expression // expr, string and key arguments
	Mode  string     // mode arguments
}

func (s *IntentStmt) stmtNode()    {}
func (s *ManifestStmt) stmtNode()  {}
func (s *StoreStmt) stmtNode()     {}
func (s *CalculateStmt) stmtNode() {}
func (s *CombineStmt) stmtNode()   {}
func (s *PrintStmt) stmtNode()     {}
func (s *IncrementStmt) stmtNode() {}
func (s *IfStmt) stmtNode()        {}
func (s *ForStmt) stmtNode()       {}
func (s *WhileStmt) stmtNode()     {}
func (s *RepeatStmt) stmtNode()    {}
func (s *SwitchStmt) stmtNode()    {}
func (s *BreakStmt) stmtNode()     {}
func (s *ContinueStmt) stmtNode()  {}
func (s *TryStmt) stmtNode()       {}
func (s *AssertStmt) stmtNode()    {}
func (s *FuncDefStmt) stmtNode()   {}
func (s *CallStmt) stmtNode()      {}
func (s *ReturnStmt) stmtNode()    {}
func (s *ImportStmt) stmtNode()    {}
func (s *ExportStmt) stmtNode()    {}
func (s *OpCallStmt) stmtNode()    {}

func (s *IntentStmt) StmtPos() Pos    { return s.Pos }
func (s *ManifestStmt) StmtPos() Pos  { return s.Pos }
func (s *StoreStmt) StmtPos() Pos     { return s.Pos }
func (s *CalculateStmt) StmtPos() Pos { return s.Pos }
func (s *CombineStmt) StmtPos() Pos   { return s.Pos }
func (s *PrintStmt) StmtPos() Pos     { return s.Pos }
func (s *IncrementStmt) StmtPos() Pos { return s.Pos }
func (s *IfStmt) StmtPos() Pos        { return s.Pos }
func (s *ForStmt) StmtPos() Pos       { return s.Pos }
func (s *WhileStmt) StmtPos() Pos     { return s.Pos }
func (s *RepeatStmt) StmtPos() Pos    { return s.Pos }
func (s *SwitchStmt) StmtPos() Pos    { return s.Pos }
func (s *BreakStmt) StmtPos() Pos     { return s.Pos }
func (s *ContinueStmt) StmtPos() Pos  { return s.Pos }
func (s *TryStmt) StmtPos() Pos       { return s.Pos }
func (s *AssertStmt) StmtPos() Pos    { return s.Pos }
func (s *FuncDefStmt) StmtPos() Pos   { return s.Pos }
func (s *CallStmt) StmtPos() Pos      { return s.Pos }
func (s *ReturnStmt) StmtPos() Pos    { return s.Pos }
func (s *ImportStmt) StmtPos() Pos    { return s.Pos }
func (s *ExportStmt) StmtPos() Pos    { return s.Pos }
func (s *OpCallStmt) StmtPos() Pos    { return s.Pos }

// ---- expressions ----

// NumberLit is a numeric literal.
type NumberLit struct {
	Pos Pos
	Val float64
}

// StringLit is a string literal, possibly with interpolation holes.
// Holes hold the parsed expressions, aligned with template segments
// that have no Lit text.
type StringLit struct {
	Pos   Pos
	Tmpl  *StringTemplate
	Holes []Expression // one entry per non-literal segment, in order
}

// VarRef reads a variable.
type VarRef struct {
	Pos  Pos
	Name string
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Pos   Pos
	Op    TokenType
	Left  Expression
	Right Expression
}

// UnaryExpr applies a prefix operator (MINUS or NOT).
type UnaryExpr struct {
	Pos  Pos
	Op   TokenType
	Expr Expression
}

// FuncExpr is an expression-position builtin call such as MIN(a, b)
// or LENGTH(xs).
type FuncExpr struct {
	Pos  Pos
	Name string
	Args []Expression
}

func (e *NumberLit) exprNode()  {}
func (e *StringLit) exprNode()  {}
func (e *VarRef) exprNode()     {}
func (e *BinaryExpr) exprNode() {}
func (e *UnaryExpr) exprNode()  {}
func (e *FuncExpr) exprNode()   {}

func (e *NumberLit) ExprPos() Pos  { return e.Pos }
func (e *StringLit) ExprPos() Pos  { return e.Pos }
func (e *VarRef) ExprPos() Pos     { return e.Pos }
func (e *BinaryExpr) ExprPos() Pos { return e.Pos }
func (e *UnaryExpr) ExprPos() Pos  { return e.Pos }
func (e *FuncExpr) ExprPos() Pos   { return e.Pos }
