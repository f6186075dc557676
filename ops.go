// ops.go: the built-in operation table
//
// Every fixed-shape builtin statement (PUSH, SORT, FETCH, READ_FILE,
// ...) is described by one OpSpec: its keyword, its argument shape and
// its handler. The parser uses the shape to parse the statement; the
// evaluator dispatches straight to the handler. Op keywords are not
// lexer keywords, so hosts can extend the table with RegisterOp
// without touching the scanner.
package anubhav

import "fmt"

// ArgKind describes how the parser consumes one argument position.
type ArgKind int

const (
	argIdent ArgKind = iota // variable name, read by the handler
	argOut                  // variable name, written by the handler
	argExpr                 // arbitrary expression
	argStr                  // string literal (template)
	argKey                  // dictionary key: string template or bare word
	argMode                 // one keyword out of a fixed set
)

// ArgSpec is one argument position of an op.
type ArgSpec struct {
	Kind     ArgKind
	Name     string // used in arity diagnostics
	Optional bool   // only meaningful on trailing positions
	// Prefix, when nonzero, is a keyword token that must introduce the
	// argument (e.g. STEP in RANGE a b STEP s out). An optional
	// prefixed argument is present iff the prefix token is next.
	Prefix TokenType
	Modes  []TokenType // accepted tokens for argMode
}

// OpHandler executes one op call. Argument access goes through opCtx.
type OpHandler func(c *opCtx) error

// OpSpec describes one built-in operation.
type OpSpec struct {
	Name    string
	Args    []ArgSpec
	Handler OpHandler
}

// OpTable maps an operation keyword to its spec.
type OpTable map[string]*OpSpec

func (t OpTable) add(name string, handler OpHandler, args ...ArgSpec) {
	t[name] = &OpSpec{Name: name, Args: args, Handler: handler}
}

// Shorthand ArgSpec constructors used by the builtin_* files.

func aIdent(name string) ArgSpec { return ArgSpec{Kind: argIdent, Name: name} }
func aOut(name string) ArgSpec   { return ArgSpec{Kind: argOut, Name: name} }
func aExpr(name string) ArgSpec  { return ArgSpec{Kind: argExpr, Name: name} }
func aStr(name string) ArgSpec   { return ArgSpec{Kind: argStr, Name: name} }
func aKey(name string) ArgSpec   { return ArgSpec{Kind: argKey, Name: name} }

// reservedOps are keywords held for future operations. Using one
// without registering a spec is a parse error, not an unknown-word
// error, so the message can say what happened.
var reservedOps = map[string]bool{
	"LAMBDA":    true,
	"EVAL":      true,
	"PIPE":      true,
	"REDUCE":    true,
	"UNZIP":     true,
	"GROUP_BY":  true,
	"PARTITION": true,
}

// DefaultOps builds the full built-in table.
func DefaultOps() OpTable {
	t := OpTable{}
	registerArrayOps(t)
	registerStringOps(t)
	registerDictOps(t)
	registerFileOps(t)
	registerMiscOps(t)
	return t
}

/* ===========================
   Handler-side argument access
   =========================== */

// opCtx gives an op handler typed access to its parsed arguments.
// Index positions follow the OpSpec argument order; optional trailing
// arguments that were omitted are absent (use has).
type opCtx struct {
	in *Interp
	st *OpCallStmt
}

func (c *opCtx) pos() Pos { return c.st.Pos }

// has reports whether the argument at position i was supplied.
// Omitted optional arguments occupy their slot as zero values.
func (c *opCtx) has(i int) bool {
	if i >= len(c.st.Args) {
		return false
	}
	a := c.st.Args[i]
	return a.Ident != "" || a.Expr != nil || a.Mode != ""
}

// identName returns the raw identifier of an ident/out argument.
func (c *opCtx) identName(i int) string { return c.st.Args[i].Ident }

// lookup resolves an ident argument to its value.
func (c *opCtx) lookup(i int) (Value, error) {
	a := c.st.Args[i]
	v, ok := c.in.getVar(a.Ident)
	if !ok {
		return Value{}, newRuntimeError(ErrUndefinedVariable, a.Pos, "undefined variable '%s'", a.Ident)
	}
	return v, nil
}

// array resolves an ident argument to an array object.
func (c *opCtx) array(i int) (*ArrayObject, error) {
	v, err := c.lookup(i)
	if err != nil {
		return nil, err
	}
	if v.Tag != TagArray {
		a := c.st.Args[i]
		return nil, newRuntimeError(ErrTypeMismatch, a.Pos, "'%s' is a %s, expected array", a.Ident, v.Tag)
	}
	return v.AsArr(), nil
}

// dict resolves an ident argument to a dictionary object.
func (c *opCtx) dict(i int) (*DictObject, error) {
	v, err := c.lookup(i)
	if err != nil {
		return nil, err
	}
	if v.Tag != TagDict {
		a := c.st.Args[i]
		return nil, newRuntimeError(ErrTypeMismatch, a.Pos, "'%s' is a %s, expected dict", a.Ident, v.Tag)
	}
	return v.AsDict(), nil
}

// eval evaluates an expr argument.
func (c *opCtx) eval(i int) (Value, error) {
	return c.in.evalExpr(c.st.Args[i].Expr)
}

// num evaluates an expr argument and requires a number.
func (c *opCtx) num(i int) (float64, error) {
	v, err := c.eval(i)
	if err != nil {
		return 0, err
	}
	if v.Tag != TagNumber {
		a := c.st.Args[i]
		return 0, newRuntimeError(ErrTypeMismatch, a.Pos, "expected number for %s, got %s", argLabel(c.st.Op, i), v.Tag)
	}
	return v.AsNum(), nil
}

// str evaluates a str/key/expr argument and requires a string. A bare
// word in key position is taken literally.
func (c *opCtx) str(i int) (string, error) {
	a := c.st.Args[i]
	if a.Expr == nil {
		return a.Ident, nil
	}
	v, err := c.in.evalExpr(a.Expr)
	if err != nil {
		return "", err
	}
	if v.Tag != TagString {
		return "", newRuntimeError(ErrTypeMismatch, a.Pos, "expected string for %s, got %s", argLabel(c.st.Op, i), v.Tag)
	}
	return v.AsStr(), nil
}

// bindOut binds an out argument in the current scope.
func (c *opCtx) bindOut(i int, v Value) {
	c.in.setVar(c.st.Args[i].Ident, v)
}

// mode returns the keyword of a mode argument, or "" when omitted.
func (c *opCtx) mode(i int) string {
	if !c.has(i) {
		return ""
	}
	return c.st.Args[i].Mode
}

func (c *opCtx) errf(kind ErrKind, format string, args ...interface{}) *RuntimeError {
	return newRuntimeError(kind, c.st.Pos, format, args...)
}

func argLabel(op *OpSpec, i int) string {
	if i < len(op.Args) && op.Args[i].Name != "" {
		return fmt.Sprintf("%s argument '%s'", op.Name, op.Args[i].Name)
	}
	return fmt.Sprintf("%s argument %d", op.Name, i+1)
}
