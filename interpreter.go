// interpreter.go: the Interp type, its options and expression
// evaluation. Statement execution lives in interpreter_exec.go, the
// built-in operation handlers in the builtin_* files.
package anubhav

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"
)

// DefaultMaxCallDepth bounds user-function recursion.
const DefaultMaxCallDepth = 256

// Interp executes Anubhav programs. One Interp holds one global scope;
// Run can be called repeatedly (the REPL relies on that).
type Interp struct {
	globals  *Env
	stack    []*frame
	ops      OpTable
	maxDepth int
	rng      *rand.Rand
	stdout   io.Writer
	stderr   io.Writer
	stdin    *bufio.Reader
	fs       FileSystem
	sleep    func(time.Duration)
}

// Option configures an Interp.
type Option func(*Interp)

// WithMaxCallDepth sets the user-function recursion limit.
func WithMaxCallDepth(n int) Option {
	return func(in *Interp) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

// WithRandomSeed makes RANDOM, SHUFFLE and SAMPLE deterministic.
func WithRandomSeed(seed int64) Option {
	return func(in *Interp) { in.rng = rand.New(rand.NewSource(seed)) }
}

// WithStdout redirects PRINT and MANIFEST output.
func WithStdout(w io.Writer) Option {
	return func(in *Interp) { in.stdout = w }
}

// WithStderr redirects diagnostic output.
func WithStderr(w io.Writer) Option {
	return func(in *Interp) { in.stderr = w }
}

// WithStdin redirects the INPUT operation.
func WithStdin(r io.Reader) Option {
	return func(in *Interp) { in.stdin = bufio.NewReader(r) }
}

// WithFileSystem substitutes the file-system port used by the IO
// operations and IMPORT/EXPORT.
func WithFileSystem(fs FileSystem) Option {
	return func(in *Interp) { in.fs = fs }
}

// withSleep is used by tests to avoid real delays.
func withSleep(f func(time.Duration)) Option {
	return func(in *Interp) { in.sleep = f }
}

// NewInterp creates an interpreter with the default operation table.
func NewInterp(opts ...Option) *Interp {
	in := &Interp{
		globals:  NewEnv(),
		ops:      DefaultOps(),
		maxDepth: DefaultMaxCallDepth,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		stdin:    bufio.NewReader(os.Stdin),
		fs:       osFS{},
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// RegisterOp installs a custom operation. Core operations and
// structural keywords cannot be redefined; the reserved names (LAMBDA,
// EVAL, ...) are fair game.
func (in *Interp) RegisterOp(spec *OpSpec) error {
	if spec == nil || spec.Name == "" || spec.Handler == nil {
		return fmt.Errorf("invalid operation spec")
	}
	if _, ok := keywords[spec.Name]; ok {
		return fmt.Errorf("'%s' is a language keyword", spec.Name)
	}
	if _, ok := in.ops[spec.Name]; ok {
		return fmt.Errorf("operation '%s' is already defined", spec.Name)
	}
	in.ops[spec.Name] = spec
	return nil
}

// Ops exposes the operation table for parsing (REPL probe).
func (in *Interp) Ops() OpTable { return in.ops }

// Globals exposes the global scope, mainly for embedding and tests.
func (in *Interp) Globals() *Env { return in.globals }

// Run lexes, parses and executes src against the interpreter's global
// scope. The returned error is a *LexError, *ParseError or
// *RuntimeError; use WrapErrorWithSource for display.
func (in *Interp) Run(src string) error {
	prog, err := ParseSource(src, in.ops)
	if err != nil {
		return err
	}
	return in.Exec(prog)
}

// Exec executes an already-parsed program.
func (in *Interp) Exec(prog []Statement) error {
	for _, st := range prog {
		c, err := in.execStmt(st)
		if err != nil {
			return err
		}
		if c.kind != ctrlNone {
			return ctrlEscapeError(c, st.StmtPos())
		}
	}
	return nil
}

// ctrlEscapeError converts a control signal that reached an illegal
// context into a runtime error.
func ctrlEscapeError(c ctrl, pos Pos) *RuntimeError {
	switch c.kind {
	case ctrlBreak:
		return newRuntimeError(ErrControlFlow, pos, "BREAK outside of a loop")
	case ctrlContinue:
		return newRuntimeError(ErrControlFlow, pos, "CONTINUE outside of a loop")
	default:
		return newRuntimeError(ErrControlFlow, pos, "RETURN outside of a function")
	}
}

/* ===========================
   scope access
   =========================== */

// getVar resolves a name: top call frame first, then globals.
func (in *Interp) getVar(name string) (Value, bool) {
	if n := len(in.stack); n > 0 {
		if v, ok := in.stack[n-1].locals.Get(name); ok {
			return v, true
		}
	}
	return in.globals.Get(name)
}

// setVar binds a name in the innermost scope.
func (in *Interp) setVar(name string, v Value) {
	if n := len(in.stack); n > 0 {
		in.stack[n-1].locals.Define(name, v)
		return
	}
	in.globals.Define(name, v)
}

// currentScope is the environment assignments target.
func (in *Interp) currentScope() *Env {
	if n := len(in.stack); n > 0 {
		return in.stack[n-1].locals
	}
	return in.globals
}

/* ===========================
   expression evaluation
   =========================== */

func (in *Interp) evalExpr(e Expression) (Value, error) {
	switch x := e.(type) {
	case *NumberLit:
		return Num(x.Val), nil
	case *StringLit:
		s, err := in.evalTemplate(x)
		if err != nil {
			return Value{}, err
		}
		return Str(s), nil
	case *VarRef:
		v, ok := in.getVar(x.Name)
		if !ok {
			return Value{}, newRuntimeError(ErrUndefinedVariable, x.Pos, "undefined variable '%s'", x.Name)
		}
		return v, nil
	case *UnaryExpr:
		return in.evalUnary(x)
	case *BinaryExpr:
		return in.evalBinary(x)
	case *FuncExpr:
		return in.evalFuncExpr(x)
	}
	return Value{}, newRuntimeError(ErrTypeMismatch, e.ExprPos(), "cannot evaluate expression")
}

// evalTemplate renders a string literal, evaluating each ${...} hole.
func (in *Interp) evalTemplate(lit *StringLit) (string, error) {
	out := ""
	hole := 0
	for _, seg := range lit.Tmpl.Segments {
		if seg.Toks == nil {
			out += seg.Lit
			continue
		}
		v, err := in.evalExpr(lit.Holes[hole])
		hole++
		if err != nil {
			return "", err
		}
		out += v.Stringify()
	}
	return out, nil
}

// truthy requires a number and reports non-zero. Conditions on other
// types are a type error, not a coercion.
func (in *Interp) truthy(v Value, pos Pos) (bool, error) {
	if v.Tag != TagNumber {
		return false, newRuntimeError(ErrTypeMismatch, pos, "condition must be a number, got %s", v.Tag)
	}
	return v.AsNum() != 0, nil
}

func boolNum(b bool) Value {
	if b {
		return Num(1)
	}
	return Num(0)
}

func (in *Interp) evalUnary(x *UnaryExpr) (Value, error) {
	v, err := in.evalExpr(x.Expr)
	if err != nil {
		return Value{}, err
	}
	switch x.Op {
	case MINUS:
		if v.Tag != TagNumber {
			return Value{}, newRuntimeError(ErrTypeMismatch, x.Pos, "cannot negate a %s", v.Tag)
		}
		return Num(-v.AsNum()), nil
	case NOT:
		b, err := in.truthy(v, x.Pos)
		if err != nil {
			return Value{}, err
		}
		return boolNum(!b), nil
	}
	return Value{}, newRuntimeError(ErrTypeMismatch, x.Pos, "bad unary operator")
}

func (in *Interp) evalBinary(x *BinaryExpr) (Value, error) {
	// AND / OR short-circuit.
	if x.Op == AND || x.Op == OR {
		lv, err := in.evalExpr(x.Left)
		if err != nil {
			return Value{}, err
		}
		lb, err := in.truthy(lv, x.Pos)
		if err != nil {
			return Value{}, err
		}
		if x.Op == AND && !lb {
			return Num(0), nil
		}
		if x.Op == OR && lb {
			return Num(1), nil
		}
		rv, err := in.evalExpr(x.Right)
		if err != nil {
			return Value{}, err
		}
		rb, err := in.truthy(rv, x.Pos)
		if err != nil {
			return Value{}, err
		}
		return boolNum(rb), nil
	}

	lv, err := in.evalExpr(x.Left)
	if err != nil {
		return Value{}, err
	}
	rv, err := in.evalExpr(x.Right)
	if err != nil {
		return Value{}, err
	}

	switch x.Op {
	case EQ:
		return boolNum(valueEqual(lv, rv)), nil
	case NEQ:
		return boolNum(!valueEqual(lv, rv)), nil
	case LESS, GREATER, LESS_EQ, GREATER_EQ:
		cmp, ok := compareValues(lv, rv)
		if !ok {
			return Value{}, newRuntimeError(ErrTypeMismatch, x.Pos, "cannot compare %s and %s", lv.Tag, rv.Tag)
		}
		switch x.Op {
		case LESS:
			return boolNum(cmp < 0), nil
		case GREATER:
			return boolNum(cmp > 0), nil
		case LESS_EQ:
			return boolNum(cmp <= 0), nil
		default:
			return boolNum(cmp >= 0), nil
		}
	case PLUS:
		if lv.Tag == TagString && rv.Tag == TagString {
			return Str(lv.AsStr() + rv.AsStr()), nil
		}
	}

	if lv.Tag != TagNumber || rv.Tag != TagNumber {
		return Value{}, newRuntimeError(ErrTypeMismatch, x.Pos, "arithmetic on %s and %s", lv.Tag, rv.Tag)
	}
	a, b := lv.AsNum(), rv.AsNum()
	switch x.Op {
	case PLUS:
		return Num(a + b), nil
	case MINUS:
		return Num(a - b), nil
	case STAR:
		return Num(a * b), nil
	case SLASH:
		if b == 0 {
			return Value{}, newRuntimeError(ErrDivisionByZero, x.Pos, "division by zero")
		}
		return Num(a / b), nil
	case PERCENT:
		if b == 0 {
			return Value{}, newRuntimeError(ErrDivisionByZero, x.Pos, "modulo by zero")
		}
		return Num(math.Mod(a, b)), nil
	case POWER:
		return Num(math.Pow(a, b)), nil
	}
	return Value{}, newRuntimeError(ErrTypeMismatch, x.Pos, "bad binary operator")
}

// evalFuncExpr dispatches the expression-position builtins.
func (in *Interp) evalFuncExpr(x *FuncExpr) (Value, error) {
	arity := func(n int) error {
		if len(x.Args) != n {
			return newRuntimeError(ErrArityMismatch, x.Pos, "%s expects %d argument(s), got %d", x.Name, n, len(x.Args))
		}
		return nil
	}
	oneNum := func() (float64, error) {
		if err := arity(1); err != nil {
			return 0, err
		}
		v, err := in.evalExpr(x.Args[0])
		if err != nil {
			return 0, err
		}
		if v.Tag != TagNumber {
			return 0, newRuntimeError(ErrTypeMismatch, x.Pos, "%s expects a number, got %s", x.Name, v.Tag)
		}
		return v.AsNum(), nil
	}

	switch x.Name {
	case "MIN", "MAX":
		if err := arity(2); err != nil {
			return Value{}, err
		}
		av, err := in.evalExpr(x.Args[0])
		if err != nil {
			return Value{}, err
		}
		bv, err := in.evalExpr(x.Args[1])
		if err != nil {
			return Value{}, err
		}
		if av.Tag != TagNumber || bv.Tag != TagNumber {
			return Value{}, newRuntimeError(ErrTypeMismatch, x.Pos, "%s expects numbers", x.Name)
		}
		if x.Name == "MIN" {
			return Num(math.Min(av.AsNum(), bv.AsNum())), nil
		}
		return Num(math.Max(av.AsNum(), bv.AsNum())), nil
	case "ABS":
		f, err := oneNum()
		if err != nil {
			return Value{}, err
		}
		return Num(math.Abs(f)), nil
	case "SQRT":
		f, err := oneNum()
		if err != nil {
			return Value{}, err
		}
		return Num(math.Sqrt(f)), nil
	case "FLOOR":
		f, err := oneNum()
		if err != nil {
			return Value{}, err
		}
		return Num(math.Floor(f)), nil
	case "CEIL":
		f, err := oneNum()
		if err != nil {
			return Value{}, err
		}
		return Num(math.Ceil(f)), nil
	case "ROUND":
		f, err := oneNum()
		if err != nil {
			return Value{}, err
		}
		return Num(math.Round(f)), nil
	case "RANDOM":
		if err := arity(0); err != nil {
			return Value{}, err
		}
		return Num(in.rng.Float64()), nil
	case "LENGTH", "SIZE":
		if err := arity(1); err != nil {
			return Value{}, err
		}
		v, err := in.evalExpr(x.Args[0])
		if err != nil {
			return Value{}, err
		}
		return valueLength(v, x.Pos, x.Name)
	}
	return Value{}, newRuntimeError(ErrUndefinedFunction, x.Pos, "unknown function '%s'", x.Name)
}

// valueLength counts runes of a string or elements of a container.
func valueLength(v Value, pos Pos, what string) (Value, error) {
	switch v.Tag {
	case TagString:
		return Num(float64(len([]rune(v.AsStr())))), nil
	case TagArray:
		return Num(float64(len(v.AsArr().Elems))), nil
	case TagDict:
		return Num(float64(len(v.AsDict().Entries))), nil
	}
	return Value{}, newRuntimeError(ErrTypeMismatch, pos, "%s expects a string, array or dict, got %s", what, v.Tag)
}
