// interpreter_exec.go: statement execution
//
// Every exec function returns (ctrl, error). The ctrl value carries
// BREAK/CONTINUE/RETURN upward until a loop or function call absorbs
// it; the error is always a *RuntimeError and is what TRY/CATCH
// intercepts.
package anubhav

import (
	"fmt"
	"sort"
	"strings"
)

// execBlock runs a statement list, stopping at the first control
// signal or error.
func (in *Interp) execBlock(body []Statement) (ctrl, error) {
	for _, st := range body {
		c, err := in.execStmt(st)
		if err != nil {
			return ctrlDone, err
		}
		if c.kind != ctrlNone {
			return c, nil
		}
	}
	return ctrlDone, nil
}

func (in *Interp) execStmt(st Statement) (ctrl, error) {
	switch s := st.(type) {
	case *IntentStmt:
		text, err := in.evalTemplate(s.Desc)
		if err != nil {
			return ctrlDone, err
		}
		in.setVar(s.Name, Str(text))
		return ctrlDone, nil

	case *ManifestStmt:
		v, ok := in.getVar(s.Name)
		if !ok {
			return ctrlDone, newRuntimeError(ErrUndefinedVariable, s.Pos, "undefined variable '%s'", s.Name)
		}
		out := v.Stringify()
		if s.With != nil {
			ctx, err := in.evalTemplate(s.With)
			if err != nil {
				return ctrlDone, err
			}
			out += " " + ctx
		}
		fmt.Fprintln(in.stdout, out)
		return ctrlDone, nil

	case *StoreStmt:
		v, err := in.evalExpr(s.Expr)
		if err != nil {
			return ctrlDone, err
		}
		in.setVar(s.Name, v)
		return ctrlDone, nil

	case *CalculateStmt:
		v, err := in.evalExpr(s.Expr)
		if err != nil {
			return ctrlDone, err
		}
		in.setVar(s.Name, v)
		return ctrlDone, nil

	case *CombineStmt:
		var b strings.Builder
		for _, item := range s.Items {
			piece, err := in.combinePiece(item)
			if err != nil {
				return ctrlDone, err
			}
			b.WriteString(piece)
		}
		in.setVar(s.Name, Str(b.String()))
		return ctrlDone, nil

	case *PrintStmt:
		parts := make([]string, 0, len(s.Items))
		for _, item := range s.Items {
			piece, err := in.combinePiece(item)
			if err != nil {
				return ctrlDone, err
			}
			parts = append(parts, piece)
		}
		fmt.Fprintln(in.stdout, strings.Join(parts, " "))
		return ctrlDone, nil

	case *IncrementStmt:
		v, ok := in.getVar(s.Name)
		if !ok {
			// Unbound counters start at the delta itself.
			in.setVar(s.Name, Num(s.Delta))
			return ctrlDone, nil
		}
		if v.Tag != TagNumber {
			return ctrlDone, newRuntimeError(ErrTypeMismatch, s.Pos, "cannot increment '%s', it is a %s", s.Name, v.Tag)
		}
		in.setVar(s.Name, Num(v.AsNum()+s.Delta))
		return ctrlDone, nil

	case *IfStmt:
		return in.execIf(s)

	case *ForStmt:
		return in.execFor(s)

	case *WhileStmt:
		return in.execWhile(s)

	case *RepeatStmt:
		return in.execRepeat(s)

	case *SwitchStmt:
		return in.execSwitch(s)

	case *BreakStmt:
		return ctrl{kind: ctrlBreak}, nil

	case *ContinueStmt:
		return ctrl{kind: ctrlContinue}, nil

	case *TryStmt:
		c, err := in.execBlock(s.Body)
		if err == nil {
			return c, nil
		}
		re, ok := err.(*RuntimeError)
		if !ok {
			return ctrlDone, err
		}
		in.setVar(s.ErrVar, Str(re.Message()))
		return in.execBlock(s.Catch)

	case *AssertStmt:
		v, err := in.evalExpr(s.Cond)
		if err != nil {
			return ctrlDone, err
		}
		ok, err := in.truthy(v, s.Pos)
		if err != nil {
			return ctrlDone, err
		}
		if !ok {
			msg := "assertion failed"
			if s.Msg != nil {
				msg, err = in.evalTemplate(s.Msg)
				if err != nil {
					return ctrlDone, err
				}
			}
			return ctrlDone, newRuntimeError(ErrAssertionFailure, s.Pos, "%s", msg)
		}
		return ctrlDone, nil

	case *FuncDefStmt:
		fn := &Function{Name: s.Name, Params: s.Params, Body: s.Body, Pos: s.Pos}
		in.globals.Define(s.Name, Fun(fn))
		return ctrlDone, nil

	case *CallStmt:
		v, err := in.callFunction(s.Name, s.Args, s.Pos)
		if err != nil {
			return ctrlDone, err
		}
		if s.Result != "" {
			in.setVar(s.Result, v)
		}
		return ctrlDone, nil

	case *ReturnStmt:
		val := Num(0)
		if s.Expr != nil {
			v, err := in.evalExpr(s.Expr)
			if err != nil {
				return ctrlDone, err
			}
			val = v
		}
		return ctrl{kind: ctrlReturn, val: val}, nil

	case *ImportStmt:
		return ctrlDone, in.execImport(s)

	case *ExportStmt:
		return ctrlDone, in.execExport(s)

	case *OpCallStmt:
		c := &opCtx{in: in, st: s}
		return ctrlDone, s.Op.Handler(c)
	}
	return ctrlDone, newRuntimeError(ErrTypeMismatch, st.StmtPos(), "cannot execute statement")
}

// combinePiece stringifies one COMBINE/PRINT item.
func (in *Interp) combinePiece(item CombineItem) (string, error) {
	if item.Lit != nil {
		return in.evalTemplate(item.Lit)
	}
	v, ok := in.getVar(item.Var)
	if !ok {
		return "", newRuntimeError(ErrUndefinedVariable, item.Pos, "undefined variable '%s'", item.Var)
	}
	return v.Stringify(), nil
}

/* ===========================
   control flow
   =========================== */

func (in *Interp) execIf(s *IfStmt) (ctrl, error) {
	v, err := in.evalExpr(s.Cond)
	if err != nil {
		return ctrlDone, err
	}
	ok, err := in.truthy(v, s.Cond.ExprPos())
	if err != nil {
		return ctrlDone, err
	}
	switch {
	case ok:
		return in.execBlock(s.Then)
	case s.ElseIf != nil:
		return in.execIf(s.ElseIf)
	default:
		return in.execBlock(s.Else)
	}
}

// loopBody runs one iteration and folds break/continue into (stop,
// ctrl-to-propagate).
func (in *Interp) loopBody(body []Statement) (stop bool, c ctrl, err error) {
	c, err = in.execBlock(body)
	if err != nil {
		return true, ctrlDone, err
	}
	switch c.kind {
	case ctrlBreak:
		return true, ctrlDone, nil
	case ctrlContinue:
		return false, ctrlDone, nil
	case ctrlReturn:
		return true, c, nil
	}
	return false, ctrlDone, nil
}

func (in *Interp) execFor(s *ForStmt) (ctrl, error) {
	fromV, err := in.evalExpr(s.From)
	if err != nil {
		return ctrlDone, err
	}
	toV, err := in.evalExpr(s.To)
	if err != nil {
		return ctrlDone, err
	}
	if fromV.Tag != TagNumber || toV.Tag != TagNumber {
		return ctrlDone, newRuntimeError(ErrTypeMismatch, s.Pos, "FOR bounds must be numbers")
	}
	step := 1.0
	if s.Step != nil {
		sv, err := in.evalExpr(s.Step)
		if err != nil {
			return ctrlDone, err
		}
		if sv.Tag != TagNumber {
			return ctrlDone, newRuntimeError(ErrTypeMismatch, s.Pos, "FOR step must be a number")
		}
		step = sv.AsNum()
	}
	if step == 0 {
		return ctrlDone, nil
	}
	from, to := fromV.AsNum(), toV.AsNum()
	for i := from; (step > 0 && i <= to) || (step < 0 && i >= to); i += step {
		in.setVar(s.Var, Num(i))
		stop, c, err := in.loopBody(s.Body)
		if err != nil {
			return ctrlDone, err
		}
		if stop {
			return c, nil
		}
	}
	return ctrlDone, nil
}

func (in *Interp) execWhile(s *WhileStmt) (ctrl, error) {
	for {
		v, err := in.evalExpr(s.Cond)
		if err != nil {
			return ctrlDone, err
		}
		ok, err := in.truthy(v, s.Cond.ExprPos())
		if err != nil {
			return ctrlDone, err
		}
		if !ok {
			return ctrlDone, nil
		}
		stop, c, err := in.loopBody(s.Body)
		if err != nil {
			return ctrlDone, err
		}
		if stop {
			return c, nil
		}
	}
}

func (in *Interp) execRepeat(s *RepeatStmt) (ctrl, error) {
	v, err := in.evalExpr(s.Count)
	if err != nil {
		return ctrlDone, err
	}
	if v.Tag != TagNumber {
		return ctrlDone, newRuntimeError(ErrTypeMismatch, s.Pos, "REPEAT count must be a number, got %s", v.Tag)
	}
	n := int(v.AsNum())
	for i := 0; i < n; i++ {
		stop, c, err := in.loopBody(s.Body)
		if err != nil {
			return ctrlDone, err
		}
		if stop {
			return c, nil
		}
	}
	return ctrlDone, nil
}

func (in *Interp) execSwitch(s *SwitchStmt) (ctrl, error) {
	subject, err := in.evalExpr(s.Subject)
	if err != nil {
		return ctrlDone, err
	}
	for _, cs := range s.Cases {
		mv, err := in.evalExpr(cs.Match)
		if err != nil {
			return ctrlDone, err
		}
		if valueEqual(subject, mv) {
			return in.execBlock(cs.Body)
		}
	}
	return in.execBlock(s.Default)
}

/* ===========================
   functions
   =========================== */

// callFunction invokes a user function with positional arguments
// evaluated in the caller's scope.
func (in *Interp) callFunction(name string, args []Expression, pos Pos) (Value, error) {
	fv, ok := in.globals.Get(name)
	if !ok || fv.Tag != TagFunction {
		return Value{}, newRuntimeError(ErrUndefinedFunction, pos, "undefined function '%s'", name)
	}
	fn := fv.AsFun()
	if len(args) != len(fn.Params) {
		return Value{}, newRuntimeError(ErrArityMismatch, pos,
			"function '%s' expects %d argument(s), got %d", name, len(fn.Params), len(args))
	}
	if len(in.stack) >= in.maxDepth {
		top := in.stack[len(in.stack)-1]
		return Value{}, newRuntimeError(ErrStackOverflow, pos,
			"call depth limit of %d exceeded calling '%s' (inside '%s' called at %d:%d)",
			in.maxDepth, name, top.fn.Name, top.callAt.Line, top.callAt.Col+1)
	}
	locals := NewEnv()
	for i, param := range fn.Params {
		v, err := in.evalExpr(args[i])
		if err != nil {
			return Value{}, err
		}
		locals.Define(param, v)
	}
	in.stack = append(in.stack, &frame{fn: fn, locals: locals, callAt: pos})
	defer func() { in.stack = in.stack[:len(in.stack)-1] }()

	c, err := in.execBlock(fn.Body)
	if err != nil {
		return Value{}, err
	}
	switch c.kind {
	case ctrlReturn:
		return c.val, nil
	case ctrlNone:
		return Num(0), nil
	default:
		return Value{}, ctrlEscapeError(c, fn.Pos)
	}
}

/* ===========================
   IMPORT / EXPORT
   =========================== */

func (in *Interp) execImport(s *ImportStmt) error {
	path, err := in.evalTemplate(s.Path)
	if err != nil {
		return err
	}
	src, rerr := in.fs.ReadFile(path)
	if rerr != nil {
		return newRuntimeError(ErrIO, s.Pos, "cannot import '%s': %v", path, rerr)
	}
	prog, perr := ParseSource(src, in.ops)
	if perr != nil {
		return newRuntimeError(ErrIO, s.Pos, "cannot import '%s': %v", path, perr)
	}
	return in.Exec(prog)
}

func (in *Interp) execExport(s *ExportStmt) error {
	path, err := in.evalTemplate(s.Path)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, name := range s.Names {
		v, ok := in.getVar(name)
		if !ok {
			return newRuntimeError(ErrUndefinedVariable, s.Pos, "undefined variable '%s'", name)
		}
		if err := writeExport(&b, name, v, s.Pos); err != nil {
			return err
		}
	}
	if werr := in.fs.WriteFile(path, b.String()); werr != nil {
		return newRuntimeError(ErrIO, s.Pos, "cannot export to '%s': %v", path, werr)
	}
	return nil
}

// writeExport emits statements that re-create a binding when run.
func writeExport(b *strings.Builder, name string, v Value, pos Pos) error {
	switch v.Tag {
	case TagNumber:
		fmt.Fprintf(b, "STORE %s %s\n", name, formatNumber(v.AsNum()))
		return nil
	case TagString:
		fmt.Fprintf(b, "STORE %s %s\n", name, quoteExport(v.AsStr()))
		return nil
	case TagArray:
		fmt.Fprintf(b, "ARRAY %s\n", name)
		for _, e := range v.AsArr().Elems {
			lit, err := exportScalar(e, pos)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "PUSH %s %s\n", name, lit)
		}
		return nil
	case TagDict:
		fmt.Fprintf(b, "DICT %s\n", name)
		d := v.AsDict()
		keys := make([]string, 0, len(d.Entries))
		for k := range d.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lit, err := exportScalar(d.Entries[k], pos)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "PUT %s %s %s\n", name, quoteExport(k), lit)
		}
		return nil
	}
	return newRuntimeError(ErrTypeMismatch, pos, "cannot export '%s', it is a %s", name, v.Tag)
}

// exportScalar renders a number or string element as a literal.
func exportScalar(v Value, pos Pos) (string, error) {
	switch v.Tag {
	case TagNumber:
		return formatNumber(v.AsNum()), nil
	case TagString:
		return quoteExport(v.AsStr()), nil
	}
	return "", newRuntimeError(ErrTypeMismatch, pos, "cannot export nested %s values", v.Tag)
}

// quoteExport writes a string literal with the escapes the lexer
// understands.
func quoteExport(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\t", "\\t",
		"\r", "\\r",
		"$", "\\$",
	)
	return "\"" + r.Replace(s) + "\""
}
