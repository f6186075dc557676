// parser_test.go
package anubhav

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) []Statement {
	t.Helper()
	prog, err := ParseSource(src, DefaultOps())
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func wantParseError(t *testing.T, src, substr string) *ParseError {
	t.Helper()
	_, err := ParseSource(src, DefaultOps())
	if err == nil {
		t.Fatalf("expected parse error for:\n%s", src)
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(pe.Msg, substr) {
		t.Fatalf("message %q does not contain %q", pe.Msg, substr)
	}
	return pe
}

func Test_Parser_StoreShapes(t *testing.T) {
	prog := parse(t, "STORE x 1 + 2\nCALCULATE y x * 3\n")
	if len(prog) != 2 {
		t.Fatalf("statements: %d", len(prog))
	}
	st, ok := prog[0].(*StoreStmt)
	if !ok {
		t.Fatalf("statement 0: %T", prog[0])
	}
	if st.Name != "x" {
		t.Fatalf("name: %q", st.Name)
	}
	if _, ok := st.Expr.(*BinaryExpr); !ok {
		t.Fatalf("expr: %T", st.Expr)
	}
	if _, ok := prog[1].(*CalculateStmt); !ok {
		t.Fatalf("statement 1: %T", prog[1])
	}
}

func Test_Parser_Precedence(t *testing.T) {
	prog := parse(t, "STORE x 1 + 2 * 3")
	add := prog[0].(*StoreStmt).Expr.(*BinaryExpr)
	if add.Op != PLUS {
		t.Fatalf("root op: %v", add.Op)
	}
	mul, ok := add.Right.(*BinaryExpr)
	if !ok || mul.Op != STAR {
		t.Fatalf("right: %#v", add.Right)
	}
}

func Test_Parser_PowerRightAssociative(t *testing.T) {
	prog := parse(t, "STORE x 2 ** 3 ** 2")
	root := prog[0].(*StoreStmt).Expr.(*BinaryExpr)
	if root.Op != POWER {
		t.Fatalf("root op: %v", root.Op)
	}
	if _, ok := root.Right.(*BinaryExpr); !ok {
		t.Fatalf("expected nested power on the right, got %T", root.Right)
	}
	if _, ok := root.Left.(*NumberLit); !ok {
		t.Fatalf("expected literal on the left, got %T", root.Left)
	}
}

func Test_Parser_IfElseIfChain(t *testing.T) {
	src := `IF x > 10 THEN
PRINT "big"
ELSE IF x > 5 THEN
PRINT "medium"
ELSE
PRINT "small"
END
`
	prog := parse(t, src)
	st := prog[0].(*IfStmt)
	if st.ElseIf == nil {
		t.Fatalf("missing ELSE IF link")
	}
	if st.ElseIf.Else == nil {
		t.Fatalf("missing final ELSE")
	}
	if st.Else != nil {
		t.Fatalf("ELSE attached to the wrong link")
	}
}

func Test_Parser_ForWithStep(t *testing.T) {
	src := "FOR i FROM 10 TO 0 STEP -2 DO\nPRINT i\nEND\n"
	st := parse(t, src)[0].(*ForStmt)
	if st.Var != "i" || st.Step == nil || len(st.Body) != 1 {
		t.Fatalf("unexpected shape: %#v", st)
	}
}

func Test_Parser_SwitchShape(t *testing.T) {
	src := `SWITCH x
CASE 1 DO
PRINT "one"
CASE 2 DO
PRINT "two"
DEFAULT DO
PRINT "many"
END
`
	st := parse(t, src)[0].(*SwitchStmt)
	if len(st.Cases) != 2 || st.Default == nil {
		t.Fatalf("cases=%d default=%v", len(st.Cases), st.Default)
	}
}

func Test_Parser_FunctionAndCall(t *testing.T) {
	src := "FUNCTION add(a, b) DO\nRETURN a + b\nEND\nCALL add(1, 2) total\n"
	prog := parse(t, src)
	def := prog[0].(*FuncDefStmt)
	if len(def.Params) != 2 {
		t.Fatalf("params: %v", def.Params)
	}
	call := prog[1].(*CallStmt)
	if call.Name != "add" || len(call.Args) != 2 || call.Result != "total" {
		t.Fatalf("call shape: %#v", call)
	}
}

func Test_Parser_OpStatement(t *testing.T) {
	prog := parse(t, "ARRAY xs\nPUSH xs 1 + 2\nGET xs 0 first\n")
	get := prog[2].(*OpCallStmt)
	if get.Op.Name != "GET" || len(get.Args) != 3 {
		t.Fatalf("op shape: %#v", get)
	}
	if get.Args[0].Ident != "xs" || get.Args[2].Ident != "first" {
		t.Fatalf("op idents: %#v", get.Args)
	}
}

func Test_Parser_OptionalOpArgsKeepSlots(t *testing.T) {
	// RANGE without STEP keeps its slot so the result lands in
	// position 3 either way.
	st := parse(t, "RANGE 1 5 xs")[0].(*OpCallStmt)
	if len(st.Args) != 4 {
		t.Fatalf("args: %d", len(st.Args))
	}
	if st.Args[2].Expr != nil || st.Args[3].Ident != "xs" {
		t.Fatalf("slot alignment: %#v", st.Args)
	}

	st = parse(t, "RANGE 1 5 STEP 2 xs")[0].(*OpCallStmt)
	if st.Args[2].Expr == nil || st.Args[3].Ident != "xs" {
		t.Fatalf("explicit step: %#v", st.Args)
	}
}

func Test_Parser_SortModes(t *testing.T) {
	st := parse(t, "SORT xs DESC")[0].(*OpCallStmt)
	if st.Args[1].Mode != "DESC" {
		t.Fatalf("mode: %q", st.Args[1].Mode)
	}
	st = parse(t, "SORT xs")[0].(*OpCallStmt)
	if st.Args[1].Mode != "" {
		t.Fatalf("default mode: %q", st.Args[1].Mode)
	}
}

func Test_Parser_UnknownAndReservedOps(t *testing.T) {
	wantParseError(t, "FROBNICATE xs", "unknown statement")
	wantParseError(t, "LAMBDA f item * 2", "reserved")
}

func Test_Parser_InterpolationHole(t *testing.T) {
	prog := parse(t, `PRINT "total: ${a + b}"`)
	item := prog[0].(*PrintStmt).Items[0]
	if item.Lit == nil || len(item.Lit.Holes) != 1 {
		t.Fatalf("holes: %#v", item.Lit)
	}
	if _, ok := item.Lit.Holes[0].(*BinaryExpr); !ok {
		t.Fatalf("hole expr: %T", item.Lit.Holes[0])
	}
}

func Test_Parser_Incomplete(t *testing.T) {
	for _, src := range []string{
		"IF x > 1 THEN\nPRINT x\n",
		"WHILE 1 DO\n",
		"FUNCTION f() DO\n",
		"TRY DO\nPRINT x\n",
		"SWITCH x\nCASE 1 DO\n",
	} {
		_, err := ParseSource(src, DefaultOps())
		if err == nil {
			t.Fatalf("expected error for:\n%s", src)
		}
		if !IsIncomplete(err) {
			t.Fatalf("expected incomplete for:\n%s\ngot: %v", src, err)
		}
	}
	// A definitive syntax error is not "incomplete".
	if IsIncomplete(wantParseError(t, "STORE 1 2", "expected identifier")) {
		t.Fatalf("bad statement reported as incomplete")
	}
}

func Test_Parser_UnterminatedBlockNamesOpening(t *testing.T) {
	// The error names the construct and where it opened, not just the
	// missing terminator.
	pe := wantParseError(t, "STORE x 1\nFOR i FROM 1 TO 3 DO\nPRINT i\n",
		"expected END for FOR opened at 2:1")
	if !pe.Incomplete {
		t.Fatalf("unterminated block not reported as incomplete: %v", pe)
	}

	wantParseError(t, "WHILE 1 DO\n", "WHILE opened at 1:1")
	wantParseError(t, "TRY DO\nPRINT x\n", "expected CATCH for TRY opened at 1:1")
	wantParseError(t, "IF x > 1 THEN\nPRINT x\nELSE\nPRINT x\n", "ELSE opened at 3:1")
	wantParseError(t, "SWITCH x\nCASE 1 DO\nPRINT x\n", "CASE opened at 2:1")
}

func Test_Parser_TerminatorRequired(t *testing.T) {
	wantParseError(t, "BREAK BREAK", "expected end of line")
}
