// errors.go: runtime error taxonomy and caret-snippet rendering
//
// Turns lexer/parser/runtime diagnostics into readable, Python-style
// error snippets with a caret pointing at the offending column. The
// primary entry point is `WrapErrorWithSource`, which recognizes
// `*LexError`, `*ParseError` and `*RuntimeError`, formats them, and
// returns a new `error` containing a multi-line snippet:
//
//	PARSE ERROR at 3:12: expected DO after condition
//
//	   2 | WHILE x < 10
//	   3 |              PRINT x
//	       |            ^
//	   4 | END
//
// The snippet includes up to one line of context before and after the
// error, numbers the lines, and places a caret under the 1-based
// column. Line/column are clamped to the source bounds so rendering
// never crashes on stale coordinates.
package anubhav

import (
	"fmt"
	"strings"
)

// ErrKind classifies a runtime error. TRY/CATCH can intercept every
// kind; the kind name is the prefix of the reported message.
type ErrKind int

const (
	ErrUndefinedVariable ErrKind = iota
	ErrUndefinedFunction
	ErrTypeMismatch
	ErrDivisionByZero
	ErrIndexOutOfRange
	ErrKeyNotFound
	ErrArityMismatch
	ErrAssertionFailure
	ErrStackOverflow
	ErrIO
	ErrControlFlow
)

var errKindNames = map[ErrKind]string{
	ErrUndefinedVariable: "UndefinedVariable",
	ErrUndefinedFunction: "UndefinedFunction",
	ErrTypeMismatch:      "TypeMismatch",
	ErrDivisionByZero:    "DivisionByZero",
	ErrIndexOutOfRange:   "IndexOutOfRange",
	ErrKeyNotFound:       "KeyNotFound",
	ErrArityMismatch:     "ArityMismatch",
	ErrAssertionFailure:  "AssertionFailure",
	ErrStackOverflow:     "StackOverflow",
	ErrIO:                "IOError",
	ErrControlFlow:       "ControlFlow",
}

func (k ErrKind) String() string {
	if s, ok := errKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrKind(%d)", int(k))
}

// RuntimeError is an evaluation failure. Line is 1-based and Col is
// 1-based (unlike lex/parse errors, which carry 0-based columns).
type RuntimeError struct {
	Kind ErrKind
	Msg  string
	Line int
	Col  int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Message is the text TRY/CATCH binds to the error variable.
func (e *RuntimeError) Message() string { return e.Error() }

func newRuntimeError(kind ErrKind, pos Pos, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Line: pos.Line,
		Col:  pos.Col + 1,
	}
}

/* ===========================
   PUBLIC API
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes lex/parse/runtime
// errors and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource plus a source name (e.g. a
// file path) shown in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Lex/parse Col are 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		// RuntimeError is already 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "RUNTIME ERROR", srcName, e.Line, e.Col, e.Error()))
	default:
		return err
	}
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: helpers & rendering
   =========================== */

// prettyErrorStringLabeled builds a Python-like snippet with a header
// and a caret. It shows at most one previous and one next line when
// available. Coordinates are treated as 1-based and clamped.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
