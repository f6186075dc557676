// builtin_misc.go: type introspection, conversion, input and timing
package anubhav

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func registerMiscOps(t OpTable) {
	t.add("TYPE", opType, aIdent("value"), aOut("result"))
	t.add("TYPE_OF", opType, aIdent("value"), aOut("result"))
	t.add("PARSE", opParse, aIdent("value"), aOut("result"))
	t.add("TO_STRING", opToString, aIdent("value"), aOut("result"))
	t.add("INPUT", opInput, aStr("prompt"), aOut("result"))
	t.add("SLEEP", opSleep, aExpr("milliseconds"))
}

// typeName is the user-facing name of a value's type.
func typeName(v Value) string {
	switch v.Tag {
	case TagNumber:
		return "number"
	case TagString:
		return "string"
	case TagArray:
		return "array"
	case TagDict:
		return "dictionary"
	case TagFunction:
		return "function"
	}
	return "undefined"
}

// TYPE of an unbound name is "undefined" rather than an error, so
// programs can probe for bindings.
func opType(c *opCtx) error {
	name := c.identName(0)
	v, ok := c.in.getVar(name)
	if !ok {
		c.bindOut(1, Str("undefined"))
		return nil
	}
	c.bindOut(1, Str(typeName(v)))
	return nil
}

// PARSE converts a string to a number, yielding 0 when it does not
// parse. Numbers pass through unchanged.
func opParse(c *opCtx) error {
	v, err := c.lookup(0)
	if err != nil {
		return err
	}
	switch v.Tag {
	case TagNumber:
		c.bindOut(1, v)
	case TagString:
		f, perr := strconv.ParseFloat(strings.TrimSpace(v.AsStr()), 64)
		if perr != nil {
			f = 0
		}
		c.bindOut(1, Num(f))
	default:
		return c.errf(ErrTypeMismatch, "cannot PARSE a %s", v.Tag)
	}
	return nil
}

func opToString(c *opCtx) error {
	v, err := c.lookup(0)
	if err != nil {
		return err
	}
	c.bindOut(1, Str(v.Stringify()))
	return nil
}

// INPUT prints the prompt, reads one line and binds it. A line that
// parses as a number is bound as a number, anything else as a string.
func opInput(c *opCtx) error {
	prompt, err := c.str(0)
	if err != nil {
		return err
	}
	fmt.Fprint(c.in.stdout, prompt)
	line, rerr := c.in.stdin.ReadString('\n')
	if rerr != nil && line == "" {
		return c.errf(ErrIO, "cannot read input: %v", rerr)
	}
	line = strings.TrimRight(line, "\r\n")
	if f, perr := strconv.ParseFloat(strings.TrimSpace(line), 64); perr == nil && strings.TrimSpace(line) != "" {
		c.bindOut(1, Num(f))
	} else {
		c.bindOut(1, Str(line))
	}
	return nil
}

func opSleep(c *opCtx) error {
	ms, err := c.num(0)
	if err != nil {
		return err
	}
	if ms > 0 {
		c.in.sleep(time.Duration(ms) * time.Millisecond)
	}
	return nil
}
