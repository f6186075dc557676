// builtin_strings.go: string operations
//
// All of these produce a new string (or array); the source variable is
// never mutated. Index and length semantics are rune-based so
// multi-byte text behaves the way users expect.
//
// UPPERCASE and LOWERCASE take the result name first, a quirk kept
// from the original language.
package anubhav

import "strings"

func registerStringOps(t OpTable) {
	t.add("UPPERCASE", opUppercase, aOut("result"), aIdent("source"))
	t.add("LOWERCASE", opLowercase, aOut("result"), aIdent("source"))
	t.add("TRIM", opTrim, aIdent("source"), aOut("result"))
	t.add("PAD", opPad, aIdent("source"), aExpr("width"), aStr("padding"), aOut("result"))
	t.add("REPLACE", opReplace, aIdent("source"), aStr("old"), aStr("new"), aOut("result"))
	t.add("SPLIT", opSplit, aIdent("source"), aStr("separator"), aOut("result"))
	t.add("SUBSTRING", opSubstring, aIdent("source"), aExpr("start"), aExpr("end"), aOut("result"))
	t.add("CONTAINS", opContains, aIdent("source"), aStr("needle"), aOut("result"))
	t.add("INCLUDES", opContains, aIdent("source"), aStr("needle"), aOut("result"))
	t.add("STARTS_WITH", opStartsWith, aIdent("source"), aStr("prefix"), aOut("result"))
	t.add("ENDS_WITH", opEndsWith, aIdent("source"), aStr("suffix"), aOut("result"))
	t.add("INDEX_OF", opIndexOf, aIdent("source"), aStr("needle"), aOut("result"))
}

// strVar resolves an ident argument to a string value.
func (c *opCtx) strVar(i int) (string, error) {
	v, err := c.lookup(i)
	if err != nil {
		return "", err
	}
	if v.Tag != TagString {
		a := c.st.Args[i]
		return "", c.errf(ErrTypeMismatch, "'%s' is a %s, expected string", a.Ident, v.Tag)
	}
	return v.AsStr(), nil
}

func opUppercase(c *opCtx) error {
	s, err := c.strVar(1)
	if err != nil {
		return err
	}
	c.bindOut(0, Str(strings.ToUpper(s)))
	return nil
}

func opLowercase(c *opCtx) error {
	s, err := c.strVar(1)
	if err != nil {
		return err
	}
	c.bindOut(0, Str(strings.ToLower(s)))
	return nil
}

func opTrim(c *opCtx) error {
	s, err := c.strVar(0)
	if err != nil {
		return err
	}
	c.bindOut(1, Str(strings.TrimSpace(s)))
	return nil
}

// PAD right-pads to the requested rune width, repeating the padding
// string as needed. A width at or below the current length is a no-op.
func opPad(c *opCtx) error {
	s, err := c.strVar(0)
	if err != nil {
		return err
	}
	wf, err := c.num(1)
	if err != nil {
		return err
	}
	pad, err := c.str(2)
	if err != nil {
		return err
	}
	width := int(wf)
	runes := []rune(s)
	if pad == "" || len(runes) >= width {
		c.bindOut(3, Str(s))
		return nil
	}
	padRunes := []rune(pad)
	for len(runes) < width {
		runes = append(runes, padRunes[(len(runes)-len([]rune(s)))%len(padRunes)])
	}
	c.bindOut(3, Str(string(runes)))
	return nil
}

func opReplace(c *opCtx) error {
	s, err := c.strVar(0)
	if err != nil {
		return err
	}
	old, err := c.str(1)
	if err != nil {
		return err
	}
	new_, err := c.str(2)
	if err != nil {
		return err
	}
	c.bindOut(3, Str(strings.ReplaceAll(s, old, new_)))
	return nil
}

func opSplit(c *opCtx) error {
	s, err := c.strVar(0)
	if err != nil {
		return err
	}
	sep, err := c.str(1)
	if err != nil {
		return err
	}
	parts := strings.Split(s, sep)
	elems := make([]Value, len(parts))
	for i, p := range parts {
		elems[i] = Str(p)
	}
	c.bindOut(2, Arr(&ArrayObject{Elems: elems}))
	return nil
}

// SUBSTRING is half-open [start, end) over runes, clamped.
func opSubstring(c *opCtx) error {
	s, err := c.strVar(0)
	if err != nil {
		return err
	}
	sf, err := c.num(1)
	if err != nil {
		return err
	}
	ef, err := c.num(2)
	if err != nil {
		return err
	}
	runes := []rune(s)
	start := clampCount(sf, len(runes))
	end := clampCount(ef, len(runes))
	if end < start {
		end = start
	}
	c.bindOut(3, Str(string(runes[start:end])))
	return nil
}

func opContains(c *opCtx) error {
	s, err := c.strVar(0)
	if err != nil {
		return err
	}
	needle, err := c.str(1)
	if err != nil {
		return err
	}
	c.bindOut(2, boolNum(strings.Contains(s, needle)))
	return nil
}

func opStartsWith(c *opCtx) error {
	s, err := c.strVar(0)
	if err != nil {
		return err
	}
	prefix, err := c.str(1)
	if err != nil {
		return err
	}
	c.bindOut(2, boolNum(strings.HasPrefix(s, prefix)))
	return nil
}

func opEndsWith(c *opCtx) error {
	s, err := c.strVar(0)
	if err != nil {
		return err
	}
	suffix, err := c.str(1)
	if err != nil {
		return err
	}
	c.bindOut(2, boolNum(strings.HasSuffix(s, suffix)))
	return nil
}

// INDEX_OF reports the rune index of the first occurrence, -1 when
// absent.
func opIndexOf(c *opCtx) error {
	s, err := c.strVar(0)
	if err != nil {
		return err
	}
	needle, err := c.str(1)
	if err != nil {
		return err
	}
	byteIdx := strings.Index(s, needle)
	if byteIdx < 0 {
		c.bindOut(2, Num(-1))
		return nil
	}
	c.bindOut(2, Num(float64(len([]rune(s[:byteIdx])))))
	return nil
}
