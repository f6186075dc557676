// value.go: runtime values
//
// Anubhav has five runtime types: numbers (float64), strings, arrays,
// dictionaries and functions. Arrays and dictionaries are reference
// values: storing one under a second name aliases the same object, and
// only CLONE produces a deep copy.
package anubhav

import (
	"sort"
	"strconv"
	"strings"
)

// ValueTag discriminates the Value union.
type ValueTag int

const (
	TagNumber ValueTag = iota
	TagString
	TagArray
	TagDict
	TagFunction
)

var tagNames = map[ValueTag]string{
	TagNumber:   "number",
	TagString:   "string",
	TagArray:    "array",
	TagDict:     "dict",
	TagFunction: "function",
}

func (t ValueTag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "unknown"
}

// ArrayObject is the shared backing store of an array value.
type ArrayObject struct {
	Elems []Value
}

// DictObject is the shared backing store of a dictionary value.
type DictObject struct {
	Entries map[string]Value
}

// Function is a user-defined function. The body is executed in a fresh
// local frame; functions close over nothing.
type Function struct {
	Name   string
	Params []string
	Body   []Statement
	Pos    Pos
}

// Value is a tagged union over the five runtime types.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Constructors.

func Num(f float64) Value         { return Value{Tag: TagNumber, Data: f} }
func Str(s string) Value          { return Value{Tag: TagString, Data: s} }
func Arr(a *ArrayObject) Value    { return Value{Tag: TagArray, Data: a} }
func Dct(d *DictObject) Value     { return Value{Tag: TagDict, Data: d} }
func Fun(f *Function) Value       { return Value{Tag: TagFunction, Data: f} }
func NewArr(elems ...Value) Value { return Arr(&ArrayObject{Elems: elems}) }
func NewDict() Value              { return Dct(&DictObject{Entries: map[string]Value{}}) }

// Accessors. These assume the tag has been checked.

func (v Value) AsNum() float64      { return v.Data.(float64) }
func (v Value) AsStr() string       { return v.Data.(string) }
func (v Value) AsArr() *ArrayObject { return v.Data.(*ArrayObject) }
func (v Value) AsDict() *DictObject { return v.Data.(*DictObject) }
func (v Value) AsFun() *Function    { return v.Data.(*Function) }

// formatNumber renders a float the way users expect: integral values
// without a trailing ".0", everything else in shortest form.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Stringify renders a value for PRINT, MANIFEST, interpolation and
// string conversion. Dictionary keys are emitted in sorted order so
// output is deterministic.
func (v Value) Stringify() string {
	switch v.Tag {
	case TagNumber:
		return formatNumber(v.AsNum())
	case TagString:
		return v.AsStr()
	case TagArray:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.AsArr().Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Stringify())
		}
		b.WriteByte(']')
		return b.String()
	case TagDict:
		d := v.AsDict()
		keys := make([]string, 0, len(d.Entries))
		for k := range d.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(d.Entries[k].Stringify())
		}
		b.WriteByte('}')
		return b.String()
	case TagFunction:
		return "<function " + v.AsFun().Name + ">"
	}
	return "<unknown>"
}

// Clone deep-copies a value. Numbers, strings and functions are
// immutable and returned as-is; containers are copied recursively.
func (v Value) Clone() Value {
	switch v.Tag {
	case TagArray:
		src := v.AsArr().Elems
		elems := make([]Value, len(src))
		for i, e := range src {
			elems[i] = e.Clone()
		}
		return Arr(&ArrayObject{Elems: elems})
	case TagDict:
		entries := make(map[string]Value, len(v.AsDict().Entries))
		for k, e := range v.AsDict().Entries {
			entries[k] = e.Clone()
		}
		return Dct(&DictObject{Entries: entries})
	default:
		return v
	}
}

// valueEqual implements the '==' relation. Numbers and strings compare
// by value; arrays, dicts and functions compare by identity.
func valueEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagNumber:
		return a.AsNum() == b.AsNum()
	case TagString:
		return a.AsStr() == b.AsStr()
	default:
		return a.Data == b.Data
	}
}

// compareValues orders two values for the relational operators and for
// sorting. Numbers order numerically, strings lexicographically; mixed
// or non-orderable tags return ok=false.
func compareValues(a, b Value) (int, bool) {
	if a.Tag != b.Tag {
		return 0, false
	}
	switch a.Tag {
	case TagNumber:
		x, y := a.AsNum(), b.AsNum()
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		default:
			return 0, true
		}
	case TagString:
		return strings.Compare(a.AsStr(), b.AsStr()), true
	default:
		return 0, false
	}
}
