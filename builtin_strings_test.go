// builtin_strings_test.go
package anubhav

import "testing"

func Test_Strings_CaseAndTrim(t *testing.T) {
	in, _ := runSrc(t, `
STORE s "  Hello World  "
TRIM s clean
UPPERCASE up clean
LOWERCASE low clean
`)
	wantStr(t, in, "clean", "Hello World")
	wantStr(t, in, "up", "HELLO WORLD")
	wantStr(t, in, "low", "hello world")
}

func Test_Strings_ReplaceAndPad(t *testing.T) {
	in, _ := runSrc(t, `
STORE s "a-b-c"
REPLACE s "-" "+" plus
PAD s 8 "." padded
PAD s 3 "." unchanged
`)
	wantStr(t, in, "plus", "a+b+c")
	wantStr(t, in, "padded", "a-b-c...")
	wantStr(t, in, "unchanged", "a-b-c")
}

func Test_Strings_SplitJoinRoundTrip(t *testing.T) {
	in, _ := runSrc(t, `
STORE csv "red,green,blue"
SPLIT csv "," parts
SIZE parts n
GET parts 1 middle
JOIN parts ";" rejoined
`)
	wantNum(t, in, "n", 3)
	wantStr(t, in, "middle", "green")
	wantStr(t, in, "rejoined", "red;green;blue")
}

func Test_Strings_SubstringRuneSafe(t *testing.T) {
	in, _ := runSrc(t, `
STORE s "héllo"
SUBSTRING s 1 3 mid
SUBSTRING s 3 99 tail
SUBSTRING s 4 2 empty
`)
	wantStr(t, in, "mid", "él")
	wantStr(t, in, "tail", "lo")
	wantStr(t, in, "empty", "")
}

func Test_Strings_Predicates(t *testing.T) {
	in, _ := runSrc(t, `
STORE s "hello world"
CONTAINS s "lo w" a
INCLUDES s "xyz" b
STARTS_WITH s "hello" c
ENDS_WITH s "world" d
INDEX_OF s "world" at
INDEX_OF s "zzz" missing
`)
	wantNum(t, in, "a", 1)
	wantNum(t, in, "b", 0)
	wantNum(t, in, "c", 1)
	wantNum(t, in, "d", 1)
	wantNum(t, in, "at", 6)
	wantNum(t, in, "missing", -1)
}

func Test_Strings_IndexOfCountsRunes(t *testing.T) {
	in, _ := runSrc(t, "STORE s \"héllo\"\nINDEX_OF s \"llo\" at\n")
	wantNum(t, in, "at", 2)
}

func Test_Strings_SourceTypeChecked(t *testing.T) {
	runFail(t, "STORE n 5\nTRIM n out", ErrTypeMismatch)
	runFail(t, "TRIM ghost out", ErrUndefinedVariable)
}

func Test_Strings_LengthFunction(t *testing.T) {
	in, _ := runSrc(t, "STORE s \"héllo\"\nCALCULATE n LENGTH(s)\n")
	wantNum(t, in, "n", 5)
}
