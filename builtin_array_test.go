// builtin_array_test.go
package anubhav

import (
	"bytes"
	"testing"
)

// pushAll builds source that fills a fresh array with the given numbers.
func pushAll(name string, nums ...float64) string {
	src := "ARRAY " + name + "\n"
	for _, n := range nums {
		src += "PUSH " + name + " " + formatNumber(n) + "\n"
	}
	return src
}

func wantJoined(t *testing.T, in *Interp, name, want string) {
	t.Helper()
	if err := in.Run("JOIN " + name + " \",\" joined_"); err != nil {
		t.Fatalf("join: %v", err)
	}
	wantStr(t, in, "joined_", want)
}

func Test_Array_PushPopGetSet(t *testing.T) {
	in, _ := runSrc(t, pushAll("xs", 10, 20, 30)+`
GET xs 1 second
SET xs 0 99
POP xs last
SIZE xs n
`)
	wantNum(t, in, "second", 20)
	wantNum(t, in, "last", 30)
	wantNum(t, in, "n", 2)
	wantJoined(t, in, "xs", "99,20")
}

func Test_Array_IndexErrors(t *testing.T) {
	runFail(t, pushAll("xs", 1)+"GET xs 5 v", ErrIndexOutOfRange)
	runFail(t, pushAll("xs", 1)+"GET xs -1 v", ErrIndexOutOfRange)
	runFail(t, "ARRAY xs\nPOP xs v", ErrIndexOutOfRange)
	runFail(t, pushAll("xs", 1, 2)+"SWAP xs 0 9", ErrIndexOutOfRange)
	runFail(t, "STORE s \"text\"\nPUSH s 1", ErrTypeMismatch)
}

func Test_Array_SortAscDesc(t *testing.T) {
	in, _ := runSrc(t, pushAll("xs", 5, 2, 8, 1, 9)+"SORT xs\n")
	wantJoined(t, in, "xs", "1,2,5,8,9")

	in, _ = runSrc(t, pushAll("ys", 5, 2, 8, 1, 9)+"SORT ys DESC\n")
	wantJoined(t, in, "ys", "9,8,5,2,1")
}

func Test_Array_SortStringsAndMixedFailure(t *testing.T) {
	in, _ := runSrc(t, `
ARRAY ws
PUSH ws "pear"
PUSH ws "apple"
PUSH ws "fig"
SORT ws
`)
	wantJoined(t, in, "ws", "apple,fig,pear")

	runFail(t, `
ARRAY ms
PUSH ms 1
PUSH ms "two"
SORT ms
`, ErrTypeMismatch)
}

func Test_Array_Reverse(t *testing.T) {
	in, _ := runSrc(t, pushAll("xs", 1, 2, 3)+"REVERSE xs\n")
	wantJoined(t, in, "xs", "3,2,1")
}

func Test_Array_MapFilterLeaveSourceAlone(t *testing.T) {
	in, _ := runSrc(t, pushAll("xs", 1, 2, 3, 4)+`
MAP xs item * 10 tens
FILTER xs item % 2 == 0 evens
`)
	wantJoined(t, in, "tens", "10,20,30,40")
	wantJoined(t, in, "evens", "2,4")
	wantJoined(t, in, "xs", "1,2,3,4")
}

func Test_Array_ImplicitVarsRestored(t *testing.T) {
	in, _ := runSrc(t, `
STORE item "mine"
STORE index 42
`+pushAll("xs", 1, 2)+`
MAP xs item + index doubled
`)
	// MAP saw its own bindings, the user's survive afterwards.
	wantJoined(t, in, "doubled", "1,3")
	wantStr(t, in, "item", "mine")
	wantNum(t, in, "index", 42)
}

func Test_Array_FindCountAllAny(t *testing.T) {
	in, _ := runSrc(t, pushAll("xs", 4, 7, 2, 9)+`
FIND xs item > 5 at
FIND xs item > 100 missing
COUNT xs item > 3 big
ALL xs item > 1 allBig
ANY xs item > 8 anyHuge
`)
	wantNum(t, in, "at", 1)
	wantNum(t, in, "missing", -1)
	wantNum(t, in, "big", 3)
	wantNum(t, in, "allBig", 1)
	wantNum(t, in, "anyHuge", 1)
}

func Test_Array_Fold(t *testing.T) {
	in, _ := runSrc(t, pushAll("xs", 1, 2, 3, 4)+"FOLD xs 1 acc * item product\n")
	wantNum(t, in, "product", 24)
}

func Test_Array_Aggregates(t *testing.T) {
	in, _ := runSrc(t, pushAll("xs", 4, 8, 2, 6)+`
SUM xs total
AVERAGE xs mean
MEDIAN xs mid
MIN_OF xs lo
MAX_OF xs hi
VARIANCE xs va
`)
	wantNum(t, in, "total", 20)
	wantNum(t, in, "mean", 5)
	wantNum(t, in, "mid", 5)
	wantNum(t, in, "lo", 2)
	wantNum(t, in, "hi", 8)
	wantNum(t, in, "va", 5)
}

func Test_Array_Mode(t *testing.T) {
	in, _ := runSrc(t, pushAll("xs", 3, 1, 3, 2, 1)+"MODE xs m\n")
	// 1 and 3 tie at two occurrences; the smaller wins.
	wantNum(t, in, "m", 1)
}

func Test_Array_EmptyAggregates(t *testing.T) {
	in, _ := runSrc(t, "ARRAY xs\nSUM xs total\n")
	wantNum(t, in, "total", 0)
	runFail(t, "ARRAY xs\nAVERAGE xs m", ErrIndexOutOfRange)
	runFail(t, "ARRAY xs\nMIN_OF xs m", ErrIndexOutOfRange)
	runFail(t, pushAll("xs", 1)+"PUSH xs \"two\"\nSUM xs total", ErrTypeMismatch)
}

func Test_Array_RangeTakeDropSlice(t *testing.T) {
	in, _ := runSrc(t, `
RANGE 1 5 xs
RANGE 10 0 STEP -5 down
TAKE xs 2 head
DROP xs 2 tail
TAKE xs 99 all
SLICE xs 1 3 mid
`)
	wantJoined(t, in, "xs", "1,2,3,4,5")
	wantJoined(t, in, "down", "10,5,0")
	wantJoined(t, in, "head", "1,2")
	wantJoined(t, in, "tail", "3,4,5")
	wantJoined(t, in, "all", "1,2,3,4,5")
	wantJoined(t, in, "mid", "2,3")
}

func Test_Array_SetOps(t *testing.T) {
	in, _ := runSrc(t, pushAll("a", 1, 2, 2, 3)+pushAll("b", 2, 4)+`
UNIQUE a ua
CONCAT a b ab
DIFF a b d
INTERSECTION a b i
UNION a b u
`)
	wantJoined(t, in, "ua", "1,2,3")
	wantJoined(t, in, "ab", "1,2,2,3,2,4")
	wantJoined(t, in, "d", "1,3")
	wantJoined(t, in, "i", "2")
	wantJoined(t, in, "u", "1,2,3,4")
}

func Test_Array_ZipFlatten(t *testing.T) {
	in, _ := runSrc(t, pushAll("a", 1, 2, 3)+pushAll("b", 10, 20)+`
ZIP a b pairs
FLATTEN pairs flat
`)
	wantJoined(t, in, "flat", "1,10,2,20")
}

func Test_Array_ClearSwapClone(t *testing.T) {
	in, _ := runSrc(t, pushAll("xs", 1, 2, 3)+`
CLONE xs copy
STORE alias xs
SWAP xs 0 2
CLEAR copy
SIZE copy n
`)
	// alias shares the backing store, the clone does not.
	wantJoined(t, in, "alias", "3,2,1")
	wantNum(t, in, "n", 0)
}

func Test_Array_CloneIsDeep(t *testing.T) {
	in, _ := runSrc(t, `
ARRAY inner
PUSH inner 1
ARRAY outer
PUSH outer inner
CLONE outer copy
PUSH inner 2
GET copy 0 copiedInner
SIZE copiedInner n
`)
	wantNum(t, in, "n", 1)
}

func Test_Array_ShuffleSampleDeterministic(t *testing.T) {
	src := pushAll("xs", 1, 2, 3, 4, 5, 6, 7, 8) + `
SHUFFLE xs
SAMPLE xs 3 picked
JOIN xs "," shuffled
JOIN picked "," sampled
`
	one, _ := runSrc(t, src, WithRandomSeed(99))
	two, _ := runSrc(t, src, WithRandomSeed(99))
	a1, _ := one.Globals().Get("shuffled")
	a2, _ := two.Globals().Get("shuffled")
	if a1.AsStr() != a2.AsStr() {
		t.Fatalf("same seed shuffled differently: %q vs %q", a1.AsStr(), a2.AsStr())
	}
	s1, _ := one.Globals().Get("sampled")
	s2, _ := two.Globals().Get("sampled")
	if s1.AsStr() != s2.AsStr() {
		t.Fatalf("same seed sampled differently: %q vs %q", s1.AsStr(), s2.AsStr())
	}
	p, _ := one.Globals().Get("picked")
	if len(p.AsArr().Elems) != 3 {
		t.Fatalf("sample size: %d", len(p.AsArr().Elems))
	}
}

func Test_Array_SharedReferenceThroughStore(t *testing.T) {
	in := NewInterp(WithStdout(new(bytes.Buffer)))
	if err := in.Run(pushAll("xs", 1) + "STORE ys xs\nPUSH ys 2\nSIZE xs n\n"); err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNum(t, in, "n", 2)
}
