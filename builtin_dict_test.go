// builtin_dict_test.go
package anubhav

import (
	"strings"
	"testing"
)

func Test_Dict_PutFetchRoundTrip(t *testing.T) {
	in, _ := runSrc(t, `
DICT d
PUT d "name" "ada"
PUT d age 36
FETCH d "name" who
FETCH d "age" years
SIZE d n
`)
	wantStr(t, in, "who", "ada")
	wantNum(t, in, "years", 36)
	wantNum(t, in, "n", 2)
}

func Test_Dict_BareWordKeyIsLiteral(t *testing.T) {
	// `age` above and here is the literal key "age", not a variable.
	in, _ := runSrc(t, `
STORE age "should not be used"
DICT d
PUT d age 1
FETCH d age v
`)
	wantNum(t, in, "v", 1)
}

func Test_Dict_KeyNotFound(t *testing.T) {
	re := runFail(t, "DICT d\nFETCH d \"ghost\" v", ErrKeyNotFound)
	if !strings.Contains(re.Msg, "ghost") {
		t.Fatalf("message: %q", re.Msg)
	}
}

func Test_Dict_OverwriteAndDelete(t *testing.T) {
	in, _ := runSrc(t, `
DICT d
PUT d "k" 1
PUT d "k" 2
FETCH d "k" v
DELETE d "k"
DELETE d "missing"
SIZE d n
`)
	wantNum(t, in, "v", 2)
	wantNum(t, in, "n", 0)
}

func Test_Dict_KeysValuesSorted(t *testing.T) {
	in, _ := runSrc(t, `
DICT d
PUT d "b" 2
PUT d "a" 1
PUT d "c" 3
KEYS d ks
VALUES d vs
JOIN ks "," keyList
JOIN vs "," valList
`)
	wantStr(t, in, "keyList", "a,b,c")
	wantStr(t, in, "valList", "1,2,3")
}

func Test_Dict_MergeRightWins(t *testing.T) {
	in, _ := runSrc(t, `
DICT a
PUT a "x" 1
PUT a "y" 1
DICT b
PUT b "y" 2
PUT b "z" 2
MERGE a b m
FETCH m "x" x
FETCH m "y" y
FETCH m "z" z
SIZE a an
`)
	wantNum(t, in, "x", 1)
	wantNum(t, in, "y", 2)
	wantNum(t, in, "z", 2)
	wantNum(t, in, "an", 2)
}

func Test_Dict_TypeChecked(t *testing.T) {
	runFail(t, "STORE d 1\nPUT d \"k\" 2", ErrTypeMismatch)
	runFail(t, "ARRAY xs\nFETCH xs \"k\" v", ErrTypeMismatch)
}

func Test_Dict_TypeOperation(t *testing.T) {
	in, _ := runSrc(t, `
DICT d
STORE n 1
STORE s "x"
ARRAY xs
TYPE d td
TYPE n tn
TYPE s ts
TYPE xs ta
TYPE ghost tg
`)
	wantStr(t, in, "td", "dictionary")
	wantStr(t, in, "tn", "number")
	wantStr(t, in, "ts", "string")
	wantStr(t, in, "ta", "array")
	wantStr(t, in, "tg", "undefined")
}
