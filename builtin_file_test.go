// builtin_file_test.go
package anubhav

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// fakeFS is an in-memory FileSystem.
type fakeFS struct {
	files map[string]string
}

func newFakeFS() *fakeFS { return &fakeFS{files: map[string]string{}} }

func (f *fakeFS) ReadFile(path string) (string, error) {
	s, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("no such file: %s", path)
	}
	return s, nil
}

func (f *fakeFS) WriteFile(path, content string) error {
	f.files[path] = content
	return nil
}

func (f *fakeFS) AppendFile(path, content string) error {
	f.files[path] += content
	return nil
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func Test_File_WriteReadAppendExists(t *testing.T) {
	fs := newFakeFS()
	in, _ := runSrc(t, `
WRITE_FILE "notes.txt" "line one"
APPEND_FILE "notes.txt" " and two"
READ_FILE "notes.txt" content
EXISTS "notes.txt" there
EXISTS "ghost.txt" gone
`, WithFileSystem(fs))
	wantStr(t, in, "content", "line one and two")
	wantNum(t, in, "there", 1)
	wantNum(t, in, "gone", 0)
}

func Test_File_ContentIsStringified(t *testing.T) {
	fs := newFakeFS()
	runSrc(t, "STORE n 42\nWRITE_FILE \"n.txt\" n\n", WithFileSystem(fs))
	if fs.files["n.txt"] != "42" {
		t.Fatalf("content: %q", fs.files["n.txt"])
	}
}

func Test_File_ReadMissingIsIOError(t *testing.T) {
	re := runFailOpts(t, `READ_FILE "ghost.txt" content`, ErrIO, WithFileSystem(newFakeFS()))
	if !strings.Contains(re.Msg, "ghost.txt") {
		t.Fatalf("message: %q", re.Msg)
	}
}

func Test_File_IOErrorIsCatchable(t *testing.T) {
	in, _ := runSrc(t, `
TRY DO
READ_FILE "ghost.txt" content
CATCH e DO
STORE content "fallback"
END
`, WithFileSystem(newFakeFS()))
	wantStr(t, in, "content", "fallback")
	v, _ := in.Globals().Get("e")
	if !strings.Contains(v.AsStr(), "IOError") {
		t.Fatalf("bound message: %#v", v)
	}
}

func Test_File_InterpolatedPath(t *testing.T) {
	fs := newFakeFS()
	runSrc(t, `
STORE day 7
WRITE_FILE "log-${day}.txt" "entry"
`, WithFileSystem(fs))
	if _, ok := fs.files["log-7.txt"]; !ok {
		t.Fatalf("files: %v", fs.files)
	}
}

func Test_Import_RunsFileInSameScope(t *testing.T) {
	fs := newFakeFS()
	fs.files["lib.anubhav"] = "FUNCTION twice(x) DO\nRETURN x * 2\nEND\nSTORE shared 5\n"
	in, _ := runSrc(t, `
IMPORT "lib.anubhav"
CALL twice(shared) r
`, WithFileSystem(fs))
	wantNum(t, in, "r", 10)
}

func Test_Import_MissingAndBrokenFiles(t *testing.T) {
	runFailOpts(t, `IMPORT "ghost.anubhav"`, ErrIO, WithFileSystem(newFakeFS()))

	fs := newFakeFS()
	fs.files["bad.anubhav"] = "IF x THEN\n"
	runFailOpts(t, `IMPORT "bad.anubhav"`, ErrIO, WithFileSystem(fs))
}

func Test_Export_RoundTrip(t *testing.T) {
	fs := newFakeFS()
	runSrc(t, `
STORE n 42
STORE s "hi \"there\""
ARRAY xs
PUSH xs 1
PUSH xs "two"
DICT d
PUT d "k" 9
EXPORT n s xs d "state.anubhav"
`, WithFileSystem(fs))
	if !strings.Contains(fs.files["state.anubhav"], "STORE n 42") {
		t.Fatalf("exported source:\n%s", fs.files["state.anubhav"])
	}

	in2 := NewInterp(WithFileSystem(fs))
	if err := in2.Run(`IMPORT "state.anubhav"`); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	wantNum(t, in2, "n", 42)
	v, _ := in2.Globals().Get("xs")
	if v.Tag != TagArray || len(v.AsArr().Elems) != 2 {
		t.Fatalf("re-imported array: %#v", v)
	}
	dv, _ := in2.Globals().Get("d")
	if dv.AsDict().Entries["k"].AsNum() != 9 {
		t.Fatalf("re-imported dict: %#v", dv)
	}
}

func Test_Export_FunctionRejected(t *testing.T) {
	runFailOpts(t, `
FUNCTION f() DO
RETURN 1
END
EXPORT f "out.anubhav"
`, ErrTypeMismatch, WithFileSystem(newFakeFS()))
}

func Test_Sleep_UsesInjectedClock(t *testing.T) {
	var slept time.Duration
	runSrc(t, "SLEEP 25", withSleep(func(d time.Duration) { slept += d }))
	if slept != 25*time.Millisecond {
		t.Fatalf("slept: %v", slept)
	}
}
