// runtime.go: environments, call frames, control signals and the
// file-system port used by the IO operations.
package anubhav

import "os"

// Env is a flat name-to-value binding table. The interpreter keeps one
// global Env plus one local Env per active call frame; name resolution
// is local-then-global, never lexical beyond that.
type Env struct {
	vars map[string]Value
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{vars: map[string]Value{}}
}

// Define binds or rebinds a name.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Get looks a name up in this environment only.
func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Delete removes a binding if present.
func (e *Env) Delete(name string) {
	delete(e.vars, name)
}

// frame is one entry of the call stack.
type frame struct {
	fn     *Function
	locals *Env
	callAt Pos
}

// ctrlKind discriminates non-error control flow escaping a statement.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// ctrl is the control signal threaded through statement execution.
// Loops absorb break/continue; function calls absorb return and read
// the carried value.
type ctrl struct {
	kind ctrlKind
	val  Value
}

var ctrlDone = ctrl{kind: ctrlNone}

// FileSystem abstracts the IO operations so tests and embedders can
// substitute an in-memory implementation.
type FileSystem interface {
	ReadFile(path string) (string, error)
	WriteFile(path string, content string) error
	AppendFile(path string, content string) error
	Exists(path string) bool
}

// osFS is the default FileSystem, backed by the host OS.
type osFS struct{}

func (osFS) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (osFS) WriteFile(path string, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func (osFS) AppendFile(path string, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
