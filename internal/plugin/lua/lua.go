// Package lua runs user scripts as editor actions. A script is one Lua file
// defining a transform function; it is exposed to both surfaces under the
// "script.<name>" action id and applied to each selection range as a pure
// text transform.
//
// gopher-lua's LState is not goroutine-safe and user code is untrusted, so
// every invocation runs on a fresh state with only the safe standard
// libraries opened and a deadline attached. A script can neither touch the
// filesystem nor outlive its budget; the worst a hostile script can do is
// time out.
package lua

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds one script invocation.
const DefaultTimeout = 2 * time.Second

// transformFn is the global a script must define.
const transformFn = "transform"

// Engine loads and runs user scripts.
type Engine struct {
	mu      sync.RWMutex
	scripts map[string]string
	timeout time.Duration
}

// NewEngine creates an empty script engine.
func NewEngine() *Engine {
	return &Engine{
		scripts: make(map[string]string),
		timeout: DefaultTimeout,
	}
}

// SetTimeout overrides the per-invocation execution budget.
func (e *Engine) SetTimeout(d time.Duration) {
	if d > 0 {
		e.timeout = d
	}
}

// Load registers a script under a name. The source must define a global
// transform(input, ctx) function; that is verified on first run, not here.
func (e *Engine) Load(name, source string) error {
	if name == "" || strings.ContainsAny(name, "./\\ ") {
		return fmt.Errorf("invalid script name %q", name)
	}
	e.mu.Lock()
	e.scripts[name] = source
	e.mu.Unlock()
	return nil
}

// LoadDir loads every .lua file in dir as a script named after its base
// name. Unreadable files are skipped; a missing directory loads nothing.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read script dir: %w", err)
	}
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".lua") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, ent.Name()))
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(ent.Name(), ".lua")
		if err := e.Load(name, string(data)); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the loaded script names, sorted.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.scripts))
	for n := range e.scripts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a script is loaded under name.
func (e *Engine) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.scripts[name]
	return ok
}

// Transform runs a script on one operand string and returns the
// replacement. meta carries position details ("blockType", "word") exposed
// to the script as its second argument.
func (e *Engine) Transform(ctx context.Context, name, input string, meta map[string]string) (string, error) {
	e.mu.RLock()
	source, ok := e.scripts[name]
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown script %q", name)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	L := newSandboxedState()
	defer L.Close()
	L.SetContext(ctx)

	if err := L.DoString(source); err != nil {
		return "", fmt.Errorf("script %s: %w", name, err)
	}

	fn := L.GetGlobal(transformFn)
	if fn.Type() != lua.LTFunction {
		return "", fmt.Errorf("script %s defines no %s function", name, transformFn)
	}

	metaTbl := L.NewTable()
	for k, v := range meta {
		L.SetField(metaTbl, k, lua.LString(v))
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LString(input), metaTbl); err != nil {
		return "", fmt.Errorf("script %s: %w", name, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	out, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("script %s returned %s, want string", name, ret.Type())
	}
	return string(out), nil
}

// newSandboxedState creates an LState with only the safe standard libraries
// and without the code-loading globals.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	// io, os, debug, and package stay closed: scripts transform text, they
	// do not touch the machine.

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
