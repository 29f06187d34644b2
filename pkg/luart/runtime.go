// Package luart exposes a running gopher-lua interpreter through the
// pkg/interp introspection surface, making a Lua-embedding Go process a
// first-class debuggee: frame snapshots, scope-classified variable lookup,
// local rebinding, and the pygdb Lua module for the breakpoint handshake.
package luart

import (
	"fmt"
	"os"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/hitzhangjie/pygdb/pkg/interp"
)

// Runtime wraps one LState. LStates are not goroutine safe; all Runtime
// calls must come from the goroutine running the state, which in practice
// means from inside a Go callback invoked by Lua (keystorm wraps its plugin
// states the same way).
type Runtime struct {
	L *lua.LState

	mu      sync.Mutex
	sources map[string][]string // chunk name -> source lines, for non-file chunks
}

func New(L *lua.LState) *Runtime {
	return &Runtime{
		L:       L,
		sources: map[string][]string{},
	}
}

// AddSource registers the source text of a chunk that does not exist on
// disk, so frames of that chunk can report line text.
func (r *Runtime) AddSource(name, src string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = strings.Split(src, "\n")
}

// lineText returns line lineno (1-based) of the named chunk, from the
// registered sources first, from disk second.
func (r *Runtime) lineText(source string, lineno int) string {
	name := strings.TrimPrefix(source, "@")

	r.mu.Lock()
	lines, ok := r.sources[name]
	r.mu.Unlock()

	if !ok {
		dat, err := os.ReadFile(name)
		if err != nil {
			return ""
		}
		lines = strings.Split(string(dat), "\n")
		r.mu.Lock()
		r.sources[name] = lines
		r.mu.Unlock()
	}

	if lineno < 1 || lineno > len(lines) {
		return ""
	}
	return lines[lineno-1]
}

// Snapshot captures the interpreted call stack, newest first. Go-function
// frames on the Lua stack have no interpreted correspondence and are
// skipped. The returned frames are a snapshot: resuming the interpreter
// invalidates them, only their captured values stay readable.
func (r *Runtime) Snapshot() []interp.Frame {
	var frames []*luaFrame
	for level := 0; ; level++ {
		dbg, ok := r.L.GetStack(level)
		if !ok {
			break
		}
		fnv, err := r.L.GetInfo("f", dbg, lua.LNil)
		if err != nil {
			break
		}
		fn, ok := fnv.(*lua.LFunction)
		if !ok || fn.IsG {
			continue
		}
		if _, err := r.L.GetInfo("Slnu", dbg, lua.LNil); err != nil {
			continue
		}
		frames = append(frames, r.newFrame(dbg, fn))
	}

	out := make([]interp.Frame, len(frames))
	for i, f := range frames {
		if i+1 < len(frames) {
			f.back = frames[i+1]
		}
		out[i] = f
	}
	return out
}

func (r *Runtime) newFrame(dbg *lua.Debug, fn *lua.LFunction) *luaFrame {
	f := &luaFrame{
		rt:   r,
		dbg:  dbg,
		fn:   fn,
		file: strings.TrimPrefix(dbg.Source, "@"),
		line: dbg.CurrentLine,
	}
	f.text = r.lineText(dbg.Source, dbg.CurrentLine)

	// locals are materialized now: the Debug handle goes stale as soon as
	// the interpreter resumes
	for i := 1; ; i++ {
		name, val := r.L.GetLocal(dbg, i)
		if name == "" {
			break
		}
		if strings.HasPrefix(name, "(") {
			continue
		}
		f.locals = append(f.locals, interp.Entry{Key: name, Value: wrap(val)})
		if f.localIdx == nil {
			f.localIdx = map[string]int{}
		}
		f.localIdx[name] = i
	}

	// upvalues: the enclosing/free scope tier
	if fn.Proto != nil {
		for i, name := range fn.Proto.DbgUpvalues {
			if i >= len(fn.Upvalues) {
				break
			}
			f.frees = append(f.frees, interp.Entry{Key: name, Value: wrap(fn.Upvalues[i].Value())})
		}
	}
	return f
}

// luaFrame is one Lua invocation captured by Snapshot.
type luaFrame struct {
	rt   *Runtime
	dbg  *lua.Debug
	fn   *lua.LFunction
	file string
	line int
	text string
	back *luaFrame

	locals   []interp.Entry
	localIdx map[string]int
	frees    []interp.Entry
}

func (f *luaFrame) Filename() string { return f.file }
func (f *luaFrame) LineNum() int     { return f.line }
func (f *luaFrame) LineText() string { return f.text }

func (f *luaFrame) Back() (interp.Frame, bool) {
	if f.back == nil {
		return nil, false
	}
	return f.back, true
}

// VarByName walks the scope chain nearest first: locals, then upvalues,
// then globals. Lua keeps its builtins in the global table, so the builtin
// tier never reports separately here.
func (f *luaFrame) VarByName(name string) (interp.Value, interp.Scope, bool) {
	for _, e := range f.locals {
		if e.Key == name {
			return e.Value, interp.ScopeLocal, true
		}
	}
	for _, e := range f.frees {
		if e.Key == name {
			return e.Value, interp.ScopeFree, true
		}
	}
	if gv := f.rt.L.GetGlobal(name); gv != lua.LNil {
		return wrap(gv), interp.ScopeGlobal, true
	}
	return nil, interp.ScopeNone, false
}

func (f *luaFrame) Locals() []interp.Entry {
	return f.locals
}

func (f *luaFrame) Globals() []interp.Entry {
	var entries []interp.Entry
	f.rt.L.G.Global.ForEach(func(k, v lua.LValue) {
		entries = append(entries, interp.Entry{Key: k.String(), Value: wrap(v)})
	})
	return entries
}

// SetLocal evaluates expr in the interpreter and rebinds the named local.
// Valid only while the snapshot is live, i.e. before the interpreter
// resumes past the capture point.
func (f *luaFrame) SetLocal(name, expr string) error {
	idx, ok := f.localIdx[name]
	if !ok {
		return fmt.Errorf("no local %q in frame %s:%d", name, f.file, f.line)
	}

	L := f.rt.L
	if err := L.DoString("return " + expr); err != nil {
		return fmt.Errorf("evaluate %q: %v", expr, err)
	}
	val := L.Get(-1)
	L.Pop(1)

	if set := L.SetLocal(f.dbg, idx, val); set == "" {
		return fmt.Errorf("set local %q failed", name)
	}
	for i := range f.locals {
		if f.locals[i].Key == name {
			f.locals[i].Value = wrap(val)
		}
	}
	return nil
}
