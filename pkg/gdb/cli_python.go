package gdb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hitzhangjie/pygdb/pkg/interp"
)

// The queries below are answered by gdb's embedded python, relying on the
// CPython gdb helpers (libpython: Frame, PyDictObjectPtr, HeapTypeObjectPtr)
// being auto-loaded for the debuggee, the same foundation the gdb console
// extensions were built on. Each query prints pygdb-tagged lines that the
// driver parses back out of the console output.

const pyFrameQuery = `python f = Frame.get_selected_python_frame(); p = f.get_pyop() if f else None; print("pygdb-none" if p is None else "pygdb-frame|%s|%d|%s" % (p.filename(), p.current_line_num(), p.current_line().rstrip()))`

const pyAnchorQuery = `python p = Frame.get_selected_python_frame().get_pyop(); print("pygdb-addr|%d" % int(p.field("f_back")))`

// pyWalkProg resolves a dotted path against the selected python frame and
// prints either the value at the path or, with mode=items, the entries of
// the dict/attr-dict at the path. The per-segment walk is the host-side
// twin of pkg/variable: dicts by key, objects through their attribute dict,
// linear scan by string equality.
const pyWalkProg = `python
segs = [%s]
mode = %q
p = Frame.get_selected_python_frame().get_pyop()
cur, scope = p.get_var_by_name(segs[0])
for seg in segs[1:]:
    d = None
    if isinstance(cur, PyDictObjectPtr):
        d = cur
    elif isinstance(cur, HeapTypeObjectPtr):
        d = cur.get_attr_dict()
    nxt = None
    if d is not None:
        for k, v in d.iteritems():
            if str(k) == seg:
                nxt = v
    cur = nxt
    if cur is None:
        break
def pygdb_kind(v):
    if isinstance(v, PyDictObjectPtr):
        return "dict"
    if isinstance(v, HeapTypeObjectPtr):
        return "object"
    return "leaf"
if mode == "items":
    d = None
    if isinstance(cur, PyDictObjectPtr):
        d = cur
    elif isinstance(cur, HeapTypeObjectPtr):
        d = cur.get_attr_dict()
    if d is not None:
        for k, v in d.iteritems():
            print("pygdb-item|%%s|%%s|%%s" %% (str(k), pygdb_kind(v), str(v)))
else:
    if cur is None:
        print("pygdb-var|%%s|none|" %% (scope or ""))
    else:
        print("pygdb-var|%%s|%%s|%%s" %% (scope or "", pygdb_kind(cur), str(cur)))
end`

const pyBindingsProg = `python
which = %q
p = Frame.get_selected_python_frame().get_pyop()
it = p.iter_locals() if which == "locals" else p.iter_globals()
for k, v in it:
    print("pygdb-item|%%s|leaf|%%s" %% (str(k), str(v)))
end`

// setLocalProg is injected into the debuggee itself (not gdb's python): it
// walks the live python stack from the innermost frame until the frame
// whose caller matches the recorded anchor, rebinds the local and flushes
// it back with PyFrame_LocalsToFast. The walk is a plain loop, hop count
// from the innermost frame.
const setLocalProg = `import inspect, ctypes
__pygdb_f = inspect.stack()[0][0]
__pygdb_i = 0
while __pygdb_f is not None and id(__pygdb_f.f_back) != %d:
    __pygdb_i += 1
    __pygdb_f = __pygdb_f.f_back
__pygdb_stack = inspect.stack()
if __pygdb_i >= len(__pygdb_stack):
    __pygdb_i = 0
__pygdb_f = __pygdb_stack[__pygdb_i][0]
__pygdb_f.f_locals[%q] = %s
ctypes.pythonapi.PyFrame_LocalsToFast(ctypes.py_object(__pygdb_f), ctypes.c_int(0))
del __pygdb_f, __pygdb_i, __pygdb_stack`

// pythonFrame resolves the python frame executing in the currently selected
// native frame, if any.
func (d *CLIDriver) pythonFrame(level int) (interp.Frame, bool) {
	out, err := d.Execute(pyFrameQuery)
	if err != nil {
		return nil, false
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "pygdb-frame|") {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			return nil, false
		}
		lineno, _ := strconv.Atoi(parts[2])
		return &pyFrame{d: d, level: level, file: parts[1], line: lineno, text: parts[3]}, true
	}
	return nil, false
}

// InjectPython runs src inside the debuggee's interpreter, bracketed by the
// GIL acquire/release dance the original console used.
func (d *CLIDriver) InjectPython(src string) error {
	out, err := d.Execute("call PyGILState_Ensure()")
	if err != nil {
		return err
	}
	eq := strings.LastIndex(out, "=")
	if eq < 0 {
		return fmt.Errorf("PyGILState_Ensure: unexpected output %q", strings.TrimSpace(out))
	}
	gstate := strings.TrimSpace(out[eq+1:])

	escaped := strings.ReplaceAll(src, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	if _, err := d.Execute(fmt.Sprintf(`call PyRun_SimpleString("%s")`, escaped)); err != nil {
		return err
	}

	_, err = d.Execute(fmt.Sprintf("call PyGILState_Release(%s)", gstate))
	return err
}

// pyFrame is the remote python frame behind a native frame level.
type pyFrame struct {
	d     *CLIDriver
	level int
	file  string
	line  int
	text  string
}

func (f *pyFrame) Filename() string { return f.file }
func (f *pyFrame) LineNum() int     { return f.line }
func (f *pyFrame) LineText() string { return f.text }

// Back walks native frames toward the caller until one of them resolves a
// python frame.
func (f *pyFrame) Back() (interp.Frame, bool) {
	var cur Frame = cliFrame{d: f.d, level: f.level}
	for {
		older, ok := cur.(cliFrame).Caller()
		if !ok {
			return nil, false
		}
		cur = older
		if pf, ok := cur.Interpreted(); ok {
			return pf, true
		}
	}
}

func (f *pyFrame) VarByName(name string) (interp.Value, interp.Scope, bool) {
	if err := f.d.SelectFrame(cliFrame{d: f.d, level: f.level}); err != nil {
		return nil, interp.ScopeNone, false
	}
	out, err := f.d.Execute(fmt.Sprintf(pyWalkProg, pyStringList(name), "value"))
	if err != nil {
		return nil, interp.ScopeNone, false
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "pygdb-var|") {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 || parts[2] == "none" {
			return nil, interp.ScopeNone, false
		}
		return &remoteValue{d: f.d, level: f.level, path: []string{name}, kind: parts[2], repr: parts[3]},
			parseScope(parts[1]), true
	}
	return nil, interp.ScopeNone, false
}

func (f *pyFrame) Locals() []interp.Entry {
	return f.bindings("locals")
}

func (f *pyFrame) Globals() []interp.Entry {
	return f.bindings("globals")
}

func (f *pyFrame) bindings(which string) []interp.Entry {
	if err := f.d.SelectFrame(cliFrame{d: f.d, level: f.level}); err != nil {
		return nil
	}
	out, err := f.d.Execute(fmt.Sprintf(pyBindingsProg, which))
	if err != nil {
		return nil
	}
	return parseItems(f.d, f.level, nil, out)
}

func (f *pyFrame) SetLocal(name, expr string) error {
	if err := f.d.SelectFrame(cliFrame{d: f.d, level: f.level}); err != nil {
		return err
	}
	out, err := f.d.Execute(pyAnchorQuery)
	if err != nil {
		return err
	}
	var anchor int64
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "pygdb-addr|") {
			anchor, _ = strconv.ParseInt(strings.TrimPrefix(line, "pygdb-addr|"), 10, 64)
		}
	}
	return f.d.InjectPython(fmt.Sprintf(setLocalProg, anchor, name, expr))
}

// remoteValue is a python value addressed by its dotted path from the frame
// root. Nested lookups re-walk the path on the host; the path is the only
// stable handle across queries.
type remoteValue struct {
	d     *CLIDriver
	level int
	path  []string
	kind  string
	repr  string
}

func (v *remoteValue) String() string { return v.repr }

func (v *remoteValue) Items() []interp.Entry {
	if v.kind != "dict" && v.kind != "object" {
		return nil
	}
	if err := v.d.SelectFrame(cliFrame{d: v.d, level: v.level}); err != nil {
		return nil
	}
	out, err := v.d.Execute(fmt.Sprintf(pyWalkProg, pyStringList(v.path...), "items"))
	if err != nil {
		return nil
	}
	return parseItems(v.d, v.level, v.path, out)
}

func (v *remoteValue) AttrDict() (interp.Dict, bool) {
	if v.kind != "object" {
		return nil, false
	}
	return v, true
}

func parseItems(d *CLIDriver, level int, path []string, out string) []interp.Entry {
	var entries []interp.Entry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "pygdb-item|") {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			continue
		}
		entries = append(entries, interp.Entry{
			Key: parts[1],
			Value: &remoteValue{
				d:     d,
				level: level,
				path:  append(append([]string{}, path...), parts[1]),
				kind:  parts[2],
				repr:  parts[3],
			},
		})
	}
	return entries
}

func parseScope(s string) interp.Scope {
	switch s {
	case "local":
		return interp.ScopeLocal
	case "free":
		return interp.ScopeFree
	case "global":
		return interp.ScopeGlobal
	case "builtin":
		return interp.ScopeBuiltin
	}
	return interp.ScopeNone
}

// pyStringList renders path segments as a python list body.
func pyStringList(segs ...string) string {
	quoted := make([]string, 0, len(segs))
	for _, s := range segs {
		quoted = append(quoted, strconv.Quote(s))
	}
	return strings.Join(quoted, ", ")
}
