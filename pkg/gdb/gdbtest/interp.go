package gdbtest

import (
	"fmt"

	"github.com/hitzhangjie/pygdb/pkg/interp"
)

// Str is a leaf value.
type Str string

func (s Str) String() string { return string(s) }

// DictValue is a dictionary-like value.
type DictValue struct {
	Entries []interp.Entry
}

func (d *DictValue) String() string { return fmt.Sprintf("<dict len=%d>", len(d.Entries)) }

func (d *DictValue) Items() []interp.Entry { return d.Entries }

// ObjValue is an object exposing an attribute dictionary. A nil Attrs
// models an object without one.
type ObjValue struct {
	Repr  string
	Attrs *DictValue
}

func (o *ObjValue) String() string { return o.Repr }

func (o *ObjValue) AttrDict() (interp.Dict, bool) {
	if o.Attrs == nil {
		return nil, false
	}
	return o.Attrs, true
}

// Binding is one scripted variable binding of an InterpFrame.
type Binding struct {
	Scope interp.Scope
	Value interp.Value
}

// InterpFrame is a scripted interpreted frame.
type InterpFrame struct {
	File    string
	Line    int
	Text    string
	BackF   *InterpFrame
	Vars    map[string]Binding
	LocalE  []interp.Entry
	GlobalE []interp.Entry

	Sets map[string]string // records SetLocal calls
}

func (f *InterpFrame) Filename() string { return f.File }
func (f *InterpFrame) LineNum() int     { return f.Line }
func (f *InterpFrame) LineText() string { return f.Text }

func (f *InterpFrame) Back() (interp.Frame, bool) {
	if f.BackF == nil {
		return nil, false
	}
	return f.BackF, true
}

func (f *InterpFrame) VarByName(name string) (interp.Value, interp.Scope, bool) {
	b, ok := f.Vars[name]
	if !ok {
		return nil, interp.ScopeNone, false
	}
	return b.Value, b.Scope, true
}

func (f *InterpFrame) Locals() []interp.Entry  { return f.LocalE }
func (f *InterpFrame) Globals() []interp.Entry { return f.GlobalE }

func (f *InterpFrame) SetLocal(name, expr string) error {
	if f.Sets == nil {
		f.Sets = map[string]string{}
	}
	f.Sets[name] = expr
	return nil
}
