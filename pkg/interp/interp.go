// Package interp models the interpreted-language view of the debuggee:
// frames with a current source position, scope-classified variable lookup,
// and dictionary/attribute shaped values.
//
// Frames are snapshots. Any resumption of the debuggee (step, next,
// continue) invalidates every frame handle resolved before it; callers must
// re-resolve through the driver after each resumption.
package interp

// Scope tells which lookup tier a resolved name was found in.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeLocal
	ScopeFree
	ScopeGlobal
	ScopeBuiltin
)

func (s Scope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeFree:
		return "free"
	case ScopeGlobal:
		return "global"
	case ScopeBuiltin:
		return "builtin"
	}
	return "none"
}

// Entry is one key/value pair of a dictionary-like value or of a frame's
// locals/globals listing.
type Entry struct {
	Key   string
	Value Value
}

// Value is an interpreted-language value rendered for the operator.
type Value interface {
	String() string
}

// Dict is a dictionary-like value. Entries are exposed only as an iterable
// of pairs, key lookup is a linear scan by string equality.
type Dict interface {
	Value
	Items() []Entry
}

// Object is a value carrying an attribute dictionary.
type Object interface {
	Value
	AttrDict() (Dict, bool)
}

// Frame is one active invocation in the interpreted language.
type Frame interface {
	Filename() string
	LineNum() int
	// LineText returns the source text of the current line, not trimmed.
	LineText() string

	// Back returns the caller frame. The link is navigational only, the
	// caller frame is owned by the same snapshot.
	Back() (Frame, bool)

	// VarByName looks name up through the frame's scope chain, nearest
	// first: locals, then free/enclosing variables, then globals, then
	// builtins. A miss returns (nil, ScopeNone, false).
	VarByName(name string) (Value, Scope, bool)

	// Locals and Globals list the frame's visible bindings for inspection.
	Locals() []Entry
	Globals() []Entry

	// SetLocal rebinds a local in the live frame. The value expression is
	// evaluated by the hosting runtime.
	SetLocal(name, expr string) error
}
