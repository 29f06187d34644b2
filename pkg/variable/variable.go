// Package variable resolves dotted variable paths like a.b.c against an
// interpreted frame.
package variable

import (
	"strings"

	"github.com/hitzhangjie/pygdb/pkg/interp"
)

// Resolve looks name up in frame. The first path segment goes through the
// frame's scope chain and fixes the reported scope; every further segment
// is one dictionary or attribute-dictionary lookup, a linear scan over the
// entries by string equality.
//
// A segment that resolves to nothing stops the walk and yields the
// last-known scope with a nil value ("found but incomplete"); an undefined
// first segment yields (ScopeNone, nil). Callers must treat a nil value as
// distinct from a missing frame.
func Resolve(frame interp.Frame, name string) (interp.Scope, interp.Value) {
	segs := strings.Split(name, ".")

	cur, scope, ok := frame.VarByName(segs[0])
	if !ok {
		return interp.ScopeNone, nil
	}

	for _, seg := range segs[1:] {
		var dict interp.Dict
		switch v := cur.(type) {
		case interp.Dict:
			dict = v
		case interp.Object:
			d, ok := v.AttrDict()
			if ok {
				dict = d
			}
		default:
			return scope, nil
		}

		cur = nil
		if dict != nil {
			for _, e := range dict.Items() {
				if e.Key == seg {
					cur = e.Value
				}
			}
		}
		if cur == nil {
			return scope, nil
		}
	}

	return scope, cur
}
