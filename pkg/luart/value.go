package luart

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/hitzhangjie/pygdb/pkg/interp"
)

// wrap maps a lua value onto the interp value shapes: tables are
// dictionary-like, userdata with an __index table is attribute-like,
// everything else is a leaf.
func wrap(lv lua.LValue) interp.Value {
	switch v := lv.(type) {
	case *lua.LTable:
		return tableValue{tbl: v}
	case *lua.LUserData:
		return userdataValue{ud: v}
	default:
		return leafValue{lv: lv}
	}
}

type leafValue struct {
	lv lua.LValue
}

func (v leafValue) String() string { return v.lv.String() }

type tableValue struct {
	tbl *lua.LTable
}

func (v tableValue) String() string { return v.tbl.String() }

func (v tableValue) Items() []interp.Entry {
	var entries []interp.Entry
	v.tbl.ForEach(func(k, val lua.LValue) {
		entries = append(entries, interp.Entry{Key: k.String(), Value: wrap(val)})
	})
	return entries
}

type userdataValue struct {
	ud *lua.LUserData
}

func (v userdataValue) String() string { return v.ud.String() }

func (v userdataValue) AttrDict() (interp.Dict, bool) {
	mt, ok := v.ud.Metatable.(*lua.LTable)
	if !ok {
		return nil, false
	}
	idx, ok := mt.RawGetString("__index").(*lua.LTable)
	if !ok {
		return nil, false
	}
	return tableValue{tbl: idx}, true
}
