package luart

import (
	"errors"
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/hitzhangjie/pygdb/pkg/breakpoint"
	"github.com/hitzhangjie/pygdb/pkg/interp"
)

// ShimChunk is the chunk name of the pygdb Lua module.
const ShimChunk = "pygdb.lua"

// shimSource is the Lua face of the breakpoint handshake. pygdb.set blocks
// in the Go Wait, then issues the marker call; the marker itself is a Go
// function, so while it runs the frame executing pygdb.set reads exactly
// the marker call line — the line text the breakpoint locator scans for.
const shimSource = `pygdb = pygdb or {}
function pygdb.enable()
  __pygdb_enable()
end
function pygdb.set()
  __pygdb_wait()
  pygdb.breakpoint_mark()
end
`

// Install binds the breakpoint sync into the interpreter as the pygdb Lua
// module: pygdb.enable(), pygdb.set() and pygdb.breakpoint_mark(). onMark,
// when non-nil, receives a stack snapshot every time the marker call runs;
// an in-process console uses that as its stop event.
func (r *Runtime) Install(s *breakpoint.Sync, logger *slog.Logger, onMark func([]interp.Frame)) error {
	L := r.L

	L.SetGlobal("__pygdb_enable", L.NewFunction(func(L *lua.LState) int {
		s.Enable(logger)
		return 0
	}))
	L.SetGlobal("__pygdb_wait", L.NewFunction(func(L *lua.LState) int {
		s.Wait(logger)
		return 0
	}))

	fn, err := L.Load(strings.NewReader(shimSource), ShimChunk)
	if err != nil {
		return err
	}
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		return err
	}
	r.AddSource(ShimChunk, shimSource)

	mod, ok := L.GetGlobal("pygdb").(*lua.LTable)
	if !ok {
		return errShimBroken
	}
	L.SetField(mod, "breakpoint_mark", L.NewFunction(func(L *lua.LState) int {
		breakpoint.Mark()
		if onMark != nil {
			onMark(r.Snapshot())
		}
		return 0
	}))
	return nil
}

var errShimBroken = errors.New("pygdb lua shim did not define module table")
