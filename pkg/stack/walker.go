// Package stack navigates the native frame stack of a stopped debuggee:
// raw cursor movement (Walker) and the scan for the frame executing the
// breakpoint marker call (Locator).
package stack

import (
	"github.com/hitzhangjie/pygdb/pkg/gdb"
	"github.com/hitzhangjie/pygdb/pkg/interp"
)

// Direction of a cursor move. Up is toward the caller (older frames), Down
// toward the callee (newer frames).
type Direction int

const (
	Up Direction = iota
	Down
)

// Walker moves the driver's shared frame-selection cursor. It makes raw
// native hops only; whether a frame has an interpreted correspondence is
// for the caller to check.
type Walker struct {
	drv gdb.Driver
}

func NewWalker(drv gdb.Driver) *Walker {
	return &Walker{drv: drv}
}

// Move moves the selection by count native frames. It returns false when
// the stack edge is reached before count hops; the selection then rests on
// the edge frame.
func (w *Walker) Move(dir Direction, count int) (bool, error) {
	cur, err := w.drv.SelectedFrame()
	if err != nil {
		return false, err
	}

	for i := 0; i < count; i++ {
		var (
			next gdb.Frame
			ok   bool
		)
		if dir == Up {
			next, ok = cur.Caller()
		} else {
			next, ok = cur.Callee()
		}
		if !ok {
			return false, nil
		}
		if err := w.drv.SelectFrame(next); err != nil {
			return false, err
		}
		cur = next
	}
	return true, nil
}

// CurrentInterpreted resolves the interpreted frame of the selected native
// frame, false when the selection has no interpreted correspondence.
func (w *Walker) CurrentInterpreted() (interp.Frame, bool) {
	cur, err := w.drv.SelectedFrame()
	if err != nil {
		return nil, false
	}
	return cur.Interpreted()
}
