package stack

import (
	"strings"

	"github.com/hitzhangjie/pygdb/pkg/breakpoint"
	"github.com/hitzhangjie/pygdb/pkg/gdb"
)

// Locator finds the frame executing the breakpoint marker call for the
// current thread.
type Locator struct {
	drv      gdb.Driver
	walker   *Walker
	markCall string
}

func NewLocator(drv gdb.Driver) *Locator {
	return &Locator{
		drv:      drv,
		walker:   NewWalker(drv),
		markCall: breakpoint.MarkCall,
	}
}

// FindBreakpointFrame scans from the newest native frame toward the oldest
// and stops at the first frame whose interpreted source line is the marker
// call. On success the selection rests on that frame. Hitting a frame with
// no interpreted correspondence, or running out of frames, fails the scan
// and restores the selection that was active before the call.
func (l *Locator) FindBreakpointFrame() (bool, error) {
	org, err := l.drv.SelectedFrame()
	if err != nil {
		return false, err
	}

	newest, err := l.drv.NewestFrame()
	if err != nil {
		return false, err
	}
	if err := l.drv.SelectFrame(newest); err != nil {
		return false, err
	}

	more, err := l.walker.Move(Up, 1)
	if err != nil {
		return false, err
	}
	for more {
		pf, ok := l.walker.CurrentInterpreted()
		if !ok {
			l.drv.SelectFrame(org)
			return false, nil
		}
		if strings.TrimSpace(pf.LineText()) == l.markCall {
			return true, nil
		}
		more, err = l.walker.Move(Up, 1)
		if err != nil {
			return false, err
		}
	}

	l.drv.SelectFrame(org)
	return false, nil
}

// FindBreakpointCallerFrame locates the marker frame, then moves one more
// frame toward the caller: the frame the operator actually cares about is
// the one that called Wait. Failure of either hop fails the whole call.
func (l *Locator) FindBreakpointCallerFrame() (bool, error) {
	found, err := l.FindBreakpointFrame()
	if err != nil || !found {
		return false, err
	}
	more, err := l.walker.Move(Up, 1)
	if err != nil {
		return false, err
	}
	return more, nil
}

// FrameIndex counts the hops from the newest frame down to the current
// selection. Plain iteration, no recursion: the stack depth is unbounded.
func (l *Locator) FrameIndex() (int, error) {
	sel, err := l.drv.SelectedFrame()
	if err != nil {
		return 0, err
	}
	cur, err := l.drv.NewestFrame()
	if err != nil {
		return 0, err
	}

	idx := 0
	for cur != sel {
		older, ok := cur.Caller()
		if !ok {
			return 0, nil
		}
		cur = older
		idx++
	}
	return idx, nil
}
