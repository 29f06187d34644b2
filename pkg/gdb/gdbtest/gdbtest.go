// Package gdbtest provides a scripted in-memory gdb.Driver plus simple
// interp implementations, for exercising the frame scan, variable
// resolution and step engine without a debugger process.
package gdbtest

import (
	"fmt"

	"github.com/hitzhangjie/pygdb/pkg/gdb"
	"github.com/hitzhangjie/pygdb/pkg/interp"
)

// StackFrame is one scripted native frame. Interp is nil for frames with no
// interpreted correspondence (native runtime code).
type StackFrame struct {
	Name   string
	Interp interp.Frame

	stack []*StackFrame
	idx   int
}

func (f *StackFrame) Caller() (gdb.Frame, bool) {
	if f.idx+1 >= len(f.stack) {
		return nil, false
	}
	return f.stack[f.idx+1], true
}

func (f *StackFrame) Callee() (gdb.Frame, bool) {
	if f.idx == 0 {
		return nil, false
	}
	return f.stack[f.idx-1], true
}

func (f *StackFrame) Interpreted() (interp.Frame, bool) {
	if f.Interp == nil {
		return nil, false
	}
	return f.Interp, true
}

// Driver replays a script of stack snapshots: every resumption (Step, Next,
// Continue) advances to the next snapshot, frames are newest-first within a
// snapshot. The selection cursor starts at the newest frame.
type Driver struct {
	Snapshots [][]*StackFrame

	StepCalls     int
	NextCalls     int
	ContinueCalls int
	Locking       []bool
	Commands      []string
	Signalled     int

	ThreadList []gdb.Thread

	snap int
	sel  int
}

// NewDriver wires the snapshots' frame back/forward links and returns a
// driver positioned at the first snapshot's newest frame.
func NewDriver(snapshots ...[]*StackFrame) *Driver {
	for _, stack := range snapshots {
		for i, f := range stack {
			f.stack = stack
			f.idx = i
		}
	}
	return &Driver{Snapshots: snapshots}
}

func (d *Driver) current() []*StackFrame {
	return d.Snapshots[d.snap]
}

// advance moves to the next snapshot; the last snapshot repeats once the
// script runs out, which models a debuggee spinning on one line.
func (d *Driver) advance() {
	if d.snap+1 < len(d.Snapshots) {
		d.snap++
		d.sel = 0
	}
}

func (d *Driver) Execute(cmd string) (string, error) {
	d.Commands = append(d.Commands, cmd)
	return "", nil
}

func (d *Driver) Attach(pid int) error       { return nil }
func (d *Driver) Detach() error              { return nil }
func (d *Driver) DeleteBreakpoints() error   { return nil }
func (d *Driver) SetBreakpoint(string) error { return nil }

func (d *Driver) SignalContinue() error {
	d.Signalled++
	return nil
}

func (d *Driver) Continue() (string, error) {
	d.ContinueCalls++
	d.advance()
	return "Continuing.", nil
}

func (d *Driver) Step() error {
	d.StepCalls++
	d.advance()
	return nil
}

func (d *Driver) Next() error {
	d.NextCalls++
	d.advance()
	return nil
}

func (d *Driver) SetSchedulerLocking(locked bool) (string, error) {
	d.Locking = append(d.Locking, locked)
	if locked {
		return "scheduler locking on", nil
	}
	return "scheduler locking off", nil
}

func (d *Driver) Threads() ([]gdb.Thread, error) {
	return d.ThreadList, nil
}

func (d *Driver) SwitchThread(tid uint64) (string, error) {
	for i := range d.ThreadList {
		if d.ThreadList[i].TID == tid {
			for j := range d.ThreadList {
				d.ThreadList[j].Current = j == i
			}
			return fmt.Sprintf("Switching to thread %d", d.ThreadList[i].Num), nil
		}
	}
	return "", gdb.ErrNoThread
}

func (d *Driver) ThreadInfo() (string, error) {
	for _, t := range d.ThreadList {
		if t.Current {
			return fmt.Sprintf("Thread %d (0x%x)", t.Num, t.TID), nil
		}
	}
	return "Thread 1", nil
}

func (d *Driver) SelectedFrame() (gdb.Frame, error) {
	cur := d.current()
	if len(cur) == 0 {
		return nil, gdb.ErrNoFrame
	}
	if d.sel >= len(cur) {
		d.sel = len(cur) - 1
	}
	return cur[d.sel], nil
}

func (d *Driver) NewestFrame() (gdb.Frame, error) {
	cur := d.current()
	if len(cur) == 0 {
		return nil, gdb.ErrNoFrame
	}
	return cur[0], nil
}

func (d *Driver) SelectFrame(f gdb.Frame) error {
	sf, ok := f.(*StackFrame)
	if !ok {
		return fmt.Errorf("frame handle not owned by this driver")
	}
	for i, c := range d.current() {
		if c == sf {
			d.sel = i
			return nil
		}
	}
	return fmt.Errorf("frame %q not in current stack", sf.Name)
}
