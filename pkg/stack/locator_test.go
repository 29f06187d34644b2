package stack

import (
	"testing"

	"github.com/hitzhangjie/pygdb/pkg/gdb"
	"github.com/hitzhangjie/pygdb/pkg/gdb/gdbtest"
)

func TestFindBreakpointFrame(t *testing.T) {
	frames := []*gdbtest.StackFrame{
		{Name: "pygdb_breakpoint_mark"},
		{Name: "eval", Interp: pyf("svc.py", 12, "    pygdb.breakpoint_mark()")},
		{Name: "eval", Interp: pyf("svc.py", 30, "wait_for_console()")},
		{Name: "main"},
	}
	d := gdbtest.NewDriver(frames)
	loc := NewLocator(d)

	found, err := loc.FindBreakpointFrame()
	if err != nil {
		t.Fatalf("FindBreakpointFrame() error = %v", err)
	}
	if !found {
		t.Fatal("marker frame not found")
	}
	if got := selected(t, d); got != gdb.Frame(frames[1]) {
		t.Errorf("selection = %v, want the marker frame", got)
	}
}

func TestFindBreakpointFrameRestoresSelection(t *testing.T) {
	tests := []struct {
		name   string
		frames []*gdbtest.StackFrame
	}{
		{
			// a frame with no interpreted correspondence ends the scan
			name: "native gap",
			frames: []*gdbtest.StackFrame{
				{Name: "eval"},
				{Name: "eval", Interp: pyf("svc.py", 3, "x = 1")},
				{Name: "gc_collect"},
				{Name: "eval", Interp: pyf("svc.py", 12, "    pygdb.breakpoint_mark()")},
			},
		},
		{
			name: "no marker anywhere",
			frames: []*gdbtest.StackFrame{
				{Name: "eval"},
				{Name: "eval", Interp: pyf("svc.py", 3, "x = 1")},
				{Name: "eval", Interp: pyf("svc.py", 9, "work()")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gdbtest.NewDriver(tt.frames)
			org := tt.frames[len(tt.frames)-1]
			if err := d.SelectFrame(org); err != nil {
				t.Fatal(err)
			}
			loc := NewLocator(d)

			found, err := loc.FindBreakpointFrame()
			if err != nil {
				t.Fatalf("FindBreakpointFrame() error = %v", err)
			}
			if found {
				t.Fatal("scan reported a marker frame")
			}
			if got := selected(t, d); got != gdb.Frame(org) {
				t.Errorf("selection = %v, want the pre-scan selection restored", got)
			}
		})
	}
}

func TestFindBreakpointCallerFrame(t *testing.T) {
	frames := []*gdbtest.StackFrame{
		{Name: "pygdb_breakpoint_mark"},
		{Name: "eval", Interp: pyf("svc.py", 12, "    pygdb.breakpoint_mark()")},
		{Name: "eval", Interp: pyf("svc.py", 30, "pygdb.set()")},
		{Name: "main"},
	}
	d := gdbtest.NewDriver(frames)
	loc := NewLocator(d)

	found, err := loc.FindBreakpointCallerFrame()
	if err != nil {
		t.Fatalf("FindBreakpointCallerFrame() error = %v", err)
	}
	if !found {
		t.Fatal("caller frame not found")
	}
	if got := selected(t, d); got != gdb.Frame(frames[2]) {
		t.Errorf("selection = %v, want the frame that called the marker", got)
	}
}

func TestFindBreakpointCallerFrameAtStackEdge(t *testing.T) {
	// marker frame is the oldest frame, there is no caller to land on
	frames := []*gdbtest.StackFrame{
		{Name: "pygdb_breakpoint_mark"},
		{Name: "eval", Interp: pyf("svc.py", 12, "pygdb.breakpoint_mark()")},
	}
	d := gdbtest.NewDriver(frames)
	loc := NewLocator(d)

	found, err := loc.FindBreakpointCallerFrame()
	if err != nil {
		t.Fatalf("FindBreakpointCallerFrame() error = %v", err)
	}
	if found {
		t.Error("caller frame reported past the stack edge")
	}
}

func TestFrameIndex(t *testing.T) {
	frames := []*gdbtest.StackFrame{
		{Name: "eval"},
		{Name: "f1", Interp: pyf("a.py", 3, "x = 1")},
		{Name: "f2", Interp: pyf("a.py", 9, "f1()")},
		{Name: "main"},
	}
	d := gdbtest.NewDriver(frames)
	loc := NewLocator(d)

	idx, err := loc.FrameIndex()
	if err != nil {
		t.Fatal(err)
	}
	if idx != 0 {
		t.Errorf("FrameIndex() = %d at the newest frame, want 0", idx)
	}

	if err := d.SelectFrame(frames[2]); err != nil {
		t.Fatal(err)
	}
	idx, err = loc.FrameIndex()
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 {
		t.Errorf("FrameIndex() = %d, want 2", idx)
	}
}
