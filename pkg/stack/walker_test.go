package stack

import (
	"testing"

	"github.com/hitzhangjie/pygdb/pkg/gdb"
	"github.com/hitzhangjie/pygdb/pkg/gdb/gdbtest"
)

func pyf(file string, line int, text string) *gdbtest.InterpFrame {
	return &gdbtest.InterpFrame{File: file, Line: line, Text: text}
}

func selected(t *testing.T, d *gdbtest.Driver) gdb.Frame {
	t.Helper()
	f, err := d.SelectedFrame()
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestWalkerMove(t *testing.T) {
	frames := []*gdbtest.StackFrame{
		{Name: "eval"},
		{Name: "f1", Interp: pyf("a.py", 3, "x = 1")},
		{Name: "f2", Interp: pyf("a.py", 9, "f1()")},
		{Name: "main"},
	}
	d := gdbtest.NewDriver(frames)
	w := NewWalker(d)

	more, err := w.Move(Up, 2)
	if err != nil {
		t.Fatalf("Move(Up, 2) error = %v", err)
	}
	if !more {
		t.Fatal("Move(Up, 2) hit the stack edge")
	}
	if got := selected(t, d); got != gdb.Frame(frames[2]) {
		t.Errorf("selection = %v, want f2", got)
	}

	// two more frames requested, only one left
	more, err = w.Move(Up, 2)
	if err != nil {
		t.Fatalf("Move(Up, 2) error = %v", err)
	}
	if more {
		t.Error("Move past the oldest frame reported more frames")
	}
	if got := selected(t, d); got != gdb.Frame(frames[3]) {
		t.Errorf("selection = %v, want the edge frame main", got)
	}

	more, err = w.Move(Down, 3)
	if err != nil {
		t.Fatalf("Move(Down, 3) error = %v", err)
	}
	if !more {
		t.Fatal("Move(Down, 3) hit the stack edge")
	}
	if got := selected(t, d); got != gdb.Frame(frames[0]) {
		t.Errorf("selection = %v, want the newest frame", got)
	}

	more, err = w.Move(Down, 1)
	if err != nil {
		t.Fatalf("Move(Down, 1) error = %v", err)
	}
	if more {
		t.Error("Move below the newest frame reported more frames")
	}
}

func TestWalkerCurrentInterpreted(t *testing.T) {
	frames := []*gdbtest.StackFrame{
		{Name: "eval"},
		{Name: "f1", Interp: pyf("a.py", 3, "x = 1")},
	}
	d := gdbtest.NewDriver(frames)
	w := NewWalker(d)

	if _, ok := w.CurrentInterpreted(); ok {
		t.Error("native-only frame reported an interpreted correspondence")
	}

	if _, err := w.Move(Up, 1); err != nil {
		t.Fatal(err)
	}
	pf, ok := w.CurrentInterpreted()
	if !ok {
		t.Fatal("interpreted frame not resolved")
	}
	if pf.Filename() != "a.py" || pf.LineNum() != 3 {
		t.Errorf("interpreted position = %s:%d, want a.py:3", pf.Filename(), pf.LineNum())
	}
}
