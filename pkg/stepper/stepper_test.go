package stepper

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hitzhangjie/pygdb/pkg/gdb/gdbtest"
)

func pyf(file string, line int, text string) *gdbtest.InterpFrame {
	return &gdbtest.InterpFrame{File: file, Line: line, Text: text}
}

// stepDriver scripts a typical step: the selection starts on the
// interpreted frame, every later snapshot has the interpreter's native
// dispatch loop on top and the interpreted frame one below.
func stepDriver(positions ...*gdbtest.InterpFrame) *gdbtest.Driver {
	snapshots := [][]*gdbtest.StackFrame{
		{{Name: "eval", Interp: positions[0]}, {Name: "main"}},
	}
	for _, pf := range positions[1:] {
		snapshots = append(snapshots, []*gdbtest.StackFrame{
			{Name: "dispatch"},
			{Name: "eval", Interp: pf},
			{Name: "main"},
		})
	}
	return gdbtest.NewDriver(snapshots...)
}

func TestStepStopsOnNewLine(t *testing.T) {
	d := stepDriver(
		pyf("a.py", 3, "x = 1"),
		pyf("a.py", 3, "x = 1"), // same line, keep going
		pyf("a.py", 4, "y = 2"),
	)
	e := New(d)

	res, err := e.Step(Options{Silent: true})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.Steps != 2 || d.StepCalls != 2 {
		t.Errorf("steps = %d (driver %d), want 2", res.Steps, d.StepCalls)
	}
	if res.LimitReached {
		t.Error("limit reported on a normal stop")
	}
	if res.Frame == nil || res.Frame.LineNum() != 4 {
		t.Errorf("final frame = %v, want a.py:4", res.Frame)
	}
}

func TestNextUsesStepOver(t *testing.T) {
	d := stepDriver(
		pyf("a.py", 3, "x = f()"),
		pyf("a.py", 4, "y = 2"),
	)
	e := New(d)

	res, err := e.Next(Options{Silent: true})
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if d.NextCalls != 1 || d.StepCalls != 0 {
		t.Errorf("next/step calls = %d/%d, want 1/0", d.NextCalls, d.StepCalls)
	}
	if res.Steps != 1 {
		t.Errorf("steps = %d, want 1", res.Steps)
	}
}

func TestStepLimit(t *testing.T) {
	// one snapshot that repeats: the debuggee never leaves the line
	d := stepDriver(pyf("a.py", 3, "while true do end"))
	e := New(d)

	res, err := e.Step(Options{Silent: true, MaxSteps: 3})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !res.LimitReached {
		t.Fatal("limit not reported")
	}
	// the cap is soft: the loop notices it after issuing one step too many
	if res.Steps != 4 || d.StepCalls != 4 {
		t.Errorf("steps = %d (driver %d), want max+1 = 4", res.Steps, d.StepCalls)
	}
}

func TestStepSkipsMarkerLine(t *testing.T) {
	positions := []*gdbtest.InterpFrame{
		pyf("b.py", 5, "pygdb.set()"),
		pyf("b.py", 6, "    pygdb.breakpoint_mark()"),
		pyf("b.py", 7, "done = True"),
	}

	d := stepDriver(positions...)
	res, err := New(d).Step(Options{Silent: true, SkipMark: true})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	// line 6 is a new line, but its text is the marker call: skipped
	if res.Steps != 2 {
		t.Errorf("steps = %d, want 2", res.Steps)
	}
	if res.Frame == nil || res.Frame.LineNum() != 7 {
		t.Errorf("final frame = %v, want b.py:7", res.Frame)
	}

	d = stepDriver(positions...)
	res, err = New(d).Step(Options{Silent: true, SkipMark: false})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.Steps != 1 {
		t.Errorf("steps without SkipMark = %d, want 1", res.Steps)
	}
	if res.Frame == nil || res.Frame.LineNum() != 6 {
		t.Errorf("final frame = %v, want the marker line b.py:6", res.Frame)
	}
}

func TestStepWithoutInterpretedStart(t *testing.T) {
	snapshots := [][]*gdbtest.StackFrame{
		{{Name: "native"}, {Name: "main"}},
		{{Name: "dispatch"}, {Name: "eval", Interp: pyf("c.py", 1, "start()")}, {Name: "main"}},
	}
	d := gdbtest.NewDriver(snapshots...)
	e := New(d)

	res, err := e.Step(Options{Silent: true})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	// no starting position recorded, so the first resolvable one is the stop
	if res.Steps != 1 {
		t.Errorf("steps = %d, want 1", res.Steps)
	}
	if res.Frame == nil || res.Frame.Filename() != "c.py" {
		t.Errorf("final frame = %v, want c.py:1", res.Frame)
	}
}

func TestStepTraceAndSchedulerLocking(t *testing.T) {
	d := stepDriver(
		pyf("a.py", 1, "x = 1"),
		pyf("a.py", 2, "y = 2"),
	)
	e := New(d)

	var out bytes.Buffer
	res, err := e.Step(Options{LockScheduler: true, Out: &out})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if len(d.Locking) != 1 || !d.Locking[0] {
		t.Errorf("scheduler locking calls = %v, want [true]", d.Locking)
	}
	if res.Session == 0 {
		t.Error("session id not assigned")
	}

	trace := out.String()
	if !strings.Contains(trace, "scheduler locking on") {
		t.Errorf("trace missing the locking status:\n%s", trace)
	}
	if !strings.Contains(trace, `#pygdb:0:a.py:2:"y = 2"`) {
		t.Errorf("trace missing the step record:\n%s", trace)
	}
}

func TestStepLimitWarning(t *testing.T) {
	d := stepDriver(pyf("a.py", 3, "x = 1"))

	var out bytes.Buffer
	res, err := New(d).Step(Options{MaxSteps: 2, Out: &out})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !res.LimitReached {
		t.Fatal("limit not reported")
	}
	if !strings.Contains(out.String(), "WARNING: stopped after max steps: 2") {
		t.Errorf("warning missing from output:\n%s", out.String())
	}
}
