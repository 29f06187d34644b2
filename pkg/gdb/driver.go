// Package gdb abstracts the native debugger the console drives. The
// console's algorithms (frame scan, line stepping) only need the small
// Driver surface below; the concrete implementation in this package drives
// a gdb subprocess, tests use the scripted fake in gdbtest.
package gdb

import (
	"errors"

	"github.com/hitzhangjie/pygdb/pkg/interp"
)

var (
	// ErrNoThread is returned when a thread switch names an unknown thread.
	ErrNoThread = errors.New("no such thread")

	// ErrNoFrame is returned when no frame selection exists, e.g. before a
	// target is attached or stopped.
	ErrNoFrame = errors.New("no frame selected")
)

// Thread is one native thread of the debuggee.
type Thread struct {
	Num     int    // debugger-local thread number
	TID     uint64 // OS thread id
	Name    string
	Current bool
}

// Frame is an opaque handle onto one native stack frame. Frames are ordered
// newest to oldest; moving toward the caller is "older". A Frame stays
// valid only until the next resumption of the debuggee.
//
// Handles must be comparable: two handles onto the same native frame of the
// same stop compare equal.
type Frame interface {
	// Caller returns the next older frame, false at the oldest frame.
	Caller() (Frame, bool)

	// Callee returns the next newer frame, false at the newest frame.
	Callee() (Frame, bool)

	// Interpreted resolves the interpreted-language frame executing in
	// this native frame, false when there is none (native runtime code).
	Interpreted() (interp.Frame, bool)
}

// Driver is the native debugger. It owns a single shared frame-selection
// cursor; whichever console command is running owns that cursor for the
// duration of the command. Concurrent use is not supported.
type Driver interface {
	// Execute runs a raw debugger console command and returns its output.
	Execute(cmd string) (string, error)

	// Attach sequence primitives.
	Attach(pid int) error
	Detach() error
	DeleteBreakpoints() error
	SetBreakpoint(location string) error
	// SignalContinue delivers SIGCONT to the debuggee, the attach
	// notification the debuggee's breakpoint.Sync waits for.
	SignalContinue() error

	// Resumption. Step descends into calls, Next does not. Both block
	// until the debuggee stops again.
	Continue() (string, error)
	Step() error
	Next() error
	// SetSchedulerLocking locks resumption to the current thread (true)
	// or lets all threads run (false). Returns the debugger's status text.
	SetSchedulerLocking(locked bool) (string, error)

	// Threads.
	Threads() ([]Thread, error)
	SwitchThread(tid uint64) (string, error)
	// ThreadInfo returns the debugger's one-line description of the
	// current thread, for display.
	ThreadInfo() (string, error)

	// Frame selection cursor.
	SelectedFrame() (Frame, error)
	NewestFrame() (Frame, error)
	SelectFrame(f Frame) error
}
