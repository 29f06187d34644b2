package debug

import (
	"fmt"
	"os"

	"github.com/hitzhangjie/pygdb/pkg/breakpoint"
	"github.com/hitzhangjie/pygdb/pkg/gdb"
	"github.com/hitzhangjie/pygdb/pkg/stack"
	"github.com/hitzhangjie/pygdb/pkg/stepper"
)

var (
	// Target is the native debugger the session commands drive. The frame
	// selection inside it is a single shared cursor owned by whichever
	// command is currently executing.
	Target gdb.Driver

	// Walker, Locator and Stepper operate on Target's cursor.
	Walker  *stack.Walker
	Locator *stack.Locator
	Stepper *stepper.Engine
)

// SetTarget installs drv as the session target.
func SetTarget(drv gdb.Driver) {
	Target = drv
	Walker = stack.NewWalker(drv)
	Locator = stack.NewLocator(drv)
	Stepper = stepper.New(drv)
}

// AttachTarget runs the attach handshake against drv and installs it as the
// session target. The sequence matters: stale breakpoints go first, the
// marker breakpoint must exist before SIGCONT is delivered, because the
// debuggee's Wait returns as soon as the signal lands and immediately runs
// into the marker.
func AttachTarget(drv gdb.Driver, pid int) error {
	if err := drv.DeleteBreakpoints(); err != nil {
		return err
	}
	if err := drv.Attach(pid); err != nil {
		return err
	}
	if err := drv.SetBreakpoint(breakpoint.MarkIdentifier); err != nil {
		return err
	}
	if err := drv.SignalContinue(); err != nil {
		return err
	}

	SetTarget(drv)

	if comm, err := gdb.ReadProcComm(pid); err == nil {
		fmt.Printf("attached to %d (%s)\n", pid, comm)
	}
	ShowBreakpoint(false)
	return nil
}

// Cleanup detaches the target. The debuggee is an attached process, it
// stays running.
func Cleanup() {
	if Target == nil {
		return
	}
	if err := Target.Detach(); err != nil {
		fmt.Fprintf(os.Stderr, "detach tracee err: %v\n", err)
	}
	if c, ok := Target.(*gdb.CLIDriver); ok {
		c.Close()
	}
	Target = nil
}
