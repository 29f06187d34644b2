// Package stepper turns native single steps into "stopped at a new source
// line of the interpreted language".
package stepper

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/atomic"

	"github.com/hitzhangjie/pygdb/pkg/breakpoint"
	"github.com/hitzhangjie/pygdb/pkg/gdb"
	"github.com/hitzhangjie/pygdb/pkg/interp"
	"github.com/hitzhangjie/pygdb/pkg/stack"
)

// DefaultMaxSteps bounds a runaway step session. It is a safety valve, not
// an exact contract: the loop may issue one step past it.
const DefaultMaxSteps = 10000

var sessionSeq = atomic.NewUint64(0)

// Granularity selects the native resumption primitive.
type Granularity int

const (
	// StepInto descends into calls.
	StepInto Granularity = iota
	// StepOver does not descend into calls.
	StepOver
)

// Options configure one step session.
type Options struct {
	// SkipMark keeps stepping while the current line text equals the
	// breakpoint marker call, so the operator never lands on the marker.
	SkipMark bool

	// LockScheduler restricts resumption to the current thread.
	LockScheduler bool

	// MaxSteps caps the native resumptions issued; 0 means DefaultMaxSteps.
	MaxSteps int

	// Silent suppresses the per-step trace and warnings.
	Silent bool

	// Out receives trace output, default os.Stdout.
	Out io.Writer
}

// Result reports where a step session ended.
type Result struct {
	Session      uint64
	Steps        int          // native resumptions issued
	LimitReached bool         // stopped by the step cap, not by a new line
	Frame        interp.Frame // last resolved interpreted frame, may be nil
}

// Engine drives step sessions over a native debugger.
type Engine struct {
	drv      gdb.Driver
	walker   *stack.Walker
	markCall string
}

func New(drv gdb.Driver) *Engine {
	return &Engine{
		drv:      drv,
		walker:   stack.NewWalker(drv),
		markCall: breakpoint.MarkCall,
	}
}

// Step resumes by native steps that descend into calls until a new
// interpreted source line is reached.
func (e *Engine) Step(opts Options) (*Result, error) {
	return e.run(StepInto, opts)
}

// Next is Step with call sites stepped over.
func (e *Engine) Next(opts Options) (*Result, error) {
	return e.run(StepOver, opts)
}

// run is the step state machine. It captures the starting interpreted
// position, then keeps issuing native resumptions while the re-resolved
// position still equals the start OR (with SkipMark) the current line text
// is the marker call. Both conditions must clear before it stops; a step
// landing on a different line whose text is the marker is still skipped.
// That OR is deliberate and matched by tests, do not tighten it.
//
// When no interpreted frame resolves at the start, the recorded position
// stays empty and the first resolvable position counts as a stop.
func (e *Engine) run(g Granularity, opts Options) (*Result, error) {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	status, err := e.drv.SetSchedulerLocking(opts.LockScheduler)
	if err != nil {
		return nil, err
	}
	if !opts.Silent && status != "" {
		fmt.Fprintln(opts.Out, strings.TrimSpace(status))
	}

	var (
		filename string
		lineno   = -1
		line     string

		lastFilename string
		lastLineno   = -1
	)

	res := &Result{Session: sessionSeq.Add(1)}
	if pf, ok := e.walker.CurrentInterpreted(); ok {
		filename = pf.Filename()
		lineno = pf.LineNum()
		line = strings.TrimSpace(pf.LineText())
		lastFilename = filename
		lastLineno = lineno
		res.Frame = pf
	}

	for (lastFilename == filename && lastLineno == lineno) ||
		(opts.SkipMark && line == e.markCall) ||
		res.Steps > opts.MaxSteps {

		if g == StepInto {
			err = e.drv.Step()
		} else {
			err = e.drv.Next()
		}
		if err != nil {
			return res, err
		}

		if err := e.reselect(); err != nil {
			return res, err
		}
		if pf, ok := e.walker.CurrentInterpreted(); ok {
			filename = pf.Filename()
			lineno = pf.LineNum()
			line = strings.TrimSpace(pf.LineText())
			res.Frame = pf
			if !opts.Silent {
				fmt.Fprintf(opts.Out, "#pygdb:%d:%s:%d:%q\n", res.Steps, filename, lineno, line)
			}
		}

		res.Steps++
		if res.Steps > opts.MaxSteps {
			break
		}
	}

	if res.Steps > opts.MaxSteps {
		res.LimitReached = true
		if !opts.Silent {
			fmt.Fprintf(opts.Out, "\x1b[0;31mWARNING: stopped after max steps: %d\x1b[0m\n", opts.MaxSteps)
		}
	}
	return res, nil
}

// reselect moves the cursor back to the newest frame after a resumption and
// one hop toward the caller, where the interpreted frame lives when the
// newest frame is inside the runtime's native code. A stack with a single
// frame keeps the newest selected.
func (e *Engine) reselect() error {
	newest, err := e.drv.NewestFrame()
	if err != nil {
		return err
	}
	if err := e.drv.SelectFrame(newest); err != nil {
		return err
	}
	_, err = e.walker.Move(stack.Up, 1)
	return err
}
