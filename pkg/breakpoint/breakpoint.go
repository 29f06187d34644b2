// Package breakpoint is the debuggee side of pygdb: a process that wants to
// be debugged calls Enable once, then Wait at the place it wants to stop.
// Wait blocks the calling goroutine until a debugger console attaches, which
// it signals by delivering SIGCONT, then invokes the marker call Mark. The
// console sets its one native breakpoint on the marker and recognizes the
// waiting frame by the marker's source text.
package breakpoint

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sys/unix"
)

const (
	// MarkIdentifier is the symbol the console breaks on after attaching.
	MarkIdentifier = "pygdb_breakpoint_mark"

	// MarkCall is the marker call as it appears in interpreted source. The
	// breakpoint locator and the step engine match frame line text against
	// this, trimmed.
	MarkCall = "pygdb.breakpoint_mark()"
)

// DefaultPollInterval is how long Wait sleeps between attach checks. The
// poll is coarse on purpose: SIGCONT delivery is the real wake-up, the loop
// only re-checks state afterwards.
const DefaultPollInterval = time.Second

// Sync coordinates "debuggee waiting" with "console attached". One instance
// per process is the expected shape; the zero value is usable but New sets
// the poll interval.
type Sync struct {
	mu       sync.Mutex
	enabled  bool
	attached bool
	logger   *slog.Logger
	sigCh    chan os.Signal

	interval time.Duration
	marks    *atomic.Uint64
}

// Option configures a Sync.
type Option func(*Sync)

// WithPollInterval overrides the attach-poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Sync) {
		if d > 0 {
			s.interval = d
		}
	}
}

// New creates a Sync. It does not install any signal handling, see Enable.
func New(opts ...Option) *Sync {
	s := &Sync{
		interval: DefaultPollInterval,
		marks:    atomic.NewUint64(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enable arms the sync: it clears the attached latch, remembers the logger
// and subscribes to SIGCONT. Calling it again is a no-op, the subscription
// is installed exactly once.
func (s *Sync) Enable(logger *slog.Logger) {
	s.mu.Lock()
	if s.enabled {
		s.mu.Unlock()
		return
	}
	s.enabled = true
	s.attached = false
	if logger != nil {
		s.logger = logger
	}
	s.sigCh = make(chan os.Signal, 1)
	signal.Notify(s.sigCh, unix.SIGCONT)
	ch := s.sigCh
	s.mu.Unlock()

	go func() {
		for range ch {
			s.OnSignal()
		}
	}()

	s.log("enabled")
}

// OnSignal records that a console has attached. It is driven by SIGCONT
// delivery but may also be called directly, e.g. by an in-process console.
// Only the first call per attach cycle has effect. The critical section is
// a check-and-set only; logging happens after the lock is released.
func (s *Sync) OnSignal() {
	s.mu.Lock()
	first := !s.attached
	s.attached = true
	s.mu.Unlock()

	if first {
		s.log("GDB console attached")
	}
}

// Attached reports whether a console has attached since Enable.
func (s *Sync) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// SetLogger routes log output to logger. Returns false when the sync is not
// enabled or logger is nil.
func (s *Sync) SetLogger(logger *slog.Logger) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || logger == nil {
		return false
	}
	s.logger = logger
	return true
}

// Wait blocks until a console has attached, then invokes the marker call
// exactly once. A no-op when the sync is not enabled. There is no timeout
// and no cancellation: an unattached debuggee waits indefinitely, that is
// the contract. The sleep happens outside the lock so OnSignal can always
// acquire it promptly.
//
// The marker call is issued from the calling goroutine because the frame
// executing it is what the console locates after attaching.
func (s *Sync) Wait(logger *slog.Logger) {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return
	}
	if logger != nil {
		s.logger = logger
	}
	for !s.attached {
		s.mu.Unlock()
		s.log("breakpoint.Wait: waiting for gdb console")
		time.Sleep(s.interval)
		s.mu.Lock()
	}
	s.mu.Unlock()

	Mark()
	s.marks.Add(1)
}

// Marks returns how many times Wait has issued the marker call.
func (s *Sync) Marks() uint64 {
	return s.marks.Load()
}

// log emits a pid/tid tagged line, to the configured logger if any,
// otherwise to stderr. A no-op before Enable.
func (s *Sync) log(msg string) {
	s.mu.Lock()
	enabled, logger := s.enabled, s.logger
	s.mu.Unlock()
	if !enabled {
		return
	}

	pid := os.Getpid()
	tid := unix.Gettid()
	if logger != nil {
		logger.Info(msg, "pid", pid, "tid", tid)
		return
	}
	fmt.Fprintf(os.Stderr, "pygdb: (PID: %d, TID: %#x): %s\n", pid, tid, msg)
}

// Mark is the marker call. It does nothing; it exists so the console has a
// known symbol to set its native breakpoint on and a known call text to
// recognize in the waiting frame.
//
//go:noinline
func Mark() {}

// Default is the process-wide sync used by the package-level functions,
// mirroring the original module-level API. Hosts that want full control
// build their own Sync with New.
var Default = New()

// Enable arms the default sync.
func Enable(logger *slog.Logger) { Default.Enable(logger) }

// Wait blocks on the default sync until a console attaches.
func Wait(logger *slog.Logger) { Default.Wait(logger) }

// SetLogger sets the default sync's logger.
func SetLogger(logger *slog.Logger) bool { return Default.SetLogger(logger) }
