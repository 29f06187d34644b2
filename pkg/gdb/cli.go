package gdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/hitzhangjie/pygdb/pkg/interp"
)

// outputSentinel is echoed after every command so Execute knows where the
// command's output ends. gdb has no machine-readable end-of-output marker in
// console mode.
const outputSentinel = "---pygdb-done---"

// CLIDriver drives a gdb subprocess in console mode: commands go to gdb's
// stdin, output is read back up to a sentinel echo. Interpreted-frame
// introspection is answered by gdb's embedded python with the CPython gdb
// helpers (libpython) loaded, see cli_python.go.
type CLIDriver struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	pid    int
}

// NewCLIDriver starts gdb at path and prepares it for scripted use.
func NewCLIDriver(path string) (*CLIDriver, error) {
	cmd := exec.Command(path, "-q", "-nx")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("start %s: %v", path, err)
	}
	pw.Close()

	d := &CLIDriver{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(pr),
	}

	// no pagination prompts, no y/n questions: both would stall Execute
	if _, err := d.Execute("set pagination off"); err != nil {
		d.Close()
		return nil, err
	}
	if _, err := d.Execute("set confirm off"); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// Close detaches from the debuggee, if any, and quits gdb.
func (d *CLIDriver) Close() error {
	if d.pid != 0 {
		d.Execute("detach")
	}
	d.mu.Lock()
	fmt.Fprintf(d.stdin, "quit\n")
	d.stdin.Close()
	d.mu.Unlock()
	return d.cmd.Wait()
}

// Execute runs one gdb console command and returns its output. Commands may
// span multiple lines (gdb's python blocks do).
func (d *CLIDriver) Execute(command string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := fmt.Fprintf(d.stdin, "%s\necho %s\\n\n", command, outputSentinel); err != nil {
		return "", fmt.Errorf("write to gdb: %v", err)
	}

	var sb strings.Builder
	for {
		line, err := d.stdout.ReadString('\n')
		if strings.Contains(line, outputSentinel) {
			break
		}
		sb.WriteString(strings.TrimPrefix(line, "(gdb) "))
		if err != nil {
			return sb.String(), fmt.Errorf("read from gdb: %v", err)
		}
	}
	return sb.String(), nil
}

func (d *CLIDriver) Attach(pid int) error {
	out, err := d.Execute(fmt.Sprintf("attach %d", pid))
	if err != nil {
		return err
	}
	if strings.Contains(out, "No such process") ||
		strings.Contains(out, "Operation not permitted") {
		return fmt.Errorf("attach %d: %s", pid, strings.TrimSpace(out))
	}
	d.pid = pid
	return nil
}

func (d *CLIDriver) Detach() error {
	_, err := d.Execute("detach")
	d.pid = 0
	return err
}

func (d *CLIDriver) DeleteBreakpoints() error {
	_, err := d.Execute("delete breakpoints")
	return err
}

func (d *CLIDriver) SetBreakpoint(location string) error {
	out, err := d.Execute(fmt.Sprintf("break %s", location))
	if err != nil {
		return err
	}
	if strings.Contains(out, "not defined") {
		return fmt.Errorf("break %s: %s", location, strings.TrimSpace(out))
	}
	return nil
}

// SignalContinue resumes the debuggee with SIGCONT delivered, the final leg
// of the attach handshake. gdb stays in control and stops again at the
// marker breakpoint.
func (d *CLIDriver) SignalContinue() error {
	_, err := d.Execute("signal SIGCONT")
	return err
}

func (d *CLIDriver) Continue() (string, error) {
	return d.Execute("continue")
}

func (d *CLIDriver) Step() error {
	_, err := d.Execute("step")
	return err
}

func (d *CLIDriver) Next() error {
	_, err := d.Execute("next")
	return err
}

func (d *CLIDriver) SetSchedulerLocking(locked bool) (string, error) {
	mode := "off"
	if locked {
		mode = "on"
	}
	return d.Execute(fmt.Sprintf("set scheduler-locking %s", mode))
}

// threadRx matches `info threads` lines like:
//
//	* 1    Thread 0x7ffff7fb8740 (LWP 12345) "python" 0x0000... in poll ()
var threadRx = regexp.MustCompile(`^(\*?)\s*(\d+)\s+Thread\s+(0x[0-9a-fA-F]+)\s+\(LWP\s+(\d+)\)\s*(?:"([^"]*)")?`)

func (d *CLIDriver) Threads() ([]Thread, error) {
	out, err := d.Execute("info threads")
	if err != nil {
		return nil, err
	}

	var threads []Thread
	for _, line := range strings.Split(out, "\n") {
		m := threadRx.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[2])
		tid, _ := strconv.ParseUint(m[3], 0, 64)
		threads = append(threads, Thread{
			Num:     num,
			TID:     tid,
			Name:    m[5],
			Current: m[1] == "*",
		})
	}
	return threads, nil
}

func (d *CLIDriver) SwitchThread(tid uint64) (string, error) {
	out, err := d.Execute(fmt.Sprintf("thread find Thread 0x%x", tid))
	if err != nil {
		return "", err
	}
	fields := strings.Fields(out)
	if len(fields) == 0 || fields[0] == "No" {
		return "", ErrNoThread
	}
	return d.Execute(fmt.Sprintf("thread %s", strings.TrimRight(fields[1], "'\"")))
}

func (d *CLIDriver) ThreadInfo() (string, error) {
	return d.Execute("thread")
}

var frameNoRx = regexp.MustCompile(`#(\d+)`)

func (d *CLIDriver) SelectedFrame() (Frame, error) {
	out, err := d.Execute("frame")
	if err != nil {
		return nil, err
	}
	m := frameNoRx.FindStringSubmatch(out)
	if m == nil {
		return nil, ErrNoFrame
	}
	level, _ := strconv.Atoi(m[1])
	return cliFrame{d: d, level: level}, nil
}

func (d *CLIDriver) NewestFrame() (Frame, error) {
	out, err := d.Execute("frame 0")
	if err != nil {
		return nil, err
	}
	if strings.Contains(out, "No stack") {
		return nil, ErrNoFrame
	}
	return cliFrame{d: d, level: 0}, nil
}

func (d *CLIDriver) SelectFrame(f Frame) error {
	cf, ok := f.(cliFrame)
	if !ok {
		return fmt.Errorf("frame handle not owned by this driver")
	}
	out, err := d.Execute(fmt.Sprintf("frame %d", cf.level))
	if err != nil {
		return err
	}
	if strings.Contains(out, "No stack") {
		return ErrNoFrame
	}
	return nil
}

// cliFrame addresses a native frame by its gdb level. Level 0 is the newest
// frame; moving toward the caller increases the level.
type cliFrame struct {
	d     *CLIDriver
	level int
}

func (f cliFrame) Caller() (Frame, bool) {
	if err := f.d.SelectFrame(f); err != nil {
		return nil, false
	}
	out, err := f.d.Execute("up 1")
	if err != nil ||
		strings.Contains(out, "Initial frame selected") ||
		strings.Contains(out, "you cannot go up") {
		return nil, false
	}
	return cliFrame{d: f.d, level: f.level + 1}, true
}

func (f cliFrame) Callee() (Frame, bool) {
	if f.level == 0 {
		return nil, false
	}
	if err := f.d.SelectFrame(f); err != nil {
		return nil, false
	}
	out, err := f.d.Execute("down 1")
	if err != nil ||
		strings.Contains(out, "Bottom (innermost) frame") ||
		strings.Contains(out, "you cannot go down") {
		return nil, false
	}
	return cliFrame{d: f.d, level: f.level - 1}, true
}

func (f cliFrame) Interpreted() (interp.Frame, bool) {
	if err := f.d.SelectFrame(f); err != nil {
		return nil, false
	}
	return f.d.pythonFrame(f.level)
}
