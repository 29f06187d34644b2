package debug

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// termColor builds an ANSI escape, e.g. termColor(0, 34, 47) for blue on
// white, termColor(0) to reset.
func termColor(v ...int) string {
	parts := make([]string, 0, len(v))
	for _, n := range v {
		parts = append(parts, strconv.Itoa(n))
	}
	return "\x1b[" + strings.Join(parts, ";") + "m"
}

// ListFrame prints the source around the current interpreted frame with the
// active line highlighted. start/end are 1-based; zero start centers a
// window of list-lines around the current line, zero end extends start by
// the window size.
func ListFrame(start, end int) error {
	pf, ok := Walker.CurrentInterpreted()
	if !ok {
		return errors.New("unable to locate python frame")
	}
	filename := pf.Filename()
	lineno := pf.LineNum()

	window := viper.GetInt("list-lines")
	if window <= 0 {
		window = 30
	}
	if start == 0 {
		start = lineno - window/2
		end = lineno + window/2
	}
	if end == 0 {
		end = start + window
	}
	if start < 1 {
		start = 1
	}

	if info, err := Target.ThreadInfo(); err == nil && strings.TrimSpace(info) != "" {
		fmt.Println(strings.TrimSpace(info))
	}
	fmt.Printf("%s:%d\n", filename, lineno)

	dat, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read source err: %v", err)
	}
	lines := strings.Split(string(dat), "\n")
	if end > len(lines) {
		end = len(lines)
	}

	for i := start; i <= end; i++ {
		color := termColor(0)
		if i == lineno {
			color = termColor(0, 34, 47)
		}
		fmt.Printf("%s%d\t%s%s\n", color, i, lines[i-1], termColor(0))
	}
	return nil
}

// ShowBreakpoint lands on the frame that called into the breakpoint wait
// and displays its source context.
func ShowBreakpoint(silently bool) {
	ok, err := Locator.FindBreakpointCallerFrame()
	if err == nil && ok {
		if err := ListFrame(0, 0); err != nil && !silently {
			fmt.Println(err)
		}
		return
	}
	if !silently {
		fmt.Println("Unable to find breakpoint for current thread")
	}
}
