package debug

import (
	"fmt"
	"strconv"

	"github.com/hitzhangjie/pygdb/pkg/stack"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up [count]",
	Short: "move the frame selection toward the caller",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSource,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveFrames(stack.Up, args)
	},
}

var downCmd = &cobra.Command{
	Use:   "down [count]",
	Short: "move the frame selection toward the callee",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSource,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveFrames(stack.Down, args)
	},
}

func moveFrames(dir stack.Direction, args []string) error {
	count := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("invalid count: %s", args[0])
		}
		count = v
	}

	more, err := Walker.Move(dir, count)
	if err != nil {
		return err
	}
	if !more {
		fmt.Println("no more frames")
	}

	if pf, ok := Walker.CurrentInterpreted(); ok {
		fmt.Printf("%s:%d: %s\n", pf.Filename(), pf.LineNum(), pf.LineText())
	} else {
		fmt.Println("no python frame here")
	}
	return nil
}

func init() {
	debugRootCmd.AddCommand(upCmd)
	debugRootCmd.AddCommand(downCmd)
}
