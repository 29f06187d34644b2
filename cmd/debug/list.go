package debug

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list [start [end]]",
	Short:   "show source around the current line",
	Aliases: []string{"l"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSource,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			start, end int
			err        error
		)
		if len(args) > 0 {
			if start, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid start line: %s", args[0])
			}
		}
		if len(args) > 1 {
			if end, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid end line: %s", args[1])
			}
		}
		if err := ListFrame(start, end); err != nil {
			fmt.Println(err)
		}
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(listCmd)
}
