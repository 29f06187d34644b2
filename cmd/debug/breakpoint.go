package debug

import (
	"github.com/spf13/cobra"
)

var breakpointCmd = &cobra.Command{
	Use:     "breakpoint",
	Short:   "show the source context of the active pygdb breakpoint",
	Aliases: []string{"bp"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	Run: func(cmd *cobra.Command, args []string) {
		ShowBreakpoint(false)
	},
}

func init() {
	debugRootCmd.AddCommand(breakpointCmd)
}
