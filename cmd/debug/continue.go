package debug

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "continue to the next breakpoint",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupCtrlFlow,
	},
	Aliases: []string{"c"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := Target.Continue()
		if err != nil {
			return fmt.Errorf("continue error: %v", err)
		}
		if strings.TrimSpace(out) != "" {
			fmt.Println(strings.TrimSpace(out))
		}
		ShowBreakpoint(false)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(continueCmd)
}
