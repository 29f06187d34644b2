package debug

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var gdbCmd = &cobra.Command{
	Use:   "gdb <command...>",
	Short: "run a raw command on the underlying native debugger",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupOthers,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("need a debugger command")
		}
		out, err := Target.Execute(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(gdbCmd)
}
