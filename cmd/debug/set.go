package debug

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <name> <expr>",
	Short: "set a local variable in the current python frame",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return errors.New("need variable name and value expression")
		}
		name := args[0]
		expr := strings.Join(args[1:], " ")

		pf, ok := Walker.CurrentInterpreted()
		if !ok {
			fmt.Println("Unable to locate python frame")
			return nil
		}
		if err := pf.SetLocal(name, expr); err != nil {
			fmt.Printf("set %s err: %v\n", name, err)
			return nil
		}
		fmt.Printf("set %s = %s\n", name, expr)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(setCmd)
}
