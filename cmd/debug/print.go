package debug

import (
	"errors"
	"fmt"

	"github.com/hitzhangjie/pygdb/pkg/interp"
	"github.com/hitzhangjie/pygdb/pkg/variable"
	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:     "print <name>",
	Short:   "print a variable of the current python frame, dotted paths supported",
	Aliases: []string{"p"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("need variable name")
		}
		name := args[0]

		pf, ok := Walker.CurrentInterpreted()
		if !ok {
			fmt.Println("Unable to locate python frame")
			return nil
		}

		scope, val := variable.Resolve(pf, name)
		switch {
		case val != nil:
			fmt.Printf("(%s) %s = %s\n", scope, name, val)
		case scope != interp.ScopeNone:
			// the head of the path exists, some later segment does not
			fmt.Printf("(%s) %s = <no such attribute or key>\n", scope, name)
		default:
			fmt.Printf("no such variable: %s\n", name)
		}
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(printCmd)
}
