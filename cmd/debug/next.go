package debug

import (
	"github.com/hitzhangjie/pygdb/pkg/stepper"
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:     "next",
	Short:   "continue until control reaches a different python source line, stepping over calls",
	Aliases: []string{"n"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupCtrlFlow,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStepSession(cmd, stepper.StepOver)
	},
}

func init() {
	addStepFlags(nextCmd)
	debugRootCmd.AddCommand(nextCmd)
}
