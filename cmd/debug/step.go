package debug

import (
	"fmt"

	"github.com/hitzhangjie/pygdb/pkg/stepper"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var stepCmd = &cobra.Command{
	Use:     "step",
	Short:   "continue until control reaches a different python source line, descending into calls",
	Aliases: []string{"s"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupCtrlFlow,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStepSession(cmd, stepper.StepInto)
	},
}

func init() {
	addStepFlags(stepCmd)
	debugRootCmd.AddCommand(stepCmd)
}

func addStepFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("lock-scheduler", false, "only let the current thread run while stepping")
	cmd.Flags().Bool("skip-mark", true, "never stop on the breakpoint marker line")
}

func runStepSession(cmd *cobra.Command, g stepper.Granularity) error {
	lock, _ := cmd.Flags().GetBool("lock-scheduler")
	skip, _ := cmd.Flags().GetBool("skip-mark")

	opts := stepper.Options{
		SkipMark:      skip,
		LockScheduler: lock,
		MaxSteps:      viper.GetInt("max-steps"),
	}

	var (
		res *stepper.Result
		err error
	)
	if g == stepper.StepInto {
		res, err = Stepper.Step(opts)
	} else {
		res, err = Stepper.Next(opts)
	}
	if err != nil {
		return err
	}

	fmt.Printf("#steps: %d\n", res.Steps)
	if err := ListFrame(0, 0); err != nil {
		fmt.Println(err)
	}
	return nil
}
