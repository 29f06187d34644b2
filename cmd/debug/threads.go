package debug

import (
	"fmt"

	"github.com/spf13/cobra"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "list the threads of the attached process",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		threads, err := Target.Threads()
		if err != nil {
			return err
		}
		for _, t := range threads {
			cur := " "
			if t.Current {
				cur = "*"
			}
			fmt.Printf("%s %-4d Thread 0x%x %q\n", cur, t.Num, t.TID, t.Name)
		}
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(threadsCmd)
}
