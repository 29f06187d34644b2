package debug

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hitzhangjie/pygdb/pkg/gdb"
	"github.com/spf13/cobra"
)

var threadCmd = &cobra.Command{
	Use:   "thread <tid>",
	Short: "switch the active thread",
	Long:  `switch the active thread, tid may be decimal or 0x-prefixed hex.`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("expect exactly one thread id")
		}
		tid, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid thread id: %s", args[0])
		}

		out, err := Target.SwitchThread(tid)
		if errors.Is(err, gdb.ErrNoThread) {
			fmt.Printf("No thread found with thread id: 0x%x\n", tid)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(threadCmd)
}
