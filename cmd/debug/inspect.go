package debug

import (
	"fmt"

	"github.com/hitzhangjie/pygdb/pkg/interp"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "show details of the current python frame",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		showGlobals, _ := cmd.Flags().GetBool("globals")
		showLocals, _ := cmd.Flags().GetBool("locals")

		pf, ok := Walker.CurrentInterpreted()
		if !ok {
			fmt.Println("Unable to locate python frame")
			return nil
		}

		idx, err := Locator.FrameIndex()
		if err != nil {
			return err
		}

		fmt.Println("========================== inspect frame ==========================")
		fmt.Printf("frame No.: %d\n", idx)
		fmt.Printf("filename: %s\n", pf.Filename())
		fmt.Printf("line_number: %d\n", pf.LineNum())
		fmt.Printf("line: %s\n", pf.LineText())
		if back, ok := pf.Back(); ok {
			fmt.Printf("caller: %s:%d\n", back.Filename(), back.LineNum())
		} else {
			fmt.Println("caller: <none>")
		}

		if showGlobals {
			dumpBindings("f_globals", pf.Globals())
		}
		if showLocals {
			dumpBindings("f_locals", pf.Locals())
		}
		fmt.Println("======================== end inspect frame ========================")
		return nil
	},
}

func dumpBindings(title string, entries []interp.Entry) {
	fmt.Println("--------------------------------------------------------------------")
	fmt.Printf("%s:\n", title)
	fmt.Println("--------------------------------------------------------------------")
	for _, e := range entries {
		fmt.Printf("%s = %s\n", e.Key, e.Value)
	}
}

func init() {
	inspectCmd.Flags().Bool("globals", true, "show the frame's globals")
	inspectCmd.Flags().Bool("locals", true, "show the frame's locals")
	debugRootCmd.AddCommand(inspectCmd)
}
