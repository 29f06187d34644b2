/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hitzhangjie/pygdb/cmd/debug"
	"github.com/hitzhangjie/pygdb/pkg/gdb"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// attachCmd represents the attach command
var attachCmd = &cobra.Command{
	Use:   "attach <pid>",
	Short: "attach to a process waiting on a pygdb breakpoint",
	Long: `attach to a process waiting on a pygdb breakpoint.

The attach sequence deletes stale breakpoints, attaches the native
debugger, sets the marker breakpoint and delivers SIGCONT, which releases
the debuggee's breakpoint.Wait.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if len(args) != 1 {
			return errors.New("expect exactly one pid argument")
		}

		pid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid pid: %s", args[0])
		}

		drv, err := gdb.NewCLIDriver(viper.GetString("gdb-path"))
		if err != nil {
			return err
		}

		if err := debug.AttachTarget(drv, int(pid)); err != nil {
			drv.Close()
			return err
		}
		return nil
	},
	PostRun: func(cmd *cobra.Command, args []string) {
		debug.CurrentSession = debug.NewDebugSession().AtExit(debug.Cleanup)
		debug.CurrentSession.Start()
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
