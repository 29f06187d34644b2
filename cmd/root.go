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
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pygdb",
	Short: "attach to a running process and debug its embedded interpreter at source level",
	Long: `pygdb attaches to a process that is blocked on a pygdb breakpoint
(the debuggee called breakpoint.Enable and breakpoint.Wait), lands on the
waiting frame and offers source-level inspection and stepping of the
interpreted code.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pygdb.yaml)")
	rootCmd.PersistentFlags().String("gdb", "gdb", "path of the gdb binary driving the debuggee")
	viper.BindPFlag("gdb-path", rootCmd.PersistentFlags().Lookup("gdb"))

	viper.SetDefault("gdb-path", "gdb")
	viper.SetDefault("max-steps", 10000)
	viper.SetDefault("list-lines", 30)
	viper.SetDefault("poll-interval", "1s")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".pygdb")
	}

	viper.SetEnvPrefix("PYGDB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
