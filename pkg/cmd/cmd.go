// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// configPath 配置文件或其所在目录.
	configPath string
	// debug 输出更详细的调试信息.
	debug bool

	rootCmd = &cobra.Command{
		Use:          "greenpark",
		Short:        "GreenPark Peyzaj content management backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print verbose output")

	registerServeCommands()
	registerJobsCommands()
	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
