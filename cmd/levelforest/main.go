package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "levelforest",
		Short: "levelforest grows random forests level by level",
		Long:  `A tool to grow bagged random forests from CSV data one tree level at a time, test them, and use them to make predictions`,
	}
	config := &rootCmdConfig{}
	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress information to STDERR")
	cobra.OnInitialize(func() { config.logger = logger(verbose) })
	rootCmd.AddCommand(versionCmd(), growCmd(config), predictCmd(config))
	return rootCmd
}
