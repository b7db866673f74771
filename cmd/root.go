package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

// Execute runs the sanket command line.
func Execute() {
	var root = &cobra.Command{
		Use:          "sanket",
		Short:        "Sarkari Sanket: bill analysis web frontend",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.yaml)")

	root.AddCommand(serveCMD(), analyzeCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
