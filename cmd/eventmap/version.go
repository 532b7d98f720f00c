package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the eventmap version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", AppName, Version, BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
