package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/regexrunner"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of regexrunner",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "regexrunner version %s\n", strings.TrimSpace(regexrunner.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
