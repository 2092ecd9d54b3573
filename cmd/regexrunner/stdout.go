package main

import (
	"os"

	"github.com/spf13/cobra"
)

// stdoutFile returns the command output as a file when it is one.
func stdoutFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return nil
}
