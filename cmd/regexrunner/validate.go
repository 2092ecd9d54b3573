package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/regexrunner/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check challenge files for consistency",
	Long: `Checks that every automaton only refers to declared states and symbols.
With --complete, every (state, symbol) pair must also have a transition.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if len(args) > 0 {
			dir = args[0]
		}
		complete, _ := cmd.Flags().GetBool("complete")

		if err := cli.Validate(cmd.OutOrStdout(), dir, complete); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All challenges are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("complete", false, "Require a total transition function")
}
