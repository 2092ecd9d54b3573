package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/regexrunner/internal/cli"
	"github.com/aretw0/regexrunner/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <input>",
	Short: "Run one input string through a challenge automaton",
	Long: `Simulates the automaton of a challenge (even_ones by default) on the given
input and prints the verdict with the trace of visited states.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{EngineOptions: engineOptions(cmd)}
		if len(args) > 0 {
			opts.Input = args[0]
		}
		opts.ChallengeID, _ = cmd.Flags().GetString("challenge")
		opts.DefinitionPath, _ = cmd.Flags().GetString("file")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Animate, _ = cmd.Flags().GetBool("animate")
		opts.Delay, _ = cmd.Flags().GetDuration("delay")

		_, err := cli.RunOnce(cmd.Context(), cmd.OutOrStdout(), opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("challenge", "c", "", "Challenge ID (default even_ones)")
	runCmd.Flags().StringP("file", "f", "", "Run the challenge defined in this YAML/JSON file")
	runCmd.Flags().Bool("json", false, "Print the result as JSON")
	runCmd.Flags().Bool("animate", false, "Replay the trace step by step")
	runCmd.Flags().Duration("delay", tui.DefaultStepDelay, "Delay between steps with --animate")
}
