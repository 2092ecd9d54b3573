package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/regexrunner/internal/cli"
	"github.com/aretw0/regexrunner/internal/presentation/graph"
	"github.com/aretw0/regexrunner/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [challenge-id]",
	Short: "Export a challenge automaton as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart of the automaton. With --input, the states
visited by that run are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.NewEngine(engineOptions(cmd))
		if err != nil {
			return err
		}

		id := domain.DefaultChallengeID
		if len(args) > 0 {
			id = args[0]
		}
		c, err := engine.Challenge(id)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("input") {
			input, _ := cmd.Flags().GetString("input")
			overlay = graph.OverlayFromResult(engine.Run(cmd.Context(), c.ID, &c.DFA, input))
		}

		// Generate and print Mermaid graph
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(&c.DFA, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("input", "i", "", "Highlight the run of this input")
}
