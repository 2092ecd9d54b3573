package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/regexrunner/internal/cli"
	"github.com/aretw0/regexrunner/internal/presentation/tui"
)

var challengesCmd = &cobra.Command{
	Use:     "challenges",
	Aliases: []string{"ch"},
	Short:   "Browse the challenge pack",
}

var challengesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List challenges by level",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.NewEngine(engineOptions(cmd))
		if err != nil {
			return err
		}
		list, err := engine.Challenges()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LEVEL\tID\tNAME\tSTATES")
		for _, c := range list {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", c.Level, c.ID, c.Name, len(c.DFA.States))
		}
		return tw.Flush()
	},
}

var challengesShowCmd = &cobra.Command{
	Use:   "show <challenge-id>",
	Short: "Show a challenge description and automaton",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.NewEngine(engineOptions(cmd))
		if err != nil {
			return err
		}
		c, err := engine.Challenge(args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "# Level %d: %s\n\n%s\n\n", c.Level, c.Name, c.Description)
		if len(c.Examples) > 0 {
			fmt.Fprintf(&sb, "**Accepted examples:** `%s`\n\n", strings.Join(c.Examples, "`, `"))
		}
		fmt.Fprintf(&sb, "- States: %s\n", strings.Join(c.DFA.States, ", "))
		fmt.Fprintf(&sb, "- Alphabet: %s\n", strings.Join(c.DFA.Alphabet, ", "))
		fmt.Fprintf(&sb, "- Start: %s\n", c.DFA.StartState)
		fmt.Fprintf(&sb, "- Final: %s\n", strings.Join(c.DFA.FinalStates, ", "))

		render := tui.PlainRenderer
		if tui.IsInteractive(stdoutFile(cmd)) {
			render = tui.NewRenderer()
		}
		out, err := render(sb.String())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(challengesCmd)
	challengesCmd.AddCommand(challengesLsCmd)
	challengesCmd.AddCommand(challengesShowCmd)
	challengesShowCmd.Flags().Bool("json", false, "Print the challenge as JSON")
}
