package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/regexrunner/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "regexrunner",
	Short: "Regex Runner is a DFA simulator played as a game",
	Long: `Regex Runner feeds strings through deterministic finite automata and shows
the states they visit. Challenges are YAML or JSON files; without any, the
built-in pack is used.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing challenge files")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("strict", false, "Reject structurally invalid challenge files")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for sessions (env "+cli.RedisAddrEnv+")")
}

// engineOptions reads the persistent flags shared by every command.
func engineOptions(cmd *cobra.Command) cli.EngineOptions {
	dir, _ := cmd.Flags().GetString("dir")
	debug, _ := cmd.Flags().GetBool("debug")
	strict, _ := cmd.Flags().GetBool("strict")
	return cli.EngineOptions{Dir: dir, Debug: debug, Strict: strict}
}
