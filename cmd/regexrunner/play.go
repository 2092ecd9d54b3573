package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/regexrunner/internal/cli"
	"github.com/aretw0/regexrunner/internal/presentation/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play challenges interactively",
	Long: `Starts the interactive game: each line you type is run through the active
challenge, the trace is replayed, and accepted strings score points.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.PlayOptions{EngineOptions: engineOptions(cmd)}
		opts.ChallengeID, _ = cmd.Flags().GetString("challenge")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Delay, _ = cmd.Flags().GetDuration("delay")
		return cli.Play(opts)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("challenge", "c", "", "Challenge to start with (default: the session's or even_ones)")
	playCmd.Flags().StringP("session", "s", "", "Session ID to resume (default: a new one)")
	playCmd.Flags().Bool("headless", false, "No banner, prompt or animation")
	playCmd.Flags().Bool("fresh", false, "Reset the session before playing")
	playCmd.Flags().BoolP("watch", "w", false, "Reload challenge files when they change")
	playCmd.Flags().Duration("delay", tui.DefaultStepDelay, "Delay between trace steps")

	// Make 'play' the default if no command is provided
	rootCmd.RunE = playCmd.RunE
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
}
