package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/regexrunner/internal/cli"
	"github.com/aretw0/regexrunner/pkg/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove player sessions stored in .regexrunner/sessions or Redis.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(mgr *session.Manager) error {
			ids, err := mgr.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sessions:")
			for _, id := range ids {
				sess, err := mgr.Load(cmd.Context(), id)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s (unreadable: %v)\n", id, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- %s  challenge=%s score=%d runs=%d\n", id, sess.ChallengeID, sess.Score, sess.Runs)
			}
			return nil
		})
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the score and history of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(mgr *session.Manager) error {
			sess, err := mgr.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", args[0], err)
			}
			data, err := json.MarshalIndent(sess, "", "  ")
			if err != nil {
				return fmt.Errorf("error marshaling session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		})
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("requires at least one session ID or --all")
		}

		return withSessions(cmd, func(mgr *session.Manager) error {
			ids := args
			if all {
				var err error
				if ids, err = mgr.List(cmd.Context()); err != nil {
					return fmt.Errorf("error listing sessions: %w", err)
				}
			}

			hasError := false
			for _, id := range ids {
				if err := mgr.Delete(cmd.Context(), id); err != nil {
					fmt.Fprintf(os.Stderr, "Error removing '%s': %v\n", id, err)
					hasError = true
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
				}
			}
			if hasError {
				return fmt.Errorf("some sessions could not be removed")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionRmCmd.Flags().Bool("all", false, "Remove every session")
}

func withSessions(cmd *cobra.Command, fn func(*session.Manager) error) error {
	dir, _ := cmd.Flags().GetString("dir")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	debug, _ := cmd.Flags().GetBool("debug")

	mgr, closeStore, err := cli.OpenSessions(cli.PersistenceOptions{Dir: dir, RedisAddr: redisAddr}, debug)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(mgr)
}
