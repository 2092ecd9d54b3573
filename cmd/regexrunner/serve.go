package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/regexrunner/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the simulator as a JSON API (POST /simulate, /challenges, scored
/sessions), Prometheus metrics on /metrics and reload events over SSE on /events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ServeOptions{EngineOptions: engineOptions(cmd)}
		port, _ := cmd.Flags().GetString("port")
		opts.Addr = ":" + port
		opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		return cli.Serve(opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload challenge files when they change")
}
