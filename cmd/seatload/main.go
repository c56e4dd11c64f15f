// Command seatload drives a running API: it races many users for one seat and renders seat
// layouts, which makes the single-winner guarantee observable from outside the service.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	api     string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "seatload",
		Short:         "Exercise seat reservations against a running API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.api, "api", envOr("SEATLOAD_API", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")

	root.AddCommand(newClaimCmd(opts), newLayoutCmd(opts))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
