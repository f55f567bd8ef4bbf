// Package cli implements the regask terminal client.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	regask "github.com/kailas-cloud/regask/pkg/sdk"
)

const defaultServerURL = "http://localhost:8000"

type options struct {
	serverURL string
	apiKey    string
	timeout   time.Duration
	noColor   bool
}

// NewRootCmd builds the regask-cli command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "regask-cli",
		Short: "Ask plain-language questions about the insurance regulation",
		Long: `regask-cli talks to a running regask API server.

Example usage:
  regask-cli ask "What is a waiting period?"
  regask-cli ask                      # interactive session
  regask-cli health`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.serverURL, "server", "s",
		envOr("REGASK_URL", defaultServerURL), "API base URL (env REGASK_URL)")
	root.PersistentFlags().StringVar(&opts.apiKey, "api-key",
		os.Getenv("REGASK_API_KEY"), "API key (env REGASK_API_KEY)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "request timeout")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newAskCmd(opts), newHealthCmd(opts))
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *options) client() (*regask.Client, error) {
	c, err := regask.New(o.serverURL, regask.WithAPIKey(o.apiKey), regask.WithTimeout(o.timeout))
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
