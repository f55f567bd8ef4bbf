package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	regask "github.com/kailas-cloud/regask/pkg/sdk"
)

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}

			report, err := client.Health(cmd.Context())
			if err != nil && (report == nil || !errors.Is(err, regask.ErrUnavailable)) {
				return fmt.Errorf("health: %w", err)
			}

			printHealth(cmd.OutOrStdout(), report)
			if !report.Healthy() {
				return errors.New("service degraded")
			}
			return nil
		},
	}
}

func printHealth(out io.Writer, report *regask.HealthReport) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	status := ok
	if !report.Healthy() {
		status = bad
	}
	status.Fprintf(out, "status: %s\n", report.Status)

	names := make([]string, 0, len(report.Checks))
	for name := range report.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := report.Checks[name]
		c := ok
		if result != "ok" {
			c = bad
		}
		fmt.Fprintf(out, "  %-10s ", name)
		c.Fprint(out, result)
		if msg := report.Errors[name]; msg != "" {
			fmt.Fprintf(out, " (%s)", msg)
		}
		fmt.Fprintln(out)
	}
}
