package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	regask "github.com/kailas-cloud/regask/pkg/sdk"
)

func newAskCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question",
		Long: `Ask a question about the regulation. Without arguments, starts an
interactive session reading one question per line (type 'exit' to quit).

Examples:
  regask-cli ask "Who can file a claim?"
  regask-cli ask claims --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				return askOnce(cmd.Context(), client, out, strings.Join(args, " "), asJSON)
			}
			return askLoop(cmd.Context(), client, cmd.InOrStdin(), out, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func askOnce(ctx context.Context, client *regask.Client, out io.Writer, question string, asJSON bool) error {
	ans, err := client.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"question": ans.Question, "answer": ans.Bullets})
	}

	printAnswer(out, ans)
	return nil
}

func askLoop(ctx context.Context, client *regask.Client, in io.Reader, out io.Writer, asJSON bool) error {
	prompt := color.New(color.FgGreen, color.Bold)
	errColor := color.New(color.FgRed)

	color.New(color.FgCyan).Fprintln(out, "Ask about the regulation (type 'exit' to quit)")

	scanner := bufio.NewScanner(in)
	for {
		prompt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			break
		}
		q := strings.TrimSpace(scanner.Text())
		switch q {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := askOnce(ctx, client, out, q, asJSON); err != nil {
			errColor.Fprintf(out, "Error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func printAnswer(out io.Writer, ans *regask.Answer) {
	bullet := color.New(color.FgCyan)
	for _, b := range ans.Bullets {
		bullet.Fprint(out, "• ")
		fmt.Fprintln(out, b)
	}
}
