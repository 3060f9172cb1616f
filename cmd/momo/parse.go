package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/momo-ledger/internal/cli"
	"github.com/Veraticus/momo-ledger/internal/extract"
	"github.com/Veraticus/momo-ledger/internal/model"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <message body>",
		Short: "Show how one SMS body would be categorized and extracted",
		Long: `Run a single message body through the categorizer and the record
builder without touching the database. Useful when writing new rules for
messages that ended up in the unprocessed log.`,
		Example: `  momo parse "You have received 5,000 RWF from Jane Doe. TxId: 7312. New balance: 12,000 RWF."`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runParse,
	}

	cmd.Flags().Bool("json", false, "print the record as JSON")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	body := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	categorizer, err := newCategorizer()
	if err != nil {
		return err
	}

	category := categorizer.Categorize(body)
	if category == model.CategoryUnrecognized {
		if asJSON {
			return json.NewEncoder(out).Encode(map[string]any{"category": category, "record": nil})
		}
		_, _ = fmt.Fprintln(out, cli.RenderRecord(category, nil))
		return nil
	}

	rec, buildErr := extract.DefaultBuilder().Build(body, category)
	if buildErr != nil && !errors.Is(buildErr, extract.ErrCast) {
		return buildErr
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"category": category, "record": rec})
	}

	_, _ = fmt.Fprintln(out, cli.RenderRecord(category, &rec))
	if buildErr != nil {
		_, _ = fmt.Fprintln(out, cli.FormatWarning(buildErr.Error()))
	}
	return nil
}
