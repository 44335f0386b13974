package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/bnema/otctl/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newJournalCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect requests recorded for runs",
	}

	cmd.AddCommand(newJournalListCmd(app))

	return cmd
}

func newJournalListCmd(app *app) *cobra.Command {
	var runID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled requests of a run (default: the persisted run)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.service.Journal(cmd.Context(), domain.RunID(runID))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No requests recorded.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				result := "ok"
				if !entry.OK {
					result = "failed"
				}
				if entry.RemoteStatus != "" {
					result += " (" + entry.RemoteStatus + ")"
				}
				rows = append(rows, []string{
					entry.RecordedAt.UTC().Format(time.RFC3339),
					entry.Operation,
					dashIfEmpty(entry.CommandType),
					strconv.Itoa(entry.StatusCode),
					result,
				})
			}

			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("TIME", "OPERATION", "COMMAND", "STATUS", "RESULT").
				Rows(rows...)

			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
