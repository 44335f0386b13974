package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	sessionrender "github.com/bnema/otctl/internal/adapters/render/session"
	"github.com/bnema/otctl/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or forget the persisted run",
	}

	cmd.AddCommand(
		newSessionShowCmd(app),
		newSessionClearCmd(app),
	)

	return cmd
}

func newSessionShowCmd(app *app) *cobra.Command {
	var asJSON bool
	var withJournal bool
	var journalLimit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the run, labware and pipettes of the last session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := app.service.Session(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No session. Start one with `otctl run <protocol.toml>`.")
					return nil
				}
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(state)
			}

			opts := sessionrender.RenderOptions{
				Now:          app.now(),
				ShowJournal:  withJournal,
				JournalLimit: journalLimit,
			}
			if withJournal {
				opts.Journal, err = app.service.Journal(cmd.Context(), state.RunID)
				if err != nil {
					return err
				}
			}

			rendered, err := app.renderSession(state, opts)
			if err != nil {
				return fmt.Errorf("render session: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&withJournal, "journal", false, "Include the latest journaled requests")
	cmd.Flags().IntVar(&journalLimit, "limit", 10, "Journal entries to show with --journal")

	return cmd
}

func newSessionClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the persisted run (the run stays on the robot)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.service.ClearSession(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
			return nil
		},
	}
}
