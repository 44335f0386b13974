package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	protocolfile "github.com/bnema/otctl/internal/adapters/protocol"
	"github.com/bnema/otctl/internal/application"
	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	var plain bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run <protocol.toml>",
		Short: "Create a run and execute a protocol file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			protocol, err := protocolfile.Load(args[0])
			if err != nil {
				return err
			}
			if err := app.requireHost(protocol.RobotHost); err != nil {
				return err
			}

			service := app.newService(app.host(protocol.RobotHost))

			var report application.RunReport
			work := func(ctx context.Context, progress func(application.Progress)) error {
				var runErr error
				report, runErr = service.RunProtocol(ctx, application.RunProtocolCommand{
					Protocol: protocol,
					Progress: progress,
				})
				return runErr
			}

			if plain || asJSON {
				runErr := work(cmd.Context(), func(progress application.Progress) {
					if label := progressLabel(progress); label != "" {
						_, _ = fmt.Fprintln(cmd.ErrOrStderr(), label)
					}
				})
				return writeRunReport(cmd, app, report, asJSON, runErr)
			}

			runErr := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Running %s...", protocol.Name), work)
			return writeRunReport(cmd, app, report, false, runErr)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print progress lines instead of a spinner")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render the run report as JSON")

	return cmd
}

// writeRunReport prints whatever part of the run completed, then returns
// runErr.
func writeRunReport(cmd *cobra.Command, app *app, report application.RunReport, asJSON bool, runErr error) error {
	if report.RunID == "" {
		return runErr
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		return runErr
	}

	rendered, err := app.renderReport(report)
	if err != nil {
		return fmt.Errorf("render run report: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), rendered); err != nil {
		return err
	}

	return runErr
}
