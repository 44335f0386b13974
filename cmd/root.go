package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

const annotationNoWire = "otctl/no-wire"

func Execute() error {
	return ExecuteContext(context.Background(), os.Args[1:])
}

// ExecuteContext runs the CLI with ctx as every command's context.
func ExecuteContext(ctx context.Context, args []string) error {
	root, app := newRootCmd()
	defer func() {
		if err := app.close(); err != nil {
			pslog.Ctx(ctx).Warn("close journal", "err", err)
		}
	}()

	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *app) {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "otctl",
		Short:         "Opentrons run client: drive a robot's HTTP API from the terminal",
		Long:          "otctl creates runs on an Opentrons robot, loads labware and pipettes, executes liquid-handling protocols described in TOML, and controls the run (pause, play, stop, lights, home).",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationNoWire] != "" {
				return nil
			}
			return app.wire()
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "Config file (default: ~/.otctl/config.toml)")
	rootCmd.PersistentFlags().StringVar(&app.robotHost, "robot", "", "Robot address, overrides robot.host")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newSessionCmd(app),
		newTransferCmd(app),
		newJournalCmd(app),
		newSimulateCmd(),
		newHomeCmd(app),
		newLightsCmd(app),
	)
	rootCmd.AddCommand(newControlCmds(app)...)

	return rootCmd, app
}
