package cmd

import (
	"fmt"

	"github.com/bnema/otctl/internal/application"
	"github.com/bnema/otctl/internal/domain"
	"github.com/spf13/cobra"
)

func newControlCmds(app *app) []*cobra.Command {
	actions := []struct {
		action domain.RunAction
		short  string
		done   string
	}{
		{action: domain.RunActionPause, short: "Pause the persisted run", done: "Paused"},
		{action: domain.RunActionPlay, short: "Start or resume the persisted run", done: "Playing"},
		{action: domain.RunActionStop, short: "Stop the persisted run", done: "Stopped"},
	}

	cmds := make([]*cobra.Command, 0, len(actions))
	for _, a := range actions {
		cmds = append(cmds, &cobra.Command{
			Use:   string(a.action),
			Short: a.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := app.service.Control(cmd.Context(), application.ControlCommand{Action: string(a.action)}); err != nil {
					return err
				}

				state, err := app.service.Session(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s run %s\n", a.done, state.RunID)
				return nil
			},
		})
	}

	return cmds
}

func newHomeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Home the robot's gantry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireHost(""); err != nil {
				return err
			}
			if err := app.service.Home(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Robot homed")
			return nil
		},
	}
}

func newLightsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:       "lights <on|off>",
		Short:     "Switch the robot's rail lights",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := lightsArg(args[0])
			if err != nil {
				return err
			}
			if err := app.requireHost(""); err != nil {
				return err
			}
			if err := app.service.Lights(cmd.Context(), application.LightsCommand{State: state}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Lights %s\n", args[0])
			return nil
		},
	}
}

// lightsArg maps on/off onto the lights states; true/false pass through.
func lightsArg(raw string) (domain.LightsState, error) {
	switch raw {
	case "on":
		return domain.LightsOn, nil
	case "off":
		return domain.LightsOff, nil
	default:
		return domain.ParseLightsState(raw)
	}
}
