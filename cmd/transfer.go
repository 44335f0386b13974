package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/otctl/internal/application"
	"github.com/bnema/otctl/internal/domain"
	"github.com/spf13/cobra"
)

func newTransferCmd(app *app) *cobra.Command {
	var (
		pipette string
		from    string
		to      string
		volume  float64
		speed   float64
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move liquid between two wells of the persisted run",
		Long:  "transfer aspirates from --from and dispenses into --to, splitting the volume into loads no larger than transfer.max_volume_ul. Wells are given as <labware alias>:<well>, e.g. nest_12_reservoir_15ml_4:A1.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := parseWellRef(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			destination, err := parseWellRef(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			if err := app.service.Transfer(cmd.Context(), application.TransferCommand{
				Pipette: pipette,
				From:    source,
				To:      destination,
				Volume:  volume,
				Speed:   speed,
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Transferred %g µL from %s to %s\n", volume, from, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&pipette, "pipette", "", "Pipette name")
	cmd.Flags().StringVar(&from, "from", "", "Source well, <labware>:<well>")
	cmd.Flags().StringVar(&to, "to", "", "Destination well, <labware>:<well>")
	cmd.Flags().Float64Var(&volume, "volume", 0, "Volume in µL")
	cmd.Flags().Float64Var(&speed, "speed", domain.DefaultTransferSpeed, "Move speed between wells in mm/s")
	_ = cmd.MarkFlagRequired("pipette")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("volume")

	return cmd
}

func parseWellRef(raw string) (domain.TransferEndpoint, error) {
	labware, well, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || labware == "" || well == "" {
		return domain.TransferEndpoint{}, fmt.Errorf("expected <labware>:<well>, got %q", raw)
	}

	return domain.TransferEndpoint{Labware: labware, Well: strings.ToUpper(well)}, nil
}
