package cmd

import (
	"fmt"
	"net"

	"github.com/bnema/otctl/internal/adapters/simulator"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

func newSimulateCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:         "simulate",
		Short:       "Serve an in-memory robot API for dry runs",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoWire: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			listener, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", listen, err)
			}

			pslog.Ctx(cmd.Context()).Info("simulator listening", "addr", listener.Addr().String())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Simulated robot at http://%s\n", listener.Addr())

			return simulator.New().Serve(cmd.Context(), listener)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:31950", "Address to serve on")

	return cmd
}
