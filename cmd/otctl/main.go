package main

import (
	"context"
	"os"

	"github.com/bnema/otctl/cmd"
	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)

	if err := cmd.ExecuteContext(ctx, os.Args[1:]); err != nil {
		return 1
	}
	return 0
}
