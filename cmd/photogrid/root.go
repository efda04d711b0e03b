package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vbonduro/photogrid/internal/config"
)

func newRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "photogrid",
		Short:         "Photogrid captures photos and keeps them in a grid gallery",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newServeCmd(cfg, logger),
		newCaptureCmd(cfg, logger),
		newPickCmd(cfg, logger),
		newListCmd(cfg, logger),
	)

	return cmd
}
