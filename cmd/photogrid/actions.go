package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vbonduro/photogrid/internal/config"
)

func newCaptureCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "capture",
		Short: "Take a photo with the camera and add it to the gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			return report(cmd.OutOrStdout(), a.gallery.Capture(ctx, a.camera))
		},
	}
}

func newPickCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "pick [path]",
		Short: "Add an image from the media library to the gallery",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return report(cmd.OutOrStdout(), a.gallery.Pick(ctx, a.library.SelectFile(path)))
		},
	}
}
