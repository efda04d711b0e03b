package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/photogrid/internal/config"
	"github.com/vbonduro/photogrid/internal/web"
	"github.com/vbonduro/photogrid/internal/web/templates"
)

func newServeCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the gallery grid over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			server := web.NewServer(a.gallery, a.camera, a.library, templates.FS, a.photos,
				logger.With("component", "web"))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Run(gctx, cfg.ListenAddr)
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info("shutdown requested")
				return nil
			})
			return g.Wait()
		},
	}
}
