package main

import (
	"github.com/spf13/cobra"

	"finorbit/internal/cli"
	"finorbit/internal/log"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			store, err := cli.LoadPayloads(ctx, a.cfg, a.logger)
			if err != nil {
				a.logger.Error("Failed to load page documents", log.FieldError, err, "dir", a.cfg.PayloadDir)
				return err
			}
			srv, err := cli.NewServer(a.cfg, store, a.logger)
			if err != nil {
				a.logger.Error("Failed to create server", log.FieldError, err)
				return err
			}
			return cli.Serve(ctx, srv, a.cfg.ShutdownTimeout, a.logger)
		},
	}
}
