package main

import (
	"context"

	"github.com/imgshare/gallery-client/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gallery viewer over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.open(ctx)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}

			server, err := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
				Config:   &a.cfg,
				Services: *svc,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			if err := writef(cmd.OutOrStdout(), "Serving the gallery on http://%s\n", server.Addr); err != nil {
				a.logger.Warn("write serve banner failed", "error", err)
			}

			<-ctx.Done()
			return bootstrap.ShutdownHTTPServer(context.WithoutCancel(ctx), bootstrap.ShutdownConfig{
				Server: server,
				Logger: a.logger,
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}
