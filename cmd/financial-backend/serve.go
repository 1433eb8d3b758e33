package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/QingyuanL1/financial-backend-sub000/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			if address != "" {
				a.conf.Server.Address = address
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			handler := server.NewHandler(a.logger, s, server.Options{
				MaxBodySize: a.conf.Server.MaxBodySizeBytes(),
				Version:     version,
			})

			if err := server.ListenAndServe(ctx, a.logger, a.conf.Server, handler); err != nil {
				a.logger.Error("server stopped with error",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address override, e.g. :3000")
	return cmd
}

// commandContext returns cmd's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
