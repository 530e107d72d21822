package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/config"
	"github.com/rustyeddy/odyssey/internal/api"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr   string
		memory bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal over HTTP",
		Long: `Serve the journal's JSON API, health check and Prometheus metrics.

Examples:
  odyssey serve --addr :8080
  odyssey serve --memory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if memory {
				a.cfg.Store.Type = config.StoreMemory
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			srv := api.New(s.book, s.store, a.log)
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&memory, "memory", false, "keep the journal in memory only")
	return cmd
}
