package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/assafc-claroty/hack-2025/internal/server"
)

var (
	host string
	port int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve translations over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.logger.Sync() //nolint:errcheck

		if cmd.Flags().Changed("host") {
			a.cfg.Server.Host = host
		}
		if cmd.Flags().Changed("port") {
			a.cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(a.translator, server.NewMetrics(), a.logger)
		return srv.ListenAndServe(ctx, a.cfg.Addr())
	},
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "127.0.0.1", "Address to listen on")
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
}
