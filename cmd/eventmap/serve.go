package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/compmap/eventmap/internal/config"
	"github.com/compmap/eventmap/internal/dispatcher"
	"github.com/compmap/eventmap/internal/logging"
	"github.com/compmap/eventmap/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive map over HTTP",
	Long: `Serves the map as SVG with a JSON API for UI events and a WebSocket
stream of marker changes. A failed data load keeps the server up in an
error state: /map.svg shows the error and the API answers 503.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		hub := server.NewHub(env.logger)

		a, err := buildApp(ctx, hub.Broadcast)
		if err != nil {
			env.logger.Error("Serving map in error state", "error", err)
		}

		d, err := dispatcher.New(logging.NewCommandLogger(env.zlog))
		if err != nil {
			return err
		}
		a.Register(d)

		cfg := config.GetServerConfig()
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		return server.New(cfg, a, d, hub, env.logger).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
