package main

import (
	"os"
	"os/signal"
	"syscall"

	"gofriedman/adapters/api"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Friedman analysis over HTTP",
		Long: `Start the HTTP API.

  POST /api/friedman          JSON report
  POST /api/friedman/render   rendered report (?format=markdown|html|text|json)
  GET  /healthz

Example: friedman serve --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Server.Port
			}
			gin.SetMode(a.cfg.Server.GinMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(a.cfg.Analysis, a.logger)
			return server.Run(ctx, ":"+port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "8080", "Port to listen on")

	return cmd
}
