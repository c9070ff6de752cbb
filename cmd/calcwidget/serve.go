package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/njchilds90/calcwidget/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the solve endpoint over HTTP",
	Long: `Serve starts the HTTP backend for the browser widget:

  POST /solve     {"input": "∫ x^2 dx"}
  GET  /examples  supported forms and sample requests
  GET  /health    liveness check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	sc := cfg.Server
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		sc.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.StandardLogger()
	return server.New(newSolver(cmd), logger).Run(ctx, sc)
}
