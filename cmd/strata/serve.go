// Serve command runs the HTTP API.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/strata/internal/httpapi"
	"github.com/mesh-intelligence/strata/internal/logger"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve starts the HTTP API on the configured address.

The listen address comes from --addr, falling back to server.addr in
config.yaml (default ":8080").`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()

	eng, backend, err := buildEngine(log)
	if err != nil {
		return err
	}
	defer backend.Detach()

	cfg := httpapi.Config{
		Addr:        cliConfig.ServerAddr,
		PublicURL:   cliConfig.PublicURL,
		OpenAPIFile: cliConfig.OpenAPIFile,
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}

	server := httpapi.New(eng, backend, cfg, logger.Component(log, "httpapi"))
	return server.Run()
}
