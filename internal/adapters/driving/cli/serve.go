package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-assistant/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the index and serve the HTTP API",
	Long: `Loads or rebuilds the vector index, then serves:

  GET  /          greeting
  GET  /ask       ?question=...
  POST /ask       {"question": "..."}
  GET  /metrics   Prometheus metrics

The server shuts down gracefully on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr, :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, _, err := startup(cmd, true, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	answers, err := rt.Answerer()
	if err != nil {
		return err
	}

	settings := rt.Settings()
	addr := settings.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server, err := httpapi.NewServer(httpapi.Config{
		Addr:           addr,
		AllowedOrigins: settings.Server.AllowedOrigins,
	}, answers, rt.Metrics())
	if err != nil {
		return err
	}

	return server.Run(cmd.Context())
}
