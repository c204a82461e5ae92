package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alantheprice/siteforge/pkg/config"
	"github.com/alantheprice/siteforge/pkg/webui"
	"github.com/spf13/cobra"
)

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generated runs for preview",
	Long: `Starts the preview server. Run artifacts are served at
/api/preview/<run_id>/<filename> and run IDs are listed at /api/runs.
Live progress events stream over /ws when the server runs in the same
process as a generation run; use "siteforge pipeline --serve" for that.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = cfg.PreviewPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Standalone serve has no generator in-process, so there is no event
	// feed to attach.
	server := webui.NewPreviewServer(cfg.GeneratedRoot, port, nil)
	return server.Start(ctx)
}
