package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the issue views over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				app.Config.Port = port
			}
			addr := fmt.Sprintf(":%d", app.Config.Port)

			app.Logger.Printf("Starting issue views on http://localhost%s", addr)
			if app.Helpers.ExternalIssuesTrackerEnabled() {
				app.Logger.Printf("External issue trackers configured: %d", len(app.Config.IssuesTracker))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           app.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			if err := server.ListenAndServe(); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides PORT)")
	return cmd
}
