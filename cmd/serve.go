package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"thoreinstein.com/skinscout/pkg/web"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local web front end",
	Long: `Run a local web front end that serves results URLs and the recent-search
history as JSON.

Endpoints:
  GET    /results?skin=...        run the search in a results URL
  GET    /api/url?skin=...        encode a search as a results URL
  GET    /api/recent              list recent searches
  DELETE /api/recent              clear recent searches
  GET    /api/favorites           list favorite skins
  POST   /api/favorites/:name     toggle a favorite
  GET    /healthz                 front end and API health

Requests are rate limited per client IP (server.rate_limit, server.rate_burst).

Examples:
  skinscout serve
  skinscout serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			addr := serveAddr
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srv := web.NewServer(client, a.recent, a.favorites, web.Options{
				RateLimit:   a.cfg.Server.RateLimit,
				RateBurst:   a.cfg.Server.RateBurst,
				CORSOrigins: a.cfg.Server.CORSOrigins,
			}, a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)
			return srv.Run(ctx, addr)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr)")
}
