package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/smartcarbon/internal/server"
)

// newServeCmd creates the serve command that runs the HTTP API.
func newServeCmd(state *rootState) *cobra.Command {
	var (
		host      string
		port      int
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimator over HTTP",
		Long: `Starts the HTTP API under /api/v1 with /health and Prometheus /metrics.

Predictions made through the API are saved to the session file when
persistence is enabled, so the CLI and the API share state.`,
		Example: `  # Listen on the configured address
  smartcarbon serve

  # Listen on all interfaces, port 9090
  smartcarbon serve --host 0.0.0.0 --port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := state.config()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, err := openSession(ctx, cfg)
			if err != nil {
				return err
			}

			srvCfg := server.DefaultConfig()
			srvCfg.Host = cfg.Server.Host
			srvCfg.Port = cfg.Server.Port
			srvCfg.EnableMetrics = cfg.Server.EnableMetrics
			if cmd.Flags().Changed("host") {
				srvCfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				srvCfg.Port = port
			}
			if noMetrics {
				srvCfg.EnableMetrics = false
			}

			srv, err := server.New(ctx, srvCfg, sess.estimator, sess.store)
			if err != nil {
				return err
			}
			srv.SetPersister(sess.save)

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", srvCfg.Addr())
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}
