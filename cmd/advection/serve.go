package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/banshee-data/advection/internal/api"
	"github.com/banshee-data/advection/internal/monitoring"
	"github.com/banshee-data/advection/internal/output"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		flags      runFlags
		listen     string
		assetsHost string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive charts, stored runs and metrics over HTTP",
		Long: `Starts an HTTP server exposing /charts/advection, /charts/interpolation,
/api/results, /api/curves/{name}, /api/runs and /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.runConfig(cmd, &flags)
			if err != nil {
				return err
			}
			if assetsHost != "" {
				output.EchartsAssetsPrefix = assetsHost
			}

			database, store, err := openStore(cfg)
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
			}

			server := api.NewServer(cfg, store, newServeMetrics(), opts.fs)
			srv := &http.Server{
				Addr:              listen,
				Handler:           server.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serveUntilDone(cmd.Context(), srv)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&listen, "listen", "l", ":8080", "Address to listen on")
	cmd.Flags().StringVar(&assetsHost, "assets-host", "", "Host serving the echarts JavaScript (default CDN)")
	return cmd
}

// newServeMetrics adds the Go runtime and process collectors to the
// advection metrics of a long-running server.
func newServeMetrics() *monitoring.Metrics {
	m := monitoring.NewMetrics()
	m.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// serveUntilDone runs srv until ctx is cancelled, then shuts it down.
func serveUntilDone(ctx context.Context, srv *http.Server) error {
	serverErrors := make(chan error, 1)
	go func() {
		monitoring.Logf("listening on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		monitoring.Logf("shutting down: %v", context.Cause(ctx))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			monitoring.Logf("graceful shutdown did not complete in %v: %v", shutdownTimeout, err)
			return srv.Close()
		}
		return nil
	}
}
