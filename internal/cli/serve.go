package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotkit/pkg/api"
	"github.com/matzehuels/plotkit/pkg/config"
	"github.com/matzehuels/plotkit/pkg/observability"
	promhooks "github.com/matzehuels/plotkit/pkg/observability/prometheus"
	"github.com/matzehuels/plotkit/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API over the configured store and cache.

Prometheus metrics for layouts, analyses, cache lookups and requests are
exposed at /metrics unless --no-metrics is given. The server drains
in-flight requests on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withRunner(ctx, false, func(r *pipeline.Runner, cfg config.Config) error {
				if addr == "" {
					addr = cfg.Server.Addr
				}
				opts := []api.Option{api.WithLogger(c.Logger)}
				if !noMetrics {
					opts = append(opts, api.WithMetrics(newMetrics().Handler()))
					defer observability.Reset()
				}
				ln, err := net.Listen("tcp", addr)
				if err != nil {
					return err
				}
				return c.serve(ctx, api.New(r, opts...).HTTPServer(addr), ln)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable Prometheus metrics")

	return cmd
}

// newMetrics creates the Prometheus collectors, including the Go runtime
// and process collectors, and installs them as the global hooks.
func newMetrics() *promhooks.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := promhooks.New(reg)
	m.Register()
	return m
}

// serve runs srv on ln until ctx is cancelled, then shuts it down
// gracefully.
func (c *CLI) serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	printSuccess("Listening on %s", StyleLink.Render("http://"+ln.Addr().String()))
	c.Logger.Info("api started", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
