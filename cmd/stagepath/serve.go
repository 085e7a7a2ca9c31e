package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stagepath"
	"github.com/aretw0/stagepath/internal/cli"
	"github.com/aretw0/stagepath/internal/presentation/tui"
	httpAdapter "github.com/aretw0/stagepath/pkg/adapters/http"
	"github.com/aretw0/stagepath/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the definitions store over HTTP: list, read, write and delete definitions,
compile them to a graph and check moves. Prometheus metrics are exposed on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := observability.NewMetrics(reg)

		s, err := openSession(cmd, metrics.Hooks())
		if err != nil {
			return err
		}
		defer s.close()

		handler := httpAdapter.NewHandler(s.engine.PathEngine(), s.engine.Loader(),
			httpAdapter.WithLogger(s.logger),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
			httpAdapter.WithVersion(strings.TrimSpace(stagepath.Version)),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		out := cmd.OutOrStdout()
		if !isPlain(cmd) {
			tui.PrintBanner(out, strings.TrimSpace(stagepath.Version))
		}

		serverErrors := make(chan error, 1)
		go func() {
			cli.PrintSystemMessage(out, "Starting stagepath server on %s", srv.Addr)
			cli.PrintSystemMessage(out, "Serving definitions from: %s (%s)", s.cfg.Dir, s.cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			cli.PrintSystemMessage(out, "Start shutdown... Signal: %v", sigCtx.Signal())

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			cli.PrintSystemMessage(out, "Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
