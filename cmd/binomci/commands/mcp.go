package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binomci/internal/observability"
	"github.com/Sumatoshi-tech/binomci/pkg/mcp"
)

const readHeaderTimeout = 5 * time.Second

// newMCPCommand creates the MCP server command.
func newMCPCommand(root *rootOptions) *cobra.Command {
	var (
		debug       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the interval estimators as tools that AI agents
can discover and invoke:
  - binomial_interval: Confidence interval for a binomial proportion
  - z_score: z-score for a two-sided confidence level
  - interval_methods: The available interval methods

With --metrics-addr (or telemetry.metrics_addr) a side HTTP listener serves
/metrics, /healthz and /readyz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = cfg.Telemetry.MetricsAddr
			}

			rt, err := newRuntimeFrom(cmd, cfg, runtimeOptions{
				mode:       observability.ModeMCP,
				prometheus: metricsAddr != "",
				debug:      debug,
			})
			if err != nil {
				return err
			}
			defer rt.close()

			if metricsAddr != "" {
				stop, serveErr := serveDiagnostics(metricsAddr, rt.providers.MetricsHandler, rt.providers.Logger)
				if serveErr != nil {
					return serveErr
				}
				defer stop()

				rt.providers.Logger.Info("diagnostics listening", "addr", metricsAddr)
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:    rt.providers.Logger,
				Metrics:   rt.red,
				Tracer:    rt.providers.Tracer,
				Estimator: rt.estimator,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics, /healthz and /readyz on this address")

	return cmd
}

// serveDiagnostics binds addr synchronously so bind errors surface before the
// MCP session starts, then serves in the background.
func serveDiagnostics(addr string, metrics http.Handler, logger *slog.Logger) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           observability.NewDiagnosticsMux(metrics),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		serveErr := server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("diagnostics server failed", "error", serveErr)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), readHeaderTimeout)
		defer cancel()

		_ = server.Shutdown(ctx)
	}, nil
}
