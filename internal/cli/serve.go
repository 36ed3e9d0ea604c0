package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardgrid/internal/server"
	"github.com/matzehuels/cardgrid/pkg/observability"
	"github.com/matzehuels/cardgrid/pkg/pipeline"
)

// Serve flag names. They double as config keys.
const (
	flagAddr     = "addr"
	flagRate     = "rate"
	flagBurst    = "burst"
	flagMaxBody  = "max-body"
	flagShutdown = "shutdown-timeout"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout HTTP API",
		Long: `Serve the layout HTTP API.

Endpoints:
  POST /v1/layout        lay out a deck for one container width
  POST /v1/breakpoints   lay out a deck at every column count
  GET  /healthz          liveness check
  GET  /version          build information

The layout flags set the defaults for requests that omit them. Point --cache
at a redis:// or mongodb:// URL to share cached layouts between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd)
			if err != nil {
				return err
			}
			check := opts.Clone()
			if err := check.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.String(flagAddr, server.DefaultAddr, "listen address")
	f.Float64(flagRate, server.DefaultRateLimit, "requests per second per client (0: unlimited)")
	f.Int(flagBurst, server.DefaultBurst, "request burst per client")
	f.Int64(flagMaxBody, server.DefaultMaxBodyBytes, "maximum request body in bytes")
	f.Duration(flagShutdown, server.DefaultShutdownTimeout, "graceful shutdown timeout")
	addLayoutFlags(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, defaults pipeline.Options) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	observability.NewLogHooks(c.Logger).Register()

	v := c.Config
	cfg := server.Config{
		Addr:            v.GetString(flagAddr),
		RateLimit:       v.GetFloat64(flagRate),
		Burst:           v.GetInt(flagBurst),
		MaxBodyBytes:    v.GetInt64(flagMaxBody),
		ShutdownTimeout: v.GetDuration(flagShutdown),
		Defaults:        defaults.Clone(),
	}

	start := time.Now()
	err = server.New(runner, c.Logger, cfg).Run(ctx)
	c.Logger.Info("server stopped", "uptime", time.Since(start).Round(time.Second))
	return err
}
