package cli

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/hookd/pkg/capture"
	"github.com/getmockd/hookd/pkg/cliconfig"
	"github.com/getmockd/hookd/pkg/logging"
	"github.com/getmockd/hookd/pkg/server"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// serveFlags holds the serve command's flag values.
type serveFlags struct {
	host               string
	port               int
	maxEntriesPerSpace int
	rateLimitPerMinute int
	rateLimitBurst     int
	maxBodyBytes       int64
	heartbeatInterval  int
	corsOrigins        []string
	logLevel           string
	logFormat          string
}

func (a *app) newServeCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the capture server (foreground)",
		Long: `Run the hookd server until interrupted. Captures are kept in memory only and
are lost when the server stops.`,
		Example: `  # Start with defaults
  hookd serve

  # Listen on all interfaces, port 9000, JSON logs
  hookd serve --host 0.0.0.0 --port 9000 --log-format json

  # Allow a browser UI on another origin
  hookd serve --cors-origin http://localhost:3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyServeFlags(cmd, a.cfg, &f)
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.runServe(ctx)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.host, "host", cliconfig.DefaultHost, "Host to listen on")
	flags.IntVarP(&f.port, "port", "p", cliconfig.DefaultPort, "Port to listen on (0 picks a free port)")
	flags.IntVar(&f.maxEntriesPerSpace, "max-entries", 0, "Captured requests kept per space")
	flags.IntVar(&f.rateLimitPerMinute, "rate-limit", 0, "Captures allowed per minute per space and client IP")
	flags.IntVar(&f.rateLimitBurst, "rate-burst", 0, "Capture burst size per space and client IP")
	flags.Int64Var(&f.maxBodyBytes, "max-body-bytes", 0, "Largest capture body accepted")
	flags.IntVar(&f.heartbeatInterval, "heartbeat", 0, "Observer keep-alive interval in seconds")
	flags.StringArrayVar(&f.corsOrigins, "cors-origin", nil, "Allowed CORS origin (repeatable, default any)")
	flags.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&f.logFormat, "log-format", "", "Log format (text, json)")
	return cmd
}

// applyServeFlags copies explicitly set flags over cfg.
func applyServeFlags(cmd *cobra.Command, cfg *cliconfig.CLIConfig, f *serveFlags) {
	flags := cmd.Flags()
	set := func(name, key string, apply func()) {
		if flags.Changed(name) {
			apply()
			cfg.Sources[key] = cliconfig.SourceFlag
		}
	}
	set("host", "host", func() { cfg.Host = f.host })
	set("port", "port", func() { cfg.Port = f.port })
	set("max-entries", "maxEntriesPerSpace", func() { cfg.MaxEntriesPerSpace = f.maxEntriesPerSpace })
	set("rate-limit", "rateLimitPerMinute", func() { cfg.RateLimitPerMinute = f.rateLimitPerMinute })
	set("rate-burst", "rateLimitBurst", func() { cfg.RateLimitBurst = f.rateLimitBurst })
	set("max-body-bytes", "maxBodyBytes", func() { cfg.MaxBodyBytes = f.maxBodyBytes })
	set("heartbeat", "heartbeatInterval", func() { cfg.HeartbeatInterval = f.heartbeatInterval })
	set("cors-origin", "corsOrigins", func() { cfg.CORSOrigins = f.corsOrigins })
	set("log-level", "logLevel", func() { cfg.LogLevel = f.logLevel })
	set("log-format", "logFormat", func() { cfg.LogFormat = f.logFormat })
}

// runServe serves until ctx is done.
func (a *app) runServe(ctx context.Context) error {
	cfg := a.cfg
	log := logging.FromStrings(cfg.LogLevel, cfg.LogFormat, a.errOut)

	svc := capture.New(capture.Config{
		MaxEntriesPerSpace: cfg.MaxEntriesPerSpace,
		RateCapacity:       cfg.RateLimitBurst,
		RatePerMinute:      cfg.RateLimitPerMinute,
		SubscriberBuffer:   cfg.SubscriberBuffer,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		Logger:             log,
	})
	srv := server.New(svc, server.Options{
		CORSOrigins:       cfg.CORSOrigins,
		HeartbeatInterval: cfg.HeartbeatDuration(),
		Logger:            log,
	})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}
	httpSrv := srv.HTTPServer(ln.Addr().String(), cfg.ReadTimeoutDuration(), cfg.WriteTimeoutDuration())

	log.Info("hookd listening",
		"addr", ln.Addr().String(),
		"version", Version,
		"maxEntriesPerSpace", cfg.MaxEntriesPerSpace,
		"rateLimitPerMinute", cfg.RateLimitPerMinute)

	if err := server.Serve(ctx, httpSrv, ln, shutdownTimeout); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("hookd stopped")
	return nil
}
