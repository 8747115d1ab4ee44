package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/config"
	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/feed"
	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/httpapi"
	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/telemetry"
	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/transport/graphqlws"
)

const defaultEndpoint = "wss://graphql.collegefootballdata.com/v1/graphql"

type options struct {
	addr         string
	endpoint     string
	apiKey       string
	maxEvents    int
	telemetryLog string
	configPath   string
	logLevel     string
	corsOrigins  []string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "cfbdfeed",
		Short: "Live CFBD scoreboard feed daemon",
		Long: "cfbdfeed subscribes to the CFBD GraphQL scoreboard stream, buffers the most\n" +
			"recent events in memory, and serves them over HTTP. Subscription errors are\n" +
			"appended to a JSONL telemetry log consumed by cfbd-exporter.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8090", "HTTP listen address for the events API")
	f.StringVar(&opts.endpoint, "endpoint", defaultEndpoint, "CFBD GraphQL WebSocket endpoint")
	f.StringVar(&opts.apiKey, "api-key", os.Getenv("CFBD_API_KEY"), "CFBD API key (defaults to CFBD_API_KEY)")
	f.IntVar(&opts.maxEvents, "max-events", 100, "Bounded event window size")
	f.StringVar(&opts.telemetryLog, "telemetry-log", "logs/cfbd_events.jsonl", "JSONL telemetry log path")
	f.StringVar(&opts.configPath, "config", "", "Optional config file (yaml/json/toml); flags take precedence")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringSliceVar(&opts.corsOrigins, "cors-origin", nil, "Allowed CORS origins for the events API (empty disables CORS)")
	return cmd
}

// applyConfig fills options from the config file only where the corresponding
// flag was left at its default.
func applyConfig(cmd *cobra.Command, opts *options, cfg config.Config) {
	f := cmd.Flags()
	if !f.Changed("addr") && cfg.Addr != "" {
		opts.addr = cfg.Addr
	}
	if !f.Changed("endpoint") && cfg.Endpoint != "" {
		opts.endpoint = cfg.Endpoint
	}
	if !f.Changed("api-key") && cfg.APIKey != "" {
		opts.apiKey = cfg.APIKey
	}
	if !f.Changed("max-events") && cfg.MaxEvents > 0 {
		opts.maxEvents = cfg.MaxEvents
	}
	if !f.Changed("telemetry-log") && cfg.TelemetryLog != "" {
		opts.telemetryLog = cfg.TelemetryLog
	}
}

func run(cmd *cobra.Command, opts *options) error {
	lvl, err := zerolog.ParseLevel(opts.logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyConfig(cmd, opts, cfg)
	}

	sink, err := telemetry.NewFileSink(opts.telemetryLog)
	if err != nil {
		return fmt.Errorf("open telemetry log: %w", err)
	}
	defer sink.Close()
	sink.SetLogger(logger)

	transport, err := graphqlws.New(graphqlws.Config{
		URL:    opts.endpoint,
		APIKey: opts.apiKey,
		Logger: &logger,
	})
	if err != nil {
		return err
	}

	mgr, err := feed.NewWithConfig(feed.ManagerConfig{
		Transport: transport,
		Hook:      sink.Hook(),
		MaxEvents: opts.maxEvents,
		Logger:    &logger,
	})
	if err != nil {
		return err
	}
	mgr.StartFeed()
	defer mgr.Stop()

	if len(opts.corsOrigins) > 0 {
		httpapi.SetCORSOptions(true, opts.corsOrigins, []string{"GET"}, []string{"Accept", "Content-Type"})
	}
	httpapi.SetLogger(logger)
	reg := prometheus.NewRegistry()
	srv := &http.Server{Addr: opts.addr, Handler: httpapi.NewMux(mgr, reg)}

	go func() {
		logger.Info().Str("addr", opts.addr).Str("endpoint", opts.endpoint).Msg("cfbdfeed listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
