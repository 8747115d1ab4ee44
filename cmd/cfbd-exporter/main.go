package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/config"
	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/exporter"
	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/httpapi"
)

type options struct {
	logFile    string
	port       int
	poll       float64
	configPath string
}

// newFlagSet registers the exporter flags. The log path default honors the
// CFBD_EVENTS_LOG environment variable.
func newFlagSet() (*flag.FlagSet, *options) {
	opts := &options{logFile: "logs/cfbd_events.jsonl", port: 9107, poll: 1.0}
	if v := os.Getenv("CFBD_EVENTS_LOG"); v != "" {
		opts.logFile = v
	}
	fs := flag.NewFlagSet("cfbd-exporter", flag.ExitOnError)
	fs.StringVar(&opts.logFile, "log-file", opts.logFile, "Path to the JSONL telemetry log to tail")
	fs.IntVar(&opts.port, "port", opts.port, "HTTP port for the Prometheus scrape endpoint")
	fs.Float64Var(&opts.poll, "poll", opts.poll, "Poll interval in seconds when at end of file")
	fs.StringVar(&opts.configPath, "config", "", "Optional config file (yaml/json/toml); flags take precedence")
	return fs, opts
}

// applyConfig fills options from the config file only where the corresponding
// flag was left at its default.
func applyConfig(fs *flag.FlagSet, opts *options, cfg config.Config) {
	changed := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { changed[f.Name] = true })
	if !changed["log-file"] && cfg.TelemetryLog != "" {
		opts.logFile = cfg.TelemetryLog
	}
	if !changed["port"] && cfg.MetricsPort > 0 {
		opts.port = cfg.MetricsPort
	}
	if !changed["poll"] && cfg.PollSeconds > 0 {
		opts.poll = cfg.PollSeconds
	}
}

func main() {
	fs, opts := newFlagSet()
	_ = fs.Parse(os.Args[1:])

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("load config")
		}
		applyConfig(fs, opts, cfg)
	}

	reg := prometheus.NewRegistry()
	metrics := exporter.NewMetrics(reg)
	tailer := exporter.NewTailer(opts.logFile, time.Duration(opts.poll*float64(time.Second)), metrics)
	tailer.SetLogger(logger)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", opts.port), Handler: httpapi.NewMetricsMux(reg)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 2)
	go func() {
		logger.Info().Int("port", opts.port).Str("log_file", opts.logFile).Msg("cfbd-exporter listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	go func() {
		if err := tailer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Run until externally killed; a startup failure exits non-zero.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("exporter failed")
	case <-stop:
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
}
