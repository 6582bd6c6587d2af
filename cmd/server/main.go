package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/sftrees/internal/config"
	"github.com/woozymasta/sftrees/internal/controller"
	"github.com/woozymasta/sftrees/internal/logger"
	"github.com/woozymasta/sftrees/internal/observability"
	"github.com/woozymasta/sftrees/internal/server"
	"github.com/woozymasta/sftrees/internal/trees"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file (built-in defaults if empty)"`
	DataFile   string `short:"d" long:"data"   env:"DATA_FILE"      description:"Tree CSV file, overrides config"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on" default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"    default:"8080"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if opts.DataFile != "" {
		cfg.DataFile = opts.DataFile
	}

	// A missing or malformed dataset leaves the map empty but running
	records, err := trees.Parser{UnknownSpecies: cfg.Filter.UnknownSpecies}.Load(cfg.DataFile)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DataFile).Msg("Failed to load tree data, serving empty map")
		records = nil
	} else {
		log.Info().Str("path", cfg.DataFile).Int("records", len(records)).Msg("Tree data loaded")
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	ctrl := controller.New(records, controller.Settings{
		Projection:   cfg.NewProjection(),
		Sphere:       cfg.Sphere(),
		OutlineMiles: cfg.Filter.OutlineMiles,
		MaxRadius:    cfg.Filter.MaxRadius,
		Metrics:      metrics,
	})

	srvCtx := server.NewServerContext(cfg, ctrl, prometheus.DefaultGatherer)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().
		Str("addr", listenAddr).
		Int("records", len(records)).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Web server stopped")
}
