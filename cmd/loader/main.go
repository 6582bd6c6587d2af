package main

import (
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/sftrees/internal/config"
	"github.com/woozymasta/sftrees/internal/logger"
	"github.com/woozymasta/sftrees/internal/processor"
	"github.com/woozymasta/sftrees/internal/trees"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	DataURL    string `short:"u" long:"data-url"   env:"DATA_URL"    description:"Tree CSV URL, overrides config"`
	MapSource  string `short:"m" long:"map-source" env:"MAP_SOURCE"  description:"Raster map URL or file, overrides config"`
	DataOnly   bool   `short:"D" long:"data-only"  description:"Download the dataset only"`
	MapOnly    bool   `short:"M" long:"map-only"   description:"Prepare the map image only"`
	Force      bool   `short:"f" long:"force"      description:"Force overwrite of existing files"`
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

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.DataURL != "" {
		cfg.DataURL = opts.DataURL
	}
	if opts.MapSource != "" {
		cfg.MapSource = opts.MapSource
	}

	processData := true
	processMap := true
	if opts.DataOnly && !opts.MapOnly {
		processMap = false
	} else if opts.MapOnly && !opts.DataOnly {
		processData = false
	}

	client := &http.Client{Timeout: 5 * time.Minute}

	log.Info().
		Bool("data", processData).
		Bool("map", processMap).
		Bool("force", opts.Force).
		Msg("Starting loader")

	failed := false

	if processData {
		if cfg.DataURL == "" {
			log.Warn().Msg("No data_url configured, dataset skipped")
		} else {
			p := trees.Parser{UnknownSpecies: cfg.Filter.UnknownSpecies}
			if err := processor.FetchDataset(client, cfg.DataURL, cfg.DataFile, p, opts.Force); err != nil {
				log.Error().Err(err).Str("url", cfg.DataURL).Msg("Failed to fetch dataset")
				failed = true
			}
		}
	}

	if processMap {
		if cfg.MapSource == "" {
			log.Warn().Msg("No map_source configured, map image skipped")
		} else {
			err := processor.PrepareMapImage(
				client,
				cfg.MapSource,
				cfg.MapImage,
				cfg.Projection.Width,
				cfg.Projection.Height,
				opts.Force)
			if err != nil {
				log.Error().Err(err).Str("source", cfg.MapSource).Msg("Failed to prepare map image")
				failed = true
			}
		}
	}

	if failed {
		os.Exit(1)
	}

	log.Info().Msg("Loader finished successfully")
}
