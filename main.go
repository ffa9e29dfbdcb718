package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"avito-harvester/config"
	"avito-harvester/geocoding/opencage"
	"avito-harvester/pipeline"
	"avito-harvester/scraper/avito"
	"avito-harvester/services"
	"avito-harvester/storage"
	"avito-harvester/utils"
)

func main() {
	app := &cli.App{
		Name:   "avito-harvester",
		Usage:  "harvest Avito real-estate ads, geocode their locations and write a CSV",
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 1)
	}

	logger.Info("=== Avito harvester starting ===")
	logger.Info("Config: page size %d | geocode delay %v | output dir %s",
		cfg.PageSizeCeiling, cfg.GeocodeDelay, cfg.OutputDir)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var enricher pipeline.Enricher
	geocoder, err := opencage.NewClient(cfg.GeocoderURL, cfg.GeocoderAPIKey, cfg.GeocodeLanguage, cfg.RequestTimeout)
	switch {
	case errors.Is(err, config.ErrMissingCredential):
		logger.Warn("OpenCage API key not found. Skipping geocoding.")
	case err != nil:
		return cli.Exit(fmt.Sprintf("geocoder: %v", err), 1)
	default:
		enricher = services.NewEnricher(geocoder, cfg, logger)
	}

	client := avito.NewClient(cfg, logger)
	harvester := avito.NewHarvester(client, cfg, logger)
	p := pipeline.New(cfg, harvester, enricher, storage.NewCSVWriter(), logger)

	out, err := p.Run(ctx)
	switch {
	case errors.Is(err, avito.ErrUnrecoverableCount):
		logger.Error("Failed to fetch ad count. Exiting.")
		return cli.Exit(err.Error(), 1)
	case errors.Is(err, context.Canceled):
		logger.Warn("Interrupted, no output written")
		return cli.Exit("interrupted", 130)
	case err != nil:
		return cli.Exit(err.Error(), 1)
	}

	if out.OutputPath == "" {
		logger.Info("Done. Nothing to write.")
		return nil
	}
	logger.Info("Done. %d records from %d/%d pages -> %s",
		out.Records, out.Pages-len(out.FailedPages), out.Pages, out.OutputPath)
	return nil
}
