// Package pipeline runs one harvest: count, paginate, flatten, optionally
// geocode, and write the dataset.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"avito-harvester/config"
	"avito-harvester/models"
	"avito-harvester/scraper/avito"
	"avito-harvester/services"
	"avito-harvester/storage"
	"avito-harvester/utils"
)

// Harvester is implemented by *avito.Harvester.
type Harvester interface {
	ResolveTotal(ctx context.Context) (int, error)
	Harvest(ctx context.Context, pageCount int) (*avito.HarvestResult, error)
}

// Enricher is implemented by *services.Enricher.
type Enricher interface {
	Enrich(ctx context.Context, keys []models.EnrichmentKey) ([]models.EnrichmentResult, error)
}

// Outcome describes a finished run.
type Outcome struct {
	RunID       string
	Total       int
	Pages       int
	Records     int
	FailedPages []int
	Geocoded    bool
	OutputPath  string // empty when nothing was written
	Summary     *models.RunSummary
}

type Pipeline struct {
	cfg        *config.Config
	harvester  Harvester
	enricher   Enricher
	writer     storage.DatasetWriter
	normalizer *services.Normalizer
	summary    *services.SummaryService
	logger     *utils.Logger
}

// New wires a Pipeline. enricher may be nil, in which case the dataset is
// written without coordinates under the unmapped file name.
func New(cfg *config.Config, h Harvester, enricher Enricher, w storage.DatasetWriter, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		harvester:  h,
		enricher:   enricher,
		writer:     w,
		normalizer: services.NewNormalizer(logger),
		summary:    services.NewSummaryService(logger),
		logger:     logger,
	}
}

// Run executes the pipeline. A failed count or a cancelled context aborts the
// run before anything is written. A zero total is a successful empty run.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{RunID: uuid.NewString()}
	log := p.logger.With("run", out.RunID)

	log.Info("[pipeline] Fetching total number of ads...")
	total, err := p.harvester.ResolveTotal(ctx)
	if err != nil {
		return out, err
	}
	out.Total = total
	if total == 0 {
		log.Info("[pipeline] No ads found for the specified criteria")
		return out, nil
	}

	out.Pages = avito.PageCount(total, p.cfg.PageSizeCeiling)
	log.Info("[pipeline] Found %d ads across %d pages", total, out.Pages)

	harvested, err := p.harvester.Harvest(ctx, out.Pages)
	if err != nil {
		return out, fmt.Errorf("pipeline: harvest: %w", err)
	}
	out.Records = len(harvested.Records)
	for _, f := range harvested.Failures {
		out.FailedPages = append(out.FailedPages, f.Page)
	}
	if len(out.FailedPages) > 0 {
		log.Warn("[pipeline] %d of %d pages failed: %v", len(out.FailedPages), out.Pages, out.FailedPages)
	}

	log.Info("[pipeline] Processing and cleaning data...")
	rows := p.normalizer.Normalize(harvested.Records)

	var ds *models.Dataset
	if p.enricher == nil {
		log.Info("[pipeline] Geocoding disabled, keeping rows without coordinates")
		ds = services.NewDataset(rows)
	} else {
		log.Info("[pipeline] Starting geocoding process...")
		results, err := p.enricher.Enrich(ctx, services.ExtractKeys(rows))
		if err != nil {
			return out, fmt.Errorf("pipeline: geocode: %w", err)
		}
		log.Info("[pipeline] Geocoding complete, %d locations resolved", len(results))
		ds = services.Merge(rows, results)
		out.Geocoded = true
	}

	path := p.cfg.OutputPath(out.Geocoded)
	if err := p.writer.Write(ds, path); err != nil {
		return out, fmt.Errorf("pipeline: write output: %w", err)
	}
	out.OutputPath = path
	log.Info("[pipeline] Data saved to %s", path)

	out.Summary = p.summary.Generate(ds)
	p.summary.Print(out.Summary)
	return out, nil
}
