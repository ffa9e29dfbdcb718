package services

import (
	"context"
	"strings"

	"avito-harvester/config"
	"avito-harvester/models"
	"avito-harvester/utils"
)

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (models.GeoPoint, error)
}

// ExtractKeys returns the distinct (city, area) pairs of rows, in first-seen
// order. Rows with a null city contribute nothing.
func ExtractKeys(rows []models.Row) []models.EnrichmentKey {
	set := utils.NewOrderedSet[models.EnrichmentKey]()
	for _, r := range rows {
		if key, ok := models.KeyOf(r); ok {
			set.Add(key)
		}
	}
	return set.Items()
}

// GeocodeQuery joins the present key components with the region suffix,
// most specific first: "area, city, region".
func GeocodeQuery(key models.EnrichmentKey, region string) string {
	parts := make([]string, 0, 3)
	if key.HasArea {
		parts = append(parts, key.Area)
	}
	parts = append(parts, key.City, region)
	return strings.Join(parts, ", ")
}

// Enricher geocodes keys one at a time with a mandatory pause after every
// lookup.
type Enricher struct {
	geocoder Geocoder
	throttle *utils.Throttle
	region   string
	logger   *utils.Logger
}

// NewEnricher creates an Enricher pacing lookups by cfg.GeocodeDelay.
func NewEnricher(g Geocoder, cfg *config.Config, logger *utils.Logger) *Enricher {
	return &Enricher{
		geocoder: g,
		throttle: utils.NewThrottle(cfg.GeocodeDelay),
		region:   cfg.RegionSuffix,
		logger:   logger,
	}
}

// Enrich looks up each key once. A failed lookup is logged and leaves no
// result for that key. Cancellation lets the in-flight lookup finish; the
// results gathered so far are returned with the context error.
func (e *Enricher) Enrich(ctx context.Context, keys []models.EnrichmentKey) ([]models.EnrichmentResult, error) {
	e.logger.Info("[geocoder] Found %d unique locations to geocode", len(keys))

	results := make([]models.EnrichmentResult, 0, len(keys))
	_, err := e.throttle.Run(ctx, len(keys), func(i int) {
		key := keys[i]
		query := GeocodeQuery(key, e.region)

		pt, err := e.geocoder.Geocode(context.WithoutCancel(ctx), query)
		if err != nil {
			e.logger.Warn("[geocoder] Error geocoding %q: %v", query, err)
		} else {
			results = append(results, models.EnrichmentResult{Key: key, Point: pt})
		}
		e.logger.Info("[geocoder] Completed geocoding %d/%d locations (%d resolved)", i+1, len(keys), len(results))
	})
	return results, err
}
