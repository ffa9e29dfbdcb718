package avito

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"avito-harvester/config"
	"avito-harvester/models"
	"avito-harvester/utils"
)

// ErrUnrecoverableCount means the total could not be determined; the run
// cannot continue.
var ErrUnrecoverableCount = errors.New("avito: could not resolve total ad count")

var errMissingData = errors.New("response has no data")

// Fetcher is the subset of Client the harvester needs.
type Fetcher interface {
	Fetch(ctx context.Context, query string, vars Variables) (*Response, error)
}

// PageFailure records a page that was skipped.
type PageFailure struct {
	Page int
	Err  error
}

// HarvestResult is the fold of a harvest run: the detail records of every
// page that succeeded, in page order, and the pages that did not.
type HarvestResult struct {
	Records  []*models.AdDetails
	Failures []PageFailure
}

// Harvester drives the count-then-paginate protocol, one page at a time.
type Harvester struct {
	fetcher Fetcher
	filter  config.Filter
	ceiling int
	logger  *utils.Logger
	retry   *utils.RetryConfig
}

// NewHarvester creates a Harvester using cfg's filter, page-size ceiling and
// page attempts.
func NewHarvester(f Fetcher, cfg *config.Config, logger *utils.Logger) *Harvester {
	return &Harvester{
		fetcher: f,
		filter:  cfg.Filter,
		ceiling: cfg.PageSizeCeiling,
		logger:  logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.PageAttempts,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
			Retryable: func(err error) bool {
				var fe *FetchError
				return errors.As(err, &fe) && fe.Retryable()
			},
		},
	}
}

// PageCount returns ceil(total / ceiling).
func PageCount(total, ceiling int) int {
	if total <= 0 || ceiling <= 0 {
		return 0
	}
	return (total + ceiling - 1) / ceiling
}

type countPayload struct {
	GetListingAds *struct {
		Count *struct {
			Total *json.Number `json:"total"`
		} `json:"count"`
	} `json:"getListingAds"`
}

// ResolveTotal issues the count query with page size 1. Any failure is
// wrapped in ErrUnrecoverableCount.
func (h *Harvester) ResolveTotal(ctx context.Context) (int, error) {
	resp, err := h.fetcher.Fetch(ctx, CountQuery, NewVariables(h.filter, 1, 1))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnrecoverableCount, err)
	}
	if isNullJSON(resp.Data) {
		return 0, fmt.Errorf("%w: %w", ErrUnrecoverableCount, errMissingData)
	}

	var p countPayload
	if err := json.Unmarshal(resp.Data, &p); err != nil {
		return 0, fmt.Errorf("%w: decode count: %w", ErrUnrecoverableCount, err)
	}
	if p.GetListingAds == nil || p.GetListingAds.Count == nil || p.GetListingAds.Count.Total == nil {
		return 0, fmt.Errorf("%w: count.total missing from response", ErrUnrecoverableCount)
	}

	raw := p.GetListingAds.Count.Total
	total, err := raw.Float64()
	if err != nil || total < 0 || total != math.Trunc(total) {
		return 0, fmt.Errorf("%w: invalid total %q", ErrUnrecoverableCount, raw.String())
	}
	return int(total), nil
}

// Harvest fetches pages 1..pageCount in order. A failed page is logged and
// skipped. Only cancellation of ctx stops the loop early; the records
// collected so far are returned with the context error.
func (h *Harvester) Harvest(ctx context.Context, pageCount int) (*HarvestResult, error) {
	result := &HarvestResult{}

	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		h.logger.Info("[avito] Fetching page %d/%d...", page, pageCount)

		var records []*models.AdDetails
		err := h.retry.Do(ctx, fmt.Sprintf("fetch-page-%d", page), func() error {
			var fetchErr error
			records, fetchErr = h.fetchPage(ctx, page)
			return fetchErr
		})
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			h.logger.Warn("[avito] Failed to fetch data for page %d: %v", page, err)
			result.Failures = append(result.Failures, PageFailure{Page: page, Err: err})
			continue
		}

		result.Records = append(result.Records, records...)
		h.logger.Info("[avito] Page %d done, collected %d records so far", page, len(result.Records))
	}

	return result, nil
}

type adsPayload struct {
	GetListingAds *struct {
		Ads []json.RawMessage `json:"ads"`
	} `json:"getListingAds"`
}

func (h *Harvester) fetchPage(ctx context.Context, page int) ([]*models.AdDetails, error) {
	resp, err := h.fetcher.Fetch(ctx, DetailQuery, NewVariables(h.filter, page, h.ceiling))
	if err != nil {
		return nil, err
	}
	if isNullJSON(resp.Data) {
		return nil, errMissingData
	}

	var p adsPayload
	if err := json.Unmarshal(resp.Data, &p); err != nil {
		return nil, &FetchError{Kind: KindDecode, Err: err}
	}
	if p.GetListingAds == nil {
		return nil, errMissingData
	}

	records := make([]*models.AdDetails, 0, len(p.GetListingAds.Ads))
	for _, item := range p.GetListingAds.Ads {
		d, ok := h.parseAd(item)
		if ok {
			records = append(records, d)
		}
	}
	return records, nil
}

// parseAd extracts the detail record from one ads[] entry. Entries that are
// not objects are warned about; entries without usable details are dropped
// quietly.
func (h *Harvester) parseAd(item json.RawMessage) (*models.AdDetails, bool) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		h.logger.Warn("[avito] Skipping unexpected item in API response: %s", truncate(string(trimmed), 120))
		return nil, false
	}

	var entry struct {
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(trimmed, &entry); err != nil {
		h.logger.Warn("[avito] Skipping malformed ad entry: %v", err)
		return nil, false
	}
	if isNullJSON(entry.Details) {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry.Details, &fields); err != nil || len(fields) == 0 {
		return nil, false
	}

	var d models.AdDetails
	if err := json.Unmarshal(entry.Details, &d); err != nil {
		return nil, false
	}
	return &d, true
}

func isNullJSON(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
