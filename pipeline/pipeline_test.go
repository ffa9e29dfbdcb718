package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avito-harvester/config"
	"avito-harvester/models"
	"avito-harvester/scraper/avito"
	"avito-harvester/services"
	"avito-harvester/storage"
	"avito-harvester/utils"
)

// fakeAPI serves the listing API: a fixed total, per-page ads, and pages
// that answer 500.
type fakeAPI struct {
	total     int
	countFail bool
	failPages map[int]bool
	requested []int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		Query     string          `json:"query"`
		Variables avito.Variables `json:"variables"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Query == avito.CountQuery {
		if f.countFail {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"data":{"getListingAds":{"count":{"total":%d}}}}`, f.total)
		return
	}

	page := req.Variables.Query.Page.Number
	f.requested = append(f.requested, page)
	if f.failPages[page] {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	areas := []string{"Maarif", "Gauthier"}
	ads := make([]string, 0, 2)
	for i, area := range areas {
		ads = append(ads, fmt.Sprintf(`{"details":{
			"adId":"p%d-%d",
			"price":{"withCurrency":"%d DH","withoutCurrency":%d},
			"params":{"primary":[{"id":"rooms","numericValue":%d}],"secondary":[]},
			"location":{"city":{"name":"Casablanca"},"area":{"name":%q}}
		}}`, page, i, 1000*page, 1000*page, i+2, area))
	}
	fmt.Fprintf(w, `{"data":{"getListingAds":{"ads":[%s]}}}`, strings.Join(ads, ","))
}

type fakeGeocoder struct{ queries []string }

func (g *fakeGeocoder) Geocode(_ context.Context, query string) (models.GeoPoint, error) {
	g.queries = append(g.queries, query)
	return models.GeoPoint{Lat: 33.5, Lng: -7.6}, nil
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.APIURL = apiURL
	cfg.OutputDir = t.TempDir()
	cfg.GeocodeDelay = 0
	return cfg
}

func newPipeline(cfg *config.Config, enricher Enricher) *Pipeline {
	logger := utils.NewNopLogger()
	h := avito.NewHarvester(avito.NewClient(cfg, logger), cfg, logger)
	return New(cfg, h, enricher, storage.NewCSVWriter(), logger)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func column(records [][]string, name string) []string {
	idx := -1
	for i, h := range records[0] {
		if h == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	var out []string
	for _, r := range records[1:] {
		out = append(out, r[idx])
	}
	return out
}

func TestRunSkipsFailedPageWithoutGeocoding(t *testing.T) {
	api := &fakeAPI{total: 2500, failPages: map[int]bool{2: true}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	out, err := newPipeline(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, out.Pages)
	assert.Equal(t, []int{1, 2, 3}, api.requested)
	assert.Equal(t, []int{2}, out.FailedPages)
	assert.False(t, out.Geocoded)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "avito_ads_unmapped.csv"), out.OutputPath)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "avito_ads_geocoded.csv"))

	records := readCSV(t, out.OutputPath)
	assert.Equal(t, []string{"p1-0", "p1-1", "p3-0", "p3-1"}, column(records, models.ColAdID))
	assert.Equal(t, []string{"2", "3", "2", "3"}, column(records, "rooms"))
	assert.NotContains(t, records[0], models.ColLatitude)
	assert.NotContains(t, records[0], models.ColLongitude)
	assert.Equal(t, 4, out.Summary.TotalRows)
}

func TestRunGeocodesEachLocationOnce(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{total: 1500})
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	g := &fakeGeocoder{}
	enricher := services.NewEnricher(g, cfg, utils.NewNopLogger())

	out, err := newPipeline(cfg, enricher).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Geocoded)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "avito_ads_geocoded.csv"), out.OutputPath)
	assert.Equal(t, []string{"Maarif, Casablanca, Morocco", "Gauthier, Casablanca, Morocco"}, g.queries)

	records := readCSV(t, out.OutputPath)
	assert.Equal(t, []string{"33.5", "33.5", "33.5", "33.5"}, column(records, models.ColLatitude))
	assert.Equal(t, []string{"-7.6", "-7.6", "-7.6", "-7.6"}, column(records, models.ColLongitude))
	assert.Equal(t, 4, out.Summary.GeocodedRows)
}

func TestRunFailsWhenCountUnavailable(t *testing.T) {
	api := &fakeAPI{countFail: true}
	srv := httptest.NewServer(api)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	out, err := newPipeline(cfg, nil).Run(context.Background())
	assert.ErrorIs(t, err, avito.ErrUnrecoverableCount)
	assert.Empty(t, out.OutputPath)
	assert.Empty(t, api.requested)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file is written when the count fails")
}

func TestRunZeroTotalWritesNothing(t *testing.T) {
	api := &fakeAPI{total: 0}
	srv := httptest.NewServer(api)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	out, err := newPipeline(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Pages)
	assert.Empty(t, out.OutputPath)
	assert.Empty(t, api.requested)
}

func TestRunCancelledWritesNothing(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{total: 10})
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline(cfg, nil).Run(ctx)
	require.Error(t, err)
	entries, _ := os.ReadDir(cfg.OutputDir)
	assert.Empty(t, entries)
}
