// Package opencage is a minimal client for the OpenCage forward geocoding API.
package opencage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"avito-harvester/config"
	"avito-harvester/models"
)

// ErrNoResults is returned when the lookup succeeded but matched nothing.
var ErrNoResults = errors.New("opencage: no results")

type Client struct {
	BaseURL    string
	APIKey     string
	Language   string
	HTTPClient *http.Client
}

// NewClient returns config.ErrMissingCredential when apiKey is empty.
func NewClient(baseURL, apiKey, language string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, config.ErrMissingCredential
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Language:   language,
		HTTPClient: &http.Client{Timeout: timeout},
	}, nil
}

// Docs: https://opencagedata.com/api#response
type geocodeResp struct {
	Results []struct {
		Formatted string `json:"formatted"`
		Geometry  *struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
}

// Geocode resolves a free-text query to its best candidate coordinates.
func (c *Client) Geocode(ctx context.Context, query string) (models.GeoPoint, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("key", c.APIKey)
	q.Set("language", c.Language)
	q.Set("limit", "1")
	q.Set("no_annotations", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.GeoPoint{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("opencage: %w", err)
	}
	defer resp.Body.Close()

	var out geocodeResp
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && out.Status.Message != "" {
			return models.GeoPoint{}, fmt.Errorf("opencage: status %d: %s", resp.StatusCode, out.Status.Message)
		}
		return models.GeoPoint{}, fmt.Errorf("opencage: status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return models.GeoPoint{}, fmt.Errorf("opencage: decode response: %w", decodeErr)
	}
	if len(out.Results) == 0 {
		return models.GeoPoint{}, ErrNoResults
	}

	top := out.Results[0]
	if top.Geometry == nil {
		return models.GeoPoint{}, fmt.Errorf("opencage: result %q has no geometry", top.Formatted)
	}
	return models.GeoPoint{Lat: top.Geometry.Lat, Lng: top.Geometry.Lng}, nil
}
