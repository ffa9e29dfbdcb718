package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrMissingCredential means the geocoder API key is not configured.
// Geocoding is skipped, the run itself continues.
var ErrMissingCredential = errors.New("config: OPENCAGE_API_KEY not set")

// Filter is the fixed ad search filter sent with every listing query.
type Filter struct {
	CategoryID int    `validate:"gt=0"`
	Type       string `validate:"required"`
	HasPrice   bool
	HasImage   bool
	MinPrice   int64 `validate:"gte=0"`
}

// Config holds all application configuration. Only the geocoder credential
// comes from the environment; everything else is a fixed default.
type Config struct {
	APIURL          string        `validate:"required,url"`
	UserAgent       string        `validate:"required"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	PageSizeCeiling int           `validate:"gt=0"`
	PageAttempts    int           `validate:"gte=1"`
	Filter          Filter

	GeocoderURL     string        `validate:"required,url"`
	GeocoderAPIKey  string
	GeocodeLanguage string        `validate:"required"`
	GeocodeDelay    time.Duration `validate:"gte=1100ms"`
	RegionSuffix    string        `validate:"required"`

	OutputDir        string `validate:"required"`
	UnmappedFileName string `validate:"required,nefield=GeocodedFileName"`
	GeocodedFileName string `validate:"required"`
}

// Default returns the configuration used for a run before the environment is read.
func Default() *Config {
	return &Config{
		APIURL: "https://gateway.avito.ma/graphql",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		RequestTimeout:  60 * time.Second,
		PageSizeCeiling: 1000,
		PageAttempts:    1,
		Filter: Filter{
			CategoryID: 1200,
			Type:       "SELL",
			HasPrice:   true,
			HasImage:   false,
			MinPrice:   0,
		},

		GeocoderURL:     "https://api.opencagedata.com/geocode/v1/json",
		GeocodeLanguage: "en",
		GeocodeDelay:    1100 * time.Millisecond,
		RegionSuffix:    "Morocco",

		OutputDir:        ".",
		UnmappedFileName: "avito_ads_unmapped.csv",
		GeocodedFileName: "avito_ads_geocoded.csv",
	}
}

// Load reads the .env file, picks up the geocoder credential and validates
// the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := Default()
	cfg.GeocoderAPIKey = os.Getenv("OPENCAGE_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// GeocodingEnabled reports whether the geocoder credential is present.
func (c *Config) GeocodingEnabled() bool {
	return c.GeocoderAPIKey != ""
}

// OutputPath returns the file the run writes, depending on whether
// geocoding ran.
func (c *Config) OutputPath(geocoded bool) string {
	name := c.UnmappedFileName
	if geocoded {
		name = c.GeocodedFileName
	}
	return filepath.Join(c.OutputDir, name)
}
