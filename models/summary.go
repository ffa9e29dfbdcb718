package models

import "github.com/shopspring/decimal"

// RunSummary holds figures computed over the final dataset.
type RunSummary struct {
	TotalRows    int
	TotalColumns int
	GeocodedRows int
	PricedRows   int
	AveragePrice decimal.Decimal
	MinPrice     decimal.Decimal
	MaxPrice     decimal.Decimal
	TopCities    []CityCount
}

type CityCount struct {
	City  string
	Count int
}
