package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"avito-harvester/models"
	"avito-harvester/utils"
)

const topCitiesLimit = 5

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

// Generate computes row counts, price statistics over numeric prices and the
// cities with the most ads.
func (s *SummaryService) Generate(ds *models.Dataset) *models.RunSummary {
	sum := &models.RunSummary{}
	if ds == nil {
		return sum
	}
	sum.TotalRows = len(ds.Rows)
	sum.TotalColumns = len(ds.Columns)

	var total decimal.Decimal
	byCity := make(map[string]int)
	for _, r := range ds.Rows {
		if lat, ok := r[models.ColLatitude]; ok && !lat.IsNull() {
			sum.GeocodedRows++
		}
		if price, ok := r[models.ColPrice].Decimal(); ok {
			if sum.PricedRows == 0 || price.LessThan(sum.MinPrice) {
				sum.MinPrice = price
			}
			if sum.PricedRows == 0 || price.GreaterThan(sum.MaxPrice) {
				sum.MaxPrice = price
			}
			total = total.Add(price)
			sum.PricedRows++
		}
		if city := r[models.ColCityName]; !city.IsNull() {
			byCity[city.String()]++
		}
	}
	if sum.PricedRows > 0 {
		sum.AveragePrice = total.Div(decimal.NewFromInt(int64(sum.PricedRows))).Round(2)
	}

	for city, n := range byCity {
		sum.TopCities = append(sum.TopCities, models.CityCount{City: city, Count: n})
	}
	sort.Slice(sum.TopCities, func(i, j int) bool {
		if sum.TopCities[i].Count != sum.TopCities[j].Count {
			return sum.TopCities[i].Count > sum.TopCities[j].Count
		}
		return sum.TopCities[i].City < sum.TopCities[j].City
	})
	if len(sum.TopCities) > topCitiesLimit {
		sum.TopCities = sum.TopCities[:topCitiesLimit]
	}
	return sum
}

func (s *SummaryService) Print(sum *models.RunSummary) {
	s.logger.Info("[summary] %d rows x %d columns, %d with coordinates", sum.TotalRows, sum.TotalColumns, sum.GeocodedRows)
	if sum.PricedRows > 0 {
		s.logger.Info("[summary] price over %d ads: min %s | avg %s | max %s",
			sum.PricedRows, sum.MinPrice, sum.AveragePrice, sum.MaxPrice)
	} else {
		s.logger.Info("[summary] no price data available")
	}
	for i, c := range sum.TopCities {
		s.logger.Info("[summary] %d. %s (%d)", i+1, c.City, c.Count)
	}
}
