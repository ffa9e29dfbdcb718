package services

import (
	"sort"

	"avito-harvester/models"
	"avito-harvester/utils"
)

// InferSchema is the first pass of table assembly: core columns in their
// fixed order, then every other column in first-seen order across rows,
// then extra. Columns new to a row are added in name order.
func InferSchema(rows []models.Row, extra ...string) []string {
	cols := utils.NewOrderedSet[string]()
	for _, c := range models.CoreColumns {
		cols.Add(c)
	}
	for _, r := range rows {
		for _, c := range sortedKeys(r) {
			cols.Add(c)
		}
	}
	for _, c := range extra {
		cols.Add(c)
	}
	return cols.Items()
}

// NewDataset assembles rows without coordinates.
func NewDataset(rows []models.Row) *models.Dataset {
	return &models.Dataset{Columns: InferSchema(rows), Rows: rows}
}

// CollisionSuffix is appended to a parameter column whose id clashes with a
// coordinate column, so the parameter's values survive the merge.
const CollisionSuffix = "_x"

// Merge left-joins geocoding results onto rows by enrichment key. Rows
// without a result, including rows with a null city, get null coordinates.
// The input rows are not modified.
func Merge(rows []models.Row, results []models.EnrichmentResult) *models.Dataset {
	index := make(map[models.EnrichmentKey]models.GeoPoint, len(results))
	for _, r := range results {
		index[r.Key] = r.Point
	}

	merged := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		out := make(models.Row, len(r)+2)
		for k, v := range r {
			if k == models.ColLatitude || k == models.ColLongitude {
				k += CollisionSuffix
			}
			out[k] = v
		}
		merged = append(merged, out)
	}
	cols := InferSchema(merged, models.ColLatitude, models.ColLongitude)

	for i, out := range merged {
		out[models.ColLatitude] = models.Null()
		out[models.ColLongitude] = models.Null()
		if key, ok := models.KeyOf(rows[i]); ok {
			if pt, found := index[key]; found {
				out[models.ColLatitude] = models.Float(pt.Lat)
				out[models.ColLongitude] = models.Float(pt.Lng)
			}
		}
	}

	return &models.Dataset{Columns: cols, Rows: merged}
}

func sortedKeys(r models.Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
