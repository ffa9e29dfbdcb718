package models

// Core column names, in output order. Every normalized row carries all of
// them, possibly null.
const (
	ColAdID               = "adId"
	ColListID             = "listId"
	ColListTime           = "listTime"
	ColTitle              = "title"
	ColDescription        = "description"
	ColPriceStr           = "priceStr"
	ColPrice              = "price"
	ColDiscount           = "discount"
	ColTypeKey            = "typeKey"
	ColTypeName           = "typeName"
	ColCategoryID         = "categoryId"
	ColCategoryName       = "categoryName"
	ColParentCategoryID   = "parentCategoryId"
	ColParentCategoryName = "parentCategoryName"
	ColCategoryPath       = "categoryPath"
	ColCityName           = "locationCityName"
	ColAreaName           = "locationAreaName"
	ColSellerType         = "sellerType"
	ColIsEcommerce        = "isEcommerce"
	ColIsImmoneuf         = "isImmoneuf"

	ColLatitude  = "latitude"
	ColLongitude = "longitude"
)

// CoreColumns lists the fixed schema of a normalized row.
var CoreColumns = []string{
	ColAdID, ColListID, ColListTime, ColTitle, ColDescription,
	ColPriceStr, ColPrice, ColDiscount, ColTypeKey, ColTypeName,
	ColCategoryID, ColCategoryName, ColParentCategoryID, ColParentCategoryName, ColCategoryPath,
	ColCityName, ColAreaName, ColSellerType, ColIsEcommerce, ColIsImmoneuf,
}

// Row is one flattened ad: column name to scalar. Parameter columns are
// present only when the parameter occurred in that ad.
type Row map[string]Value

// EnrichmentKey is the (city, area) pair geocoded once per run. A missing
// area is distinct from any named area, including the empty string.
type EnrichmentKey struct {
	City    string
	Area    string
	HasArea bool
}

// KeyOf projects a row onto its enrichment key. ok is false when the city
// is null.
func KeyOf(r Row) (key EnrichmentKey, ok bool) {
	city := r[ColCityName]
	if city.IsNull() {
		return EnrichmentKey{}, false
	}
	key.City = city.String()
	if area := r[ColAreaName]; !area.IsNull() {
		key.Area = area.String()
		key.HasArea = true
	}
	return key, true
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// EnrichmentResult is the resolved coordinate for one key.
type EnrichmentResult struct {
	Key   EnrichmentKey
	Point GeoPoint
}

// Dataset is the final table: an inferred column order plus its rows.
type Dataset struct {
	Columns []string
	Rows    []Row
}
