package avito

import "avito-harvester/config"

// DetailQuery fetches one page of published ads with every field the
// normalizer knows how to flatten.
const DetailQuery = `
query getListingAds($query: ListingAdsSearchQuery!) {
  getListingAds(query: $query) {
    ads {
      details {
        ... on PublishedAd {
          adId
          listId
          category { id name parent { id name parent { id name } } }
          type { key name }
          title
          description
          price { withCurrency withoutCurrency }
          discount
          params {
            primary { ... on TextAdParam { id name textValue } ... on NumericAdParam { id name numericValue } ... on BooleanAdParam { id name booleanValue } }
            secondary { ... on TextAdParam { id name textValue } ... on NumericAdParam { id name numericValue } ... on BooleanAdParam { id name booleanValue } }
          }
          sellerType
          location { city { id name } area { id name } }
          listTime
          isEcommerce
          isImmoneuf
        }
      }
    }
  }
}
`

// CountQuery returns only the total number of ads matching the filter.
const CountQuery = `
query getListingAds($query: ListingAdsSearchQuery!) {
  getListingAds(query: $query) {
    count {
      total
    }
  }
}
`

// Variables is the GraphQL variables object shared by both queries.
type Variables struct {
	Query SearchQuery `json:"query"`
}

type SearchQuery struct {
	Filters Filters  `json:"filters"`
	Page    PageSpec `json:"page"`
}

type Filters struct {
	Ad AdFilter `json:"ad"`
}

type AdFilter struct {
	CategoryID int         `json:"categoryId"`
	Type       string      `json:"type"`
	HasPrice   bool        `json:"hasPrice"`
	HasImage   bool        `json:"hasImage"`
	Price      PriceFilter `json:"price"`
}

type PriceFilter struct {
	GreaterThanOrEqual int64 `json:"greaterThanOrEqual"`
}

type PageSpec struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// NewVariables builds the variables for one request. page is 1-based.
func NewVariables(f config.Filter, page, size int) Variables {
	return Variables{Query: SearchQuery{
		Filters: Filters{Ad: AdFilter{
			CategoryID: f.CategoryID,
			Type:       f.Type,
			HasPrice:   f.HasPrice,
			HasImage:   f.HasImage,
			Price:      PriceFilter{GreaterThanOrEqual: f.MinPrice},
		}},
		Page: PageSpec{Number: page, Size: size},
	}}
}
