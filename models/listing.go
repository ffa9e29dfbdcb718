package models

import "github.com/shopspring/decimal"

// AdDetails is one published ad as returned by the listing API, before
// flattening. Every field is optional.
type AdDetails struct {
	AdID        Value     `json:"adId"`
	ListID      Value     `json:"listId"`
	Category    *Category `json:"category"`
	Type        *AdType   `json:"type"`
	Title       Value     `json:"title"`
	Description Value     `json:"description"`
	Price       *Price    `json:"price"`
	Discount    Value     `json:"discount"`
	Params      *Params   `json:"params"`
	SellerType  Value     `json:"sellerType"`
	Location    *Location `json:"location"`
	ListTime    Value     `json:"listTime"`
	IsEcommerce Value     `json:"isEcommerce"`
	IsImmoneuf  Value     `json:"isImmoneuf"`
}

// Category is a node in the category hierarchy; Parent links to the
// enclosing category, to any depth.
type Category struct {
	ID     Value     `json:"id"`
	Name   Value     `json:"name"`
	Parent *Category `json:"parent"`
}

type AdType struct {
	Key  Value `json:"key"`
	Name Value `json:"name"`
}

// Price carries the display form (with currency) and the raw amount.
type Price struct {
	WithCurrency    Value `json:"withCurrency"`
	WithoutCurrency Value `json:"withoutCurrency"`
}

type Params struct {
	Primary   []*AdParam `json:"primary"`
	Secondary []*AdParam `json:"secondary"`
}

// AdParam is a typed ad attribute. At most one of the typed values is
// expected to be set.
type AdParam struct {
	ID           Value            `json:"id"`
	Name         Value            `json:"name"`
	TextValue    *string          `json:"textValue"`
	NumericValue *decimal.Decimal `json:"numericValue"`
	BooleanValue *bool            `json:"booleanValue"`
}

// Value picks the first non-null of text, numeric and boolean. Empty text,
// zero and false are real values.
func (p *AdParam) Value() Value {
	switch {
	case p.TextValue != nil:
		return Text(*p.TextValue)
	case p.NumericValue != nil:
		return Numeric(*p.NumericValue)
	case p.BooleanValue != nil:
		return Boolean(*p.BooleanValue)
	default:
		return Null()
	}
}

type Location struct {
	City *Place `json:"city"`
	Area *Place `json:"area"`
}

type Place struct {
	ID   Value `json:"id"`
	Name Value `json:"name"`
}
