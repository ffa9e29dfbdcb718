package services

import (
	"strings"

	"avito-harvester/models"
	"avito-harvester/utils"
)

// categoryPathSep joins category names from root to leaf.
const categoryPathSep = " > "

// Normalizer flattens detail records into rows.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize flattens every record, preserving order.
func (n *Normalizer) Normalize(records []*models.AdDetails) []models.Row {
	rows := make([]models.Row, 0, len(records))
	for _, d := range records {
		rows = append(rows, NormalizeRecord(d))
	}
	n.logger.Info("[normalizer] Flattened %d records into rows", len(rows))
	return rows
}

// NormalizeRecord maps one detail record to a row holding every core column
// plus one column per parameter id. A missing intermediate object leaves
// its columns null. Parameters sharing an id overwrite earlier ones.
func NormalizeRecord(d *models.AdDetails) models.Row {
	row := make(models.Row, len(models.CoreColumns))
	for _, col := range models.CoreColumns {
		row[col] = models.Null()
	}
	if d == nil {
		return row
	}

	row[models.ColAdID] = d.AdID
	row[models.ColListID] = d.ListID
	row[models.ColListTime] = d.ListTime
	row[models.ColTitle] = d.Title
	row[models.ColDescription] = d.Description
	row[models.ColDiscount] = d.Discount
	row[models.ColSellerType] = d.SellerType
	row[models.ColIsEcommerce] = d.IsEcommerce
	row[models.ColIsImmoneuf] = d.IsImmoneuf

	if p := d.Price; p != nil {
		row[models.ColPriceStr] = p.WithCurrency
		row[models.ColPrice] = p.WithoutCurrency
	}
	if t := d.Type; t != nil {
		row[models.ColTypeKey] = t.Key
		row[models.ColTypeName] = t.Name
	}
	if c := d.Category; c != nil {
		row[models.ColCategoryID] = c.ID
		row[models.ColCategoryName] = c.Name
		if c.Parent != nil {
			row[models.ColParentCategoryID] = c.Parent.ID
			row[models.ColParentCategoryName] = c.Parent.Name
		}
		row[models.ColCategoryPath] = categoryPath(c)
	}
	if l := d.Location; l != nil {
		if l.City != nil {
			row[models.ColCityName] = l.City.Name
		}
		if l.Area != nil {
			row[models.ColAreaName] = l.Area.Name
		}
	}

	if d.Params != nil {
		for _, group := range [][]*models.AdParam{d.Params.Primary, d.Params.Secondary} {
			for _, p := range group {
				if p == nil || p.ID.IsNull() || p.ID.String() == "" {
					continue
				}
				row[p.ID.String()] = p.Value()
			}
		}
	}

	return row
}

// categoryPath walks parent links and returns the names root-first.
func categoryPath(c *models.Category) models.Value {
	var names []string
	for ; c != nil; c = c.Parent {
		if !c.Name.IsNull() {
			names = append(names, c.Name.String())
		}
	}
	if len(names) == 0 {
		return models.Null()
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return models.Text(strings.Join(names, categoryPathSep))
}
